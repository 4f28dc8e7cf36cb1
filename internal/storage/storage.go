// Package storage persists prediction history using BoltDB. Records
// are keyed by model name and timestamp for efficient time-range
// queries over a model's diagnosis history.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"vibrodiag/internal/ml"
)

const predictionsBucket = "predictions"

// PredictionRecord is one persisted diagnosis outcome.
type PredictionRecord struct {
	Ts              time.Time          `json:"ts"`
	Model           string             `json:"model"`
	Prediction      string             `json:"prediction"`
	PredictionClass int                `json:"prediction_class"`
	Confidence      float64            `json:"confidence"`
	Probabilities   map[string]float64 `json:"probabilities,omitempty"`
	Success         bool               `json:"success"`
	ErrorMessage    string             `json:"error_message,omitempty"`
}

// RecordFromResult converts a prediction result into a storable
// record. Confidence is the highest class probability, zero when the
// model reported none or the prediction failed.
func RecordFromResult(res ml.Result, ts time.Time) PredictionRecord {
	rec := PredictionRecord{
		Ts:              ts,
		Model:           res.ModelUsed,
		Prediction:      res.Prediction,
		PredictionClass: res.PredictionClass,
		Probabilities:   res.Probabilities,
		Success:         res.Error == "",
		ErrorMessage:    res.Error,
	}
	for _, p := range res.Probabilities {
		if p > rec.Confidence {
			rec.Confidence = p
		}
	}
	return rec
}

// Store provides persistent prediction-history storage backed by BoltDB.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the history database under dataPath.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "vibrodiag-predictions.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(predictionsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create predictions bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StorePrediction writes one record, keyed "model_timestamp" so range
// scans per model stay contiguous.
func (s *Store) StorePrediction(rec PredictionRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(predictionsBucket))

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal prediction: %w", err)
		}

		key := fmt.Sprintf("%s_%d", rec.Model, rec.Ts.UnixNano())
		return b.Put([]byte(key), data)
	})
}

// GetPredictions retrieves the records for a model within [start, end].
func (s *Store) GetPredictions(model string, start, end time.Time) ([]PredictionRecord, error) {
	var records []PredictionRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(predictionsBucket))
		c := b.Cursor()

		prefix := []byte(model + "_")
		startKey := []byte(fmt.Sprintf("%s_%d", model, start.UnixNano()))
		endKey := []byte(fmt.Sprintf("%s_%d", model, end.UnixNano()))

		for k, v := c.Seek(startKey); k != nil && bytes.Compare(k, endKey) <= 0; k, v = c.Next() {
			if !bytes.HasPrefix(k, prefix) {
				continue
			}

			var rec PredictionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue // Skip malformed records
			}
			records = append(records, rec)
		}

		return nil
	})

	return records, err
}

// Recent returns up to limit records in reverse key order, newest
// first within each model.
func (s *Store) Recent(limit int) ([]PredictionRecord, error) {
	var records []PredictionRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(predictionsBucket))
		c := b.Cursor()

		for k, v := c.Last(); k != nil && len(records) < limit; k, v = c.Prev() {
			var rec PredictionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue
			}
			records = append(records, rec)
		}
		return nil
	})

	return records, err
}
