package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"vibrodiag/internal/cfg"
	"vibrodiag/internal/features"
	"vibrodiag/internal/metrics"
	"vibrodiag/internal/ml"
	"vibrodiag/internal/storage"
)

// recordingFile is the JSON layout of a recording on disk: the raw
// samples, optional real multi-channel columns, and an optional
// sampling-rate override.
type recordingFile struct {
	Samples      []float64   `json:"samples"`
	Channels     [][]float64 `json:"channels,omitempty"`
	SamplingRate float64     `json:"sampling_rate,omitempty"`
}

func main() {
	os.Exit(run())
}

// run holds all resource setup so deferred cleanup executes before the
// process exit code is applied.
func run() int {
	_ = godotenv.Load()

	inputPath := flag.String("input", "", "recording JSON file, or a directory of them")
	modelID := flag.String("model", "", "model identifier (default from config)")
	flag.Parse()

	c, err := cfg.Load()
	if err != nil {
		log.Error().Err(err).Msg("config load failed")
		return 1
	}
	if *inputPath == "" {
		log.Error().Msg("-input is required")
		return 1
	}

	m := metrics.New()
	startMetricsServer(c.MetricsPort)

	registry, err := ml.LoadRegistry(c.ModelsDir)
	if err != nil {
		log.Error().Err(err).Str("models_dir", c.ModelsDir).Msg("failed to load models")
		return 1
	}
	m.ModelsLoaded.Set(float64(registry.Len()))

	var store *storage.Store
	if c.DataPath != "" {
		store, err = storage.New(c.DataPath)
		if err != nil {
			log.Warn().Err(err).Msg("prediction history disabled")
		} else {
			defer store.Close()
		}
	}

	predictor := ml.NewPredictor(registry, ml.Config{
		DefaultModel: c.DefaultModel,
		Seed:         c.Seed,
		Metrics:      metrics.NewWrapper(m),
	})

	paths, err := collectInputs(*inputPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read input")
		return 1
	}

	failures, err := processRecordings(predictor, store, m, paths, *modelID, c.SamplingRate, os.Stdout)
	if err != nil {
		log.Error().Err(err).Msg("failed to write results")
		return 1
	}
	if failures > 0 {
		log.Warn().Int("failed", failures).Int("total", len(paths)).Msg("some predictions failed")
		return 1
	}
	return 0
}

// processRecordings predicts each recording, persists the outcome when
// a store is available, and streams results as JSON lines. It returns
// the number of failed predictions.
func processRecordings(predictor *ml.Predictor, store *storage.Store, m *metrics.Metrics, paths []string, modelID string, fallbackRate float64, out io.Writer) (int, error) {
	enc := json.NewEncoder(out)
	failures := 0
	for _, path := range paths {
		result := processRecording(predictor, path, modelID, fallbackRate)
		if result.Error != "" {
			failures++
		}

		if store != nil {
			if err := store.StorePrediction(storage.RecordFromResult(result, time.Now())); err != nil {
				log.Error().Err(err).Str("recording", path).Msg("failed to persist prediction")
				m.StorageErrors.Inc()
			}
		}

		if err := enc.Encode(result); err != nil {
			return failures, err
		}
	}
	return failures, nil
}

func processRecording(predictor *ml.Predictor, path, modelID string, fallbackRate float64) ml.Result {
	rec, err := readRecording(path)
	if err != nil {
		log.Error().Err(err).Str("recording", path).Msg("failed to read recording")
		return ml.Result{Error: err.Error()}
	}

	result := predictor.Predict(buildInput(rec, fallbackRate), modelID)

	log.Info().
		Str("recording", path).
		Str("model", result.ModelUsed).
		Str("prediction", result.Prediction).
		Int("features", result.FeaturesCount).
		Float64("sampling_rate", result.SamplingRate).
		Msg("prediction complete")
	return result
}

// buildInput converts a recording into a prediction input. A rate in
// the recording wins, then the configured rate; when both are absent
// the predictor infers the rate from the model name.
func buildInput(rec recordingFile, fallbackRate float64) ml.Input {
	rate := rec.SamplingRate
	if rate <= 0 {
		rate = fallbackRate
	}
	return ml.Input{
		Samples:      rec.Samples,
		Channels:     features.Matrix(rec.Channels),
		SamplingRate: rate,
	}
}

func readRecording(path string) (recordingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return recordingFile{}, fmt.Errorf("read recording: %w", err)
	}
	var rec recordingFile
	if err := json.Unmarshal(data, &rec); err != nil {
		return recordingFile{}, fmt.Errorf("parse recording: %w", err)
	}
	return rec, nil
}

func collectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(path, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no recording files in %s", path)
	}
	return paths, nil
}

func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		addr := fmt.Sprintf(":%d", port)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Warn().Err(err).Msg("metrics server stopped")
		}
	}()
}
