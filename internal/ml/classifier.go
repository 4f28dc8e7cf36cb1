// Package ml turns extracted vibration features into a fault diagnosis.
// It defines the classifier contract satisfied by pre-fit model
// artifacts, an immutable registry of loaded models, and the predictor
// that orchestrates channel assembly, feature selection and
// classification into a single result.
//
// Classifiers are opaque and read-only after load; concurrent
// predictions are safe because nothing in this package mutates them.
package ml

import (
	"fmt"

	"vibrodiag/internal/features"
)

// Classifier is the minimal contract a loaded model artifact must
// satisfy: a deterministic class-code prediction over a named feature
// vector. The feature names must match the model's training schema
// exactly; implementations report a mismatch as an error rather than
// silently predicting garbage.
type Classifier interface {
	Predict(vec *features.Vector) (int, error)
}

// ProbabilityEstimator is the optional capability of producing a
// per-class probability vector alongside the prediction.
type ProbabilityEstimator interface {
	PredictProba(vec *features.Vector) ([]float64, error)
}

// ClassLister is the optional capability of exposing the ordered class
// codes the probability vector is aligned to.
type ClassLister interface {
	Classes() []int
}

// Classification is the outcome of running one feature vector through
// a classifier.
type Classification struct {
	Code          int
	Name          string
	Probabilities map[string]float64
}

// Classify runs the model over the feature vector and maps the raw
// class code to the fault taxonomy. When the model estimates
// probabilities they are keyed by taxonomy name, paired via the
// model's class list if it exposes one and positionally (codes 0..N-1)
// otherwise. Probabilities are reported as the model returned them,
// without renormalization.
func Classify(vec *features.Vector, model Classifier) (Classification, error) {
	code, err := model.Predict(vec)
	if err != nil {
		return Classification{}, fmt.Errorf("predict: %w", err)
	}

	out := Classification{Code: code, Name: ClassName(code)}

	estimator, ok := model.(ProbabilityEstimator)
	if !ok {
		return out, nil
	}
	probs, err := estimator.PredictProba(vec)
	if err != nil {
		return Classification{}, fmt.Errorf("predict probabilities: %w", err)
	}

	var codes []int
	if lister, ok := model.(ClassLister); ok {
		codes = lister.Classes()
	}
	out.Probabilities = make(map[string]float64, len(probs))
	for i, p := range probs {
		c := i
		if i < len(codes) {
			c = codes[i]
		}
		out.Probabilities[ClassName(c)] = p
	}
	return out, nil
}
