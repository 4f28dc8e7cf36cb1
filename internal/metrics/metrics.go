// Package metrics provides Prometheus metrics for the vibration
// diagnosis service: prediction throughput, failures, model
// substitutions, latency, and feature-vector sizes, exposed via the
// Prometheus metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the diagnosis pipeline.
type Metrics struct {
	PredictionsTotal   prometheus.Counter   // Successful predictions
	PredictionFailures prometheus.Counter   // Predictions that returned an error result
	ModelSubstitutions prometheus.Counter   // Requests served by a fallback model
	PredictionLatency  prometheus.Histogram // End-to-end prediction latency in seconds
	FeatureVectorSize  prometheus.Histogram // Number of features per prediction
	ModelsLoaded       prometheus.Gauge     // Classifiers currently registered
	StorageErrors      prometheus.Counter   // Failed prediction-history writes
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics on a custom registry, which keeps
// test runs from colliding on the global one.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of successful predictions",
		}),
		PredictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_failures_total",
			Help: "Total number of predictions that returned an error result",
		}),
		ModelSubstitutions: factory.NewCounter(prometheus.CounterOpts{
			Name: "model_substitutions_total",
			Help: "Total number of requests served by a fallback model",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "End-to-end prediction latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		FeatureVectorSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "feature_vector_size",
			Help:    "Number of features extracted per prediction",
			Buckets: []float64{20, 60, 140},
		}),
		ModelsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "models_loaded",
			Help: "Number of classifiers currently registered",
		}),
		StorageErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "storage_errors_total",
			Help: "Total number of failed prediction-history writes",
		}),
	}
}
