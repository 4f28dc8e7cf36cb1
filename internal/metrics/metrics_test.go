package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistry(t *testing.T) {
	t.Parallel()

	m := NewWithRegistry(prometheus.NewRegistry())
	if m == nil {
		t.Fatal("NewWithRegistry returned nil")
	}

	m.PredictionsTotal.Inc()
	m.ModelsLoaded.Set(3)

	if got := testutil.ToFloat64(m.PredictionsTotal); got != 1 {
		t.Errorf("predictions_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ModelsLoaded); got != 3 {
		t.Errorf("models_loaded = %v, want 3", got)
	}
}

func TestWrapper(t *testing.T) {
	t.Parallel()

	m := NewWithRegistry(prometheus.NewRegistry())
	w := NewWrapper(m)

	w.PredictionsInc()
	w.PredictionsInc()
	w.FailuresInc()
	w.SubstitutionsInc()
	w.LatencyObserve(0.01)
	w.FeatureCountObserve(60)

	if got := testutil.ToFloat64(m.PredictionsTotal); got != 2 {
		t.Errorf("predictions_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PredictionFailures); got != 1 {
		t.Errorf("prediction_failures_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ModelSubstitutions); got != 1 {
		t.Errorf("model_substitutions_total = %v, want 1", got)
	}
}
