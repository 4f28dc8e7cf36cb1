package ml

import (
	"sync"

	"vibrodiag/internal/features"
)

// MockMetrics implements MetricsInterface for testing.
type MockMetrics struct {
	mu            sync.Mutex
	predictions   int
	failures      int
	substitutions int
	latencySum    float64
	featureCounts []float64
}

func (m *MockMetrics) PredictionsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions++
}

func (m *MockMetrics) FailuresInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *MockMetrics) SubstitutionsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.substitutions++
}

func (m *MockMetrics) LatencyObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencySum += v
}

func (m *MockMetrics) FeatureCountObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.featureCounts = append(m.featureCounts, v)
}

// stubClassifier always predicts a fixed class and exposes no
// probability capability.
type stubClassifier struct {
	code int
}

func (s *stubClassifier) Predict(_ *features.Vector) (int, error) {
	return s.code, nil
}

// probClassifier adds the probability and class-list capabilities.
type probClassifier struct {
	stubClassifier
	probs   []float64
	classes []int
}

func (p *probClassifier) PredictProba(_ *features.Vector) ([]float64, error) {
	return p.probs, nil
}

func (p *probClassifier) Classes() []int {
	return p.classes
}
