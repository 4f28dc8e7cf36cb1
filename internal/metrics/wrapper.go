package metrics

// Wrapper adapts Metrics to the narrow interface the ml predictor
// consumes, keeping the ml package free of a prometheus dependency.
type Wrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *Wrapper {
	return &Wrapper{m: m}
}

func (w *Wrapper) PredictionsInc() {
	w.m.PredictionsTotal.Inc()
}

func (w *Wrapper) FailuresInc() {
	w.m.PredictionFailures.Inc()
}

func (w *Wrapper) SubstitutionsInc() {
	w.m.ModelSubstitutions.Inc()
}

func (w *Wrapper) LatencyObserve(seconds float64) {
	w.m.PredictionLatency.Observe(seconds)
}

func (w *Wrapper) FeatureCountObserve(count float64) {
	w.m.FeatureVectorSize.Observe(count)
}
