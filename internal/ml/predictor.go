package ml

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"vibrodiag/internal/features"
)

// DefaultSamplingRate is assumed when a model identifier carries no
// numeric sampling-rate token.
const DefaultSamplingRate = 25000

// MetricsInterface defines the metrics methods the predictor reports to.
type MetricsInterface interface {
	PredictionsInc()
	FailuresInc()
	SubstitutionsInc()
	LatencyObserve(float64)
	FeatureCountObserve(float64)
}

// Input is one prediction request: a raw single-channel recording and,
// when real multi-sensor data exists, a pre-built channel matrix that
// bypasses synthetic channel assembly. SamplingRate overrides the rate
// inferred from the model identifier when positive.
type Input struct {
	Samples      []float64
	Channels     features.Matrix
	SamplingRate float64
}

// Result is the outcome of a prediction. Failures are carried in the
// Error field rather than returned as Go errors, so the serving layer
// above can map them to its own response format; a Result with an
// empty Error is a successful diagnosis.
type Result struct {
	Prediction      string             `json:"prediction,omitempty"`
	PredictionClass int                `json:"prediction_class"`
	Probabilities   map[string]float64 `json:"probabilities,omitempty"`
	ModelUsed       string             `json:"model_used,omitempty"`
	RequestedModel  string             `json:"requested_model,omitempty"`
	Substituted     bool               `json:"substituted,omitempty"`
	FeaturesCount   int                `json:"features_count"`
	SamplingRate    float64            `json:"sampling_rate"`
	Error           string             `json:"error,omitempty"`
}

// Config carries the predictor's construction-time options.
type Config struct {
	// DefaultModel is used when a request names no model.
	DefaultModel string
	// Seed fixes the noise source used for synthetic channels and
	// axes. Zero keeps time-based seeding, which makes
	// single-channel predictions non-reproducible.
	Seed int64
	// Metrics is optional; nil disables reporting.
	Metrics MetricsInterface
}

// Predictor composes the prediction pipeline: model resolution,
// sampling-rate inference, channel assembly, feature selection and
// classification. It holds no mutable state beyond the read-only
// registry, so concurrent Predict calls are safe.
type Predictor struct {
	registry     *Registry
	defaultModel string
	seed         int64
	metrics      MetricsInterface
}

// NewPredictor builds a predictor over an immutable model registry.
func NewPredictor(registry *Registry, cfg Config) *Predictor {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "myRF_3axis_25000"
	}
	return &Predictor{
		registry:     registry,
		defaultModel: cfg.DefaultModel,
		seed:         cfg.Seed,
		metrics:      cfg.Metrics,
	}
}

// Predict runs the full pipeline and always returns a Result; any
// failure is recovered into the Error field.
func (p *Predictor) Predict(in Input, modelID string) Result {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.LatencyObserve(time.Since(start).Seconds())
		}
	}()

	if modelID == "" {
		modelID = p.defaultModel
	}
	requested := modelID

	model, ok := p.registry.Get(modelID)
	substituted := false
	if !ok {
		name, fallback, found := p.registry.First()
		if !found {
			return p.fail(Result{RequestedModel: requested, Error: "No models available"})
		}
		log.Warn().Str("requested", requested).Str("using", name).Msg("requested model not found, substituting")
		if p.metrics != nil {
			p.metrics.SubstitutionsInc()
		}
		model = fallback
		modelID = name
		substituted = true
	}

	// The rate comes from the model actually used: a substituted
	// model was trained at its own rate, not the requested one's.
	samplingRate := in.SamplingRate
	if samplingRate <= 0 {
		samplingRate = InferSamplingRate(modelID)
	}

	matrix := in.Channels
	if len(matrix) == 0 && len(in.Samples) > 0 {
		matrix = features.Assemble(in.Samples, p.newRNG())
	}

	vec := features.ExtractForModel(in.Samples, matrix, modelID, samplingRate, p.newRNG())
	if vec.Len() == 0 {
		return p.fail(Result{
			ModelUsed:      modelID,
			RequestedModel: requested,
			Substituted:    substituted,
			SamplingRate:   samplingRate,
			Error:          "No features extracted",
		})
	}

	cls, err := Classify(vec, model)
	if err != nil {
		log.Error().Err(err).Str("model", modelID).Msg("classification failed")
		return p.fail(Result{
			ModelUsed:      modelID,
			RequestedModel: requested,
			Substituted:    substituted,
			FeaturesCount:  vec.Len(),
			SamplingRate:   samplingRate,
			Error:          err.Error(),
		})
	}

	if p.metrics != nil {
		p.metrics.PredictionsInc()
		p.metrics.FeatureCountObserve(float64(vec.Len()))
	}
	return Result{
		Prediction:      cls.Name,
		PredictionClass: cls.Code,
		Probabilities:   cls.Probabilities,
		ModelUsed:       modelID,
		RequestedModel:  requested,
		Substituted:     substituted,
		FeaturesCount:   vec.Len(),
		SamplingRate:    samplingRate,
	}
}

func (p *Predictor) fail(r Result) Result {
	if p.metrics != nil {
		p.metrics.FailuresInc()
	}
	return r
}

// newRNG returns a per-call noise source. A configured seed gives
// reproducible synthetic channels; otherwise each call is independent,
// which also keeps concurrent predictions from sharing RNG state.
func (p *Predictor) newRNG() *rand.Rand {
	if p.seed != 0 {
		return rand.New(rand.NewSource(p.seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// InferSamplingRate scans the identifier's "_"-separated tokens and
// returns the first purely numeric one as the sampling rate, falling
// back to DefaultSamplingRate.
func InferSamplingRate(modelID string) float64 {
	for _, part := range strings.Split(modelID, "_") {
		if part == "" || !isDigits(part) {
			continue
		}
		if rate, err := strconv.ParseFloat(part, 64); err == nil {
			return rate
		}
	}
	return DefaultSamplingRate
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
