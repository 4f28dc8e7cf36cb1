package features

import (
	"math/rand"
	"strings"
	"time"
)

// Strategy is the closed set of feature-extraction strategies. A model
// identifier resolves to exactly one strategy, so selection happens
// once per prediction instead of re-matching strings downstream.
type Strategy int

const (
	// StrategyFull extracts features from every available channel
	// column, up to the 7-channel vocabulary (~140 features).
	StrategyFull Strategy = iota
	// StrategyThreeAxis extracts features for the axial, radial and
	// tangential axes (60 features).
	StrategyThreeAxis
	// StrategySingleAxis extracts features for one axis only,
	// without an axis suffix in the names (20 features).
	StrategySingleAxis
)

func (s Strategy) String() string {
	switch s {
	case StrategyThreeAxis:
		return "3axis"
	case StrategySingleAxis:
		return "single-axis"
	default:
		return "full"
	}
}

// Axis identifies the vibration axis a single-axis model was trained on.
type Axis int

const (
	AxisAxial Axis = iota
	AxisRadial
	AxisTangential
)

func (a Axis) String() string {
	switch a {
	case AxisRadial:
		return "radial"
	case AxisTangential:
		return "tangential"
	default:
		return "axial"
	}
}

// column is the matrix column a single-axis model reads, skipping the
// tachometer at column 0. Callers clamp to the available column count.
func (a Axis) column() int {
	switch a {
	case AxisRadial:
		return 2
	case AxisTangential:
		return 3
	default:
		return 1
	}
}

// ResolveStrategy classifies a model identifier into a strategy by
// case-insensitive substring match. Precedence: "3axis" wins over any
// axis token, then "axial"/"radial"/"tangential", else the full
// 7-channel strategy. The Axis return is only meaningful for
// StrategySingleAxis.
func ResolveStrategy(modelID string) (Strategy, Axis) {
	name := strings.ToLower(modelID)
	switch {
	case strings.Contains(name, "3axis"):
		return StrategyThreeAxis, AxisAxial
	case strings.Contains(name, "axial"):
		return StrategySingleAxis, AxisAxial
	case strings.Contains(name, "radial"):
		return StrategySingleAxis, AxisRadial
	case strings.Contains(name, "tangential"):
		return StrategySingleAxis, AxisTangential
	default:
		return StrategyFull, AxisAxial
	}
}

// Extract produces the feature vector a model of the given strategy
// expects. samples is the raw single-channel recording; m is the
// multi-channel matrix when one exists (it takes precedence for the
// full and matrix-backed paths). rng feeds the synthetic axis noise
// used by the 3-axis strategy on single-channel input; nil draws a
// time-based seed.
func Extract(strategy Strategy, axis Axis, samples []float64, m Matrix, samplingRate float64, rng *rand.Rand) *Vector {
	switch strategy {
	case StrategyThreeAxis:
		return extractThreeAxis(samples, m, samplingRate, rng)
	case StrategySingleAxis:
		return extractSingleAxis(samples, m, samplingRate, axis)
	default:
		return extractFull(samples, m, samplingRate)
	}
}

// ExtractForModel resolves the strategy from the model identifier and
// extracts the matching feature set.
func ExtractForModel(samples []float64, m Matrix, modelID string, samplingRate float64, rng *rand.Rand) *Vector {
	strategy, axis := ResolveStrategy(modelID)
	return Extract(strategy, axis, samples, m, samplingRate, rng)
}

func extractFull(samples []float64, m Matrix, samplingRate float64) *Vector {
	if len(m) == 0 {
		if len(samples) == 0 {
			return NewVector()
		}
		m = Matrix{samples}
	}
	v := NewVector()
	for i := 0; i < m.NumCols(); i++ {
		appendSignalFeatures(v, m[i], samplingRate, ChannelNames[i])
	}
	return v
}

func extractThreeAxis(samples []float64, m Matrix, samplingRate float64, rng *rand.Rand) *Vector {
	v := NewVector()
	axes := []Axis{AxisAxial, AxisRadial, AxisTangential}

	// Single-channel input: the axial axis is the raw signal, the
	// other two get synthetic noise at 0.1 and 0.15 of its std.
	if len(m) == 0 {
		if len(samples) == 0 {
			return v
		}
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		std := stdDev(samples)
		for _, axis := range axes {
			signal := samples
			switch axis {
			case AxisRadial:
				signal = addNoise(samples, 0.1*std, rng)
			case AxisTangential:
				signal = addNoise(samples, 0.15*std, rng)
			}
			appendSignalFeatures(v, signal, samplingRate, axis.String())
		}
		return v
	}

	for i, axis := range axes {
		colIdx := i + 1 // skip the tachometer column
		if colIdx > len(m)-1 {
			colIdx = len(m) - 1
		}
		appendSignalFeatures(v, m[colIdx], samplingRate, axis.String())
	}
	return v
}

func extractSingleAxis(samples []float64, m Matrix, samplingRate float64, axis Axis) *Vector {
	v := NewVector()
	signal := samples
	if len(m) > 0 {
		colIdx := axis.column()
		if colIdx > len(m)-1 {
			colIdx = len(m) - 1
		}
		signal = m[colIdx]
	}
	if len(signal) == 0 {
		return v
	}
	appendSignalFeatures(v, signal, samplingRate, "")
	return v
}

// appendSignalFeatures merges the time and frequency features of one
// signal into v, named "time_{stat}[_{suffix}]" and
// "freq_{stat}[_{suffix}]".
func appendSignalFeatures(v *Vector, signal []float64, samplingRate float64, suffix string) {
	for _, group := range []struct {
		domain string
		vec    *Vector
	}{
		{"time", TimeFeatures(signal)},
		{"freq", FrequencyFeatures(signal, samplingRate)},
	} {
		for _, name := range group.vec.Names() {
			val, _ := group.vec.Get(name)
			full := group.domain + "_" + name
			if suffix != "" {
				full += "_" + suffix
			}
			v.Set(full, val)
		}
	}
}

func addNoise(signal []float64, std float64, rng *rand.Rand) []float64 {
	out := make([]float64, len(signal))
	for i, x := range signal {
		out[i] = x + rng.NormFloat64()*std
	}
	return out
}
