// Package features computes the time-domain and frequency-domain
// descriptors used by the vibration fault classifiers, assembles
// multi-channel matrices from single-channel recordings, and selects
// the feature set a given model expects.
//
// Every guard division yields NaN instead of an error or infinity. The
// pre-fit models were trained on feature tables produced under that
// convention, so it must hold exactly for predictions to be comparable.
package features

import "math"

// TimeFeatures computes the 14 time-domain statistics over a raw
// signal. An empty signal yields a vector of NaNs.
func TimeFeatures(signal []float64) *Vector {
	v := NewVector()
	n := float64(len(signal))
	if n == 0 {
		for _, name := range []string{
			"mean", "std", "rms", "max", "min", "peak_to_peak", "mean_abs",
			"crest_factor", "shape_factor", "impulse_factor",
			"skewness", "kurtosis", "energy", "zero_crossing_rate",
		} {
			v.Set(name, math.NaN())
		}
		return v
	}

	var sum, sumSq, sumAbs float64
	maxVal := signal[0]
	minVal := signal[0]
	for _, x := range signal {
		sum += x
		sumSq += x * x
		sumAbs += math.Abs(x)
		if x > maxVal {
			maxVal = x
		}
		if x < minVal {
			minVal = x
		}
	}

	mean := sum / n
	meanAbs := sumAbs / n
	rms := math.Sqrt(sumSq / n)

	// Central moments for std, skewness and excess kurtosis.
	var m2, m3, m4 float64
	for _, x := range signal {
		d := x - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2 /= n
	m3 /= n
	m4 /= n

	skewness := math.NaN()
	kurtosis := math.NaN()
	if m2 > 0 {
		skewness = m3 / math.Pow(m2, 1.5)
		kurtosis = m4/(m2*m2) - 3
	}

	crest := math.NaN()
	if rms > 0 {
		crest = maxVal / rms
	}
	shape := math.NaN()
	impulse := math.NaN()
	if meanAbs > 0 {
		shape = rms / meanAbs
		impulse = maxVal / meanAbs
	}

	v.Set("mean", mean)
	v.Set("std", math.Sqrt(m2))
	v.Set("rms", rms)
	v.Set("max", maxVal)
	v.Set("min", minVal)
	v.Set("peak_to_peak", maxVal-minVal)
	v.Set("mean_abs", meanAbs)
	v.Set("crest_factor", crest)
	v.Set("shape_factor", shape)
	v.Set("impulse_factor", impulse)
	v.Set("skewness", skewness)
	v.Set("kurtosis", kurtosis)
	v.Set("energy", sumSq)
	v.Set("zero_crossing_rate", zeroCrossingRate(signal))
	return v
}

// zeroCrossingRate counts sign transitions between consecutive samples,
// normalized by the signal length. A zero sample counts as its own sign
// state, so a crossing through zero contributes two transitions.
func zeroCrossingRate(signal []float64) float64 {
	var changes int
	for i := 1; i < len(signal); i++ {
		if sign(signal[i]) != sign(signal[i-1]) {
			changes++
		}
	}
	return float64(changes) / float64(len(signal))
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// stdDev is the population standard deviation, shared by the channel
// assembler for scaling synthetic noise.
func stdDev(signal []float64) float64 {
	n := float64(len(signal))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, x := range signal {
		sum += x
	}
	mean := sum / n
	var m2 float64
	for _, x := range signal {
		d := x - mean
		m2 += d * d
	}
	return math.Sqrt(m2 / n)
}
