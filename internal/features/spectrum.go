package features

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

var freqFeatureNames = []string{
	"dominant_freq", "dominant_amp", "spectral_energy",
	"spectral_centroid", "spectral_bandwidth", "spectral_flatness",
}

// FrequencyFeatures computes the 6 frequency-domain statistics from the
// magnitude spectrum of the signal. Only the non-negative frequency
// half of the spectrum is used, with amplitudes normalized by 2/N.
// A degenerate spectrum (fewer than 2 samples, or all-zero amplitudes)
// yields NaN for every feature.
func FrequencyFeatures(signal []float64, samplingRate float64) *Vector {
	v := NewVector()
	n := len(signal)
	half := n / 2
	if half == 0 {
		return nanFreqVector(v)
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, signal)

	amps := make([]float64, half)
	freqs := make([]float64, half)
	var ampSum float64
	for k := 0; k < half; k++ {
		amps[k] = cmplx.Abs(coeffs[k]) * 2 / float64(n)
		freqs[k] = float64(k) * samplingRate / float64(n)
		ampSum += amps[k]
	}
	if ampSum == 0 {
		return nanFreqVector(v)
	}

	dominantIdx := 0
	var energy, centroidNum float64
	for k, a := range amps {
		if a > amps[dominantIdx] {
			dominantIdx = k
		}
		energy += a * a
		centroidNum += freqs[k] * a
	}
	centroid := centroidNum / ampSum

	var bandwidthNum float64
	for k, a := range amps {
		d := freqs[k] - centroid
		bandwidthNum += d * d * a
	}
	bandwidth := math.Sqrt(bandwidthNum / ampSum)

	// Flatness over the strictly positive amplitudes only.
	var logSum, posSum float64
	var posCount int
	for _, a := range amps {
		if a > 0 {
			logSum += math.Log(a)
			posSum += a
			posCount++
		}
	}
	flatness := math.NaN()
	if posCount > 0 {
		geometric := math.Exp(logSum / float64(posCount))
		arithmetic := posSum / float64(posCount)
		if arithmetic > 0 {
			flatness = geometric / arithmetic
		}
	}

	v.Set("dominant_freq", freqs[dominantIdx])
	v.Set("dominant_amp", amps[dominantIdx])
	v.Set("spectral_energy", energy)
	v.Set("spectral_centroid", centroid)
	v.Set("spectral_bandwidth", bandwidth)
	v.Set("spectral_flatness", flatness)
	return v
}

func nanFreqVector(v *Vector) *Vector {
	for _, name := range freqFeatureNames {
		v.Set(name, math.NaN())
	}
	return v
}
