package features

import (
	"math/rand"
	"time"
)

// ChannelNames is the fixed sensor channel order for multi-channel
// recordings. When a matrix carries fewer columns, only the first N
// names apply; columns are never padded beyond what was supplied.
var ChannelNames = []string{
	"tachometer",
	"underhang-axial", "underhang-radial", "underhang-tangential",
	"overhang-axial", "overhang-radial", "overhang-tangential",
}

// Matrix holds multi-channel sample data, one slice per channel column
// in ChannelNames order.
type Matrix [][]float64

// NumCols returns the number of channel columns, capped at the fixed
// channel vocabulary size.
func (m Matrix) NumCols() int {
	if len(m) > len(ChannelNames) {
		return len(ChannelNames)
	}
	return len(m)
}

// Assemble synthesizes a 7-channel matrix from a single-channel
// recording: the tachometer column is the signal scaled by 0.1, and
// each vibration column i adds independent zero-mean gaussian noise
// with standard deviation (0.1 + 0.05*i) * std(signal).
//
// This is a fallback for rigs without a full sensor array; the noise
// makes repeated calls over the same signal produce different
// matrices. Pass a seeded rng for reproducible output; a nil rng draws
// a time-based seed.
func Assemble(primary []float64, rng *rand.Rand) Matrix {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	std := stdDev(primary)
	m := make(Matrix, len(ChannelNames))
	for i := range m {
		col := make([]float64, len(primary))
		if i == 0 {
			for j, x := range primary {
				col[j] = x * 0.1
			}
		} else {
			noiseStd := (0.1 + 0.05*float64(i)) * std
			for j, x := range primary {
				col[j] = x + rng.NormFloat64()*noiseStd
			}
		}
		m[i] = col
	}
	return m
}
