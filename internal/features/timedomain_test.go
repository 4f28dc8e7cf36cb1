package features

import (
	"math"
	"testing"
)

func getFeature(t *testing.T, v *Vector, name string) float64 {
	t.Helper()
	val, ok := v.Get(name)
	if !ok {
		t.Fatalf("feature %q missing from vector", name)
	}
	return val
}

func TestTimeFeatures_ConstantSignal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value float64
		n     int
	}{
		{"positive constant", 3.0, 8},
		{"negative constant", -2.5, 100},
		{"single sample", 7.0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			signal := make([]float64, tc.n)
			for i := range signal {
				signal[i] = tc.value
			}
			v := TimeFeatures(signal)

			if got := getFeature(t, v, "rms"); math.Abs(got-math.Abs(tc.value)) > 1e-12 {
				t.Errorf("rms = %v, want %v", got, math.Abs(tc.value))
			}
			if got := getFeature(t, v, "peak_to_peak"); got != 0 {
				t.Errorf("peak_to_peak = %v, want 0", got)
			}
			if got := getFeature(t, v, "zero_crossing_rate"); got != 0 {
				t.Errorf("zero_crossing_rate = %v, want 0", got)
			}

			crest := getFeature(t, v, "crest_factor")
			if tc.value > 0 {
				if math.Abs(crest-1) > 1e-12 {
					t.Errorf("crest_factor = %v, want 1", crest)
				}
			}

			// Zero variance makes the standardized moments undefined.
			if got := getFeature(t, v, "skewness"); !math.IsNaN(got) {
				t.Errorf("skewness = %v, want NaN", got)
			}
			if got := getFeature(t, v, "kurtosis"); !math.IsNaN(got) {
				t.Errorf("kurtosis = %v, want NaN", got)
			}
		})
	}
}

func TestTimeFeatures_ZeroSignal(t *testing.T) {
	t.Parallel()

	v := TimeFeatures(make([]float64, 50))

	for _, name := range []string{"crest_factor", "shape_factor", "impulse_factor"} {
		if got := getFeature(t, v, name); !math.IsNaN(got) {
			t.Errorf("%s = %v, want NaN for zero signal", name, got)
		}
	}
	if got := getFeature(t, v, "rms"); got != 0 {
		t.Errorf("rms = %v, want 0", got)
	}
	if got := getFeature(t, v, "energy"); got != 0 {
		t.Errorf("energy = %v, want 0", got)
	}
	if got := getFeature(t, v, "zero_crossing_rate"); got != 0 {
		t.Errorf("zero_crossing_rate = %v, want 0", got)
	}
}

func TestTimeFeatures_AlternatingSignal(t *testing.T) {
	t.Parallel()

	v := TimeFeatures([]float64{1, -1, 1, -1})

	want := map[string]float64{
		"mean":               0,
		"std":                1,
		"rms":                1,
		"max":                1,
		"min":                -1,
		"peak_to_peak":       2,
		"mean_abs":           1,
		"crest_factor":       1,
		"shape_factor":       1,
		"impulse_factor":     1,
		"skewness":           0,
		"kurtosis":           -2,
		"energy":             4,
		"zero_crossing_rate": 0.75,
	}
	for name, wantVal := range want {
		if got := getFeature(t, v, name); math.Abs(got-wantVal) > 1e-12 {
			t.Errorf("%s = %v, want %v", name, got, wantVal)
		}
	}
}

func TestTimeFeatures_Count(t *testing.T) {
	t.Parallel()

	v := TimeFeatures([]float64{1, 2, 3})
	if v.Len() != 14 {
		t.Errorf("expected 14 time features, got %d", v.Len())
	}
}

func TestTimeFeatures_EmptySignal(t *testing.T) {
	t.Parallel()

	v := TimeFeatures(nil)
	if v.Len() != 14 {
		t.Fatalf("expected 14 features for empty signal, got %d", v.Len())
	}
	for _, name := range v.Names() {
		if val, _ := v.Get(name); !math.IsNaN(val) {
			t.Errorf("%s = %v, want NaN for empty signal", name, val)
		}
	}
}

func TestZeroCrossingRate_ThroughZero(t *testing.T) {
	t.Parallel()

	// A zero sample is its own sign state, so passing through an
	// exact zero counts two transitions.
	signal := []float64{1, 0, -1, -1}
	v := TimeFeatures(signal)
	if got := getFeature(t, v, "zero_crossing_rate"); got != 0.5 {
		t.Errorf("zero_crossing_rate = %v, want 0.5", got)
	}
}
