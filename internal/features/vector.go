package features

// Vector is a single row of named feature values. Insertion order is
// preserved so the column layout seen by a classifier matches the order
// in which features were computed, the same layout the models were
// trained against.
type Vector struct {
	names []string
	vals  map[string]float64
}

func NewVector() *Vector {
	return &Vector{vals: make(map[string]float64)}
}

// Set stores a value under name, appending the name to the column order
// on first use.
func (v *Vector) Set(name string, val float64) {
	if _, ok := v.vals[name]; !ok {
		v.names = append(v.names, name)
	}
	v.vals[name] = val
}

func (v *Vector) Get(name string) (float64, bool) {
	val, ok := v.vals[name]
	return val, ok
}

func (v *Vector) Len() int {
	if v == nil {
		return 0
	}
	return len(v.names)
}

// Names returns the feature names in insertion order.
func (v *Vector) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Values returns the feature values aligned with Names.
func (v *Vector) Values() []float64 {
	out := make([]float64, len(v.names))
	for i, n := range v.names {
		out[i] = v.vals[n]
	}
	return out
}
