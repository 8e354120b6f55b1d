// Package features assembles ordered numeric vectors from player records or raw
// user input.
//
// Missing, non-numeric and non-finite values become 0.0 without error. This is a
// known fidelity trade-off: a typo in a manual feature name scores as if the stat
// were zero.
package features

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Source resolves feature values by name.
type Source interface {
	Value(name string) (float64, bool)
}

// Values is a Source backed by a map. A key may be present with a zero value,
// which matters for inputs such as the class-year code.
type Values map[string]float64

// Value implements Source.
func (v Values) Value(name string) (float64, bool) {
	x, ok := v[name]
	if !ok || !finite(x) {
		return 0, false
	}
	return x, true
}

// Has reports whether the key was supplied at all.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Build returns one entry per name, in order. Unresolvable names map to 0.0.
func Build(src Source, names []string) []float64 {
	vec := make([]float64, len(names))
	if src == nil {
		return vec
	}
	for i, name := range names {
		if x, ok := src.Value(name); ok && finite(x) {
			vec[i] = x
		}
	}
	return vec
}

// ParseRaw converts decoded JSON input into Values. Every key is kept; values that
// are not numbers or numeric strings become 0.0.
func ParseRaw(raw map[string]any) Values {
	out := make(Values, len(raw))
	for k, v := range raw {
		out[k] = toFloat(v)
	}
	return out
}

func toFloat(v any) float64 {
	var x float64
	switch t := v.(type) {
	case float64:
		x = t
	case float32:
		x = float64(t)
	case int:
		x = float64(t)
	case int64:
		x = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		x = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		x = f
	default:
		return 0
	}
	if !finite(x) {
		return 0
	}
	return x
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
