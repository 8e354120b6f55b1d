// Package adjust implements the class-year correction layered on top of the
// forwards model. It is a business rule, not something derivable from the model
// parameters.
package adjust

import (
	"fmt"
	"math"
	"strconv"

	"github.com/okian/prospect/internal/domain/features"
	"github.com/okian/prospect/internal/domain/model"
)

// Defaults for the forwards class-year rule.
const (
	DefaultCluster = model.ClusterID(1.0)
	DefaultFeature = "Player_Encoded"
	DefaultCeiling = 0.9
)

// DefaultDeltas maps class-year codes (1 freshman .. 4 senior) to probability deltas.
func DefaultDeltas() map[int]float64 {
	return map[int]float64{1: 0.07, 2: -0.04, 3: -0.09, 4: -0.13}
}

// Option applies a configuration option to the Adjuster.
type Option func(*Adjuster)

// WithCluster sets the only cluster the rule applies to.
func WithCluster(id model.ClusterID) Option {
	return func(a *Adjuster) { a.cluster = id }
}

// WithFeature sets the input key carrying the class-year code.
func WithFeature(name string) Option {
	return func(a *Adjuster) {
		if name != "" {
			a.feature = name
		}
	}
}

// WithDeltas replaces the code -> delta table.
func WithDeltas(deltas map[int]float64) Option {
	return func(a *Adjuster) {
		if len(deltas) == 0 {
			return
		}
		a.deltas = make(map[int]float64, len(deltas))
		for k, v := range deltas {
			a.deltas[k] = v
		}
	}
}

// WithCeiling sets the probability above which positive deltas are skipped.
func WithCeiling(ceiling float64) Option {
	return func(a *Adjuster) {
		if ceiling > 0 && ceiling <= 1 {
			a.ceiling = ceiling
		}
	}
}

// Adjuster applies the class-year rule.
type Adjuster struct {
	cluster model.ClusterID
	feature string
	deltas  map[int]float64
	ceiling float64
}

// New creates an Adjuster with the default forwards table.
func New(opts ...Option) *Adjuster {
	a := &Adjuster{
		cluster: DefaultCluster,
		feature: DefaultFeature,
		deltas:  DefaultDeltas(),
		ceiling: DefaultCeiling,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result describes an applied adjustment.
type Result struct {
	Delta    float64
	Adjusted float64
	Capped   bool // a positive delta was skipped because prob exceeded the ceiling
}

// Apply returns the adjusted probability. ok is false when the rule does not apply:
// another cluster, or no class-year input at all. Unknown codes apply a zero delta.
func (a *Adjuster) Apply(cluster model.ClusterID, prob float64, src features.Source) (Result, bool) {
	if cluster != a.cluster || src == nil {
		return Result{}, false
	}
	code, ok := src.Value(a.feature)
	if !ok {
		return Result{}, false
	}
	delta := a.Delta(code)
	if prob > a.ceiling && delta > 0 {
		return Result{Delta: delta, Adjusted: prob, Capped: true}, true
	}
	return Result{Delta: delta, Adjusted: math.Max(0, math.Min(1, prob+delta))}, true
}

// Delta returns the table entry for code; non-integral or unknown codes yield 0.
func (a *Adjuster) Delta(code float64) float64 {
	if code != math.Trunc(code) || math.IsInf(code, 0) {
		return 0
	}
	return a.deltas[int(code)]
}

// Cluster returns the cluster the rule is bound to.
func (a *Adjuster) Cluster() model.ClusterID { return a.cluster }

// ParseDeltas converts a config table keyed by strings ("1", "2", ...) into codes.
func ParseDeltas(raw map[string]float64) (map[int]float64, error) {
	out := make(map[int]float64, len(raw))
	for k, v := range raw {
		code, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%w: class-year code %q", ErrInvalidTable, k)
		}
		out[code] = v
	}
	return out, nil
}
