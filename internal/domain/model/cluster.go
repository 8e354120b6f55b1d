package model

import (
	"fmt"
	"math"
)

// ClusterModel holds the trained parameters of one cluster. Features defines the
// vector order shared by Mean, Scale and Coefficients.
type ClusterModel struct {
	ID           ClusterID
	Name         string
	Description  string
	Features     []string
	Mean         []float64
	Scale        []float64
	Coefficients []float64
}

// Validate checks the shape invariants the scorer relies on.
func (m *ClusterModel) Validate() error {
	n := len(m.Features)
	switch {
	case n == 0:
		return fmt.Errorf("%w: cluster %s has no features", ErrInvalidModel, m.ID)
	case len(m.Mean) != n:
		return fmt.Errorf("%w: cluster %s has %d means for %d features", ErrInvalidModel, m.ID, len(m.Mean), n)
	case len(m.Scale) != n:
		return fmt.Errorf("%w: cluster %s has %d scales for %d features", ErrInvalidModel, m.ID, len(m.Scale), n)
	case len(m.Coefficients) != n:
		return fmt.Errorf("%w: cluster %s has %d coefficients for %d features", ErrInvalidModel, m.ID, len(m.Coefficients), n)
	}
	seen := make(map[string]struct{}, n)
	for i, f := range m.Features {
		if f == "" {
			return fmt.Errorf("%w: cluster %s feature %d is unnamed", ErrInvalidModel, m.ID, i)
		}
		if _, dup := seen[f]; dup {
			return fmt.Errorf("%w: cluster %s lists %q twice", ErrInvalidModel, m.ID, f)
		}
		seen[f] = struct{}{}
		if !finite(m.Mean[i]) || !finite(m.Scale[i]) || !finite(m.Coefficients[i]) {
			return fmt.Errorf("%w: cluster %s has a non-finite parameter for %q", ErrInvalidModel, m.ID, f)
		}
		if m.Scale[i] == 0 {
			return fmt.Errorf("%w: cluster %s has zero scale for %q", ErrInvalidModel, m.ID, f)
		}
	}
	return nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
