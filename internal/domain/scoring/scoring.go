// Package scoring turns a feature source into a success probability using a
// cluster's standardizer and logistic coefficients.
package scoring

import (
	"math"

	"github.com/okian/prospect/internal/domain/features"
	"github.com/okian/prospect/internal/domain/model"
)

// Probability bounds. A saturated logit is clamped to these so the result stays in
// the open interval (0,1).
var (
	minProbability = math.SmallestNonzeroFloat64
	maxProbability = math.Nextafter(1, 0)
)

// Scorer computes a prediction for a feature source under a cluster model.
type Scorer interface {
	Score(m *model.ClusterModel, src features.Source) model.ScoredPrediction
}

// LinearScorer implements Scorer with standardize -> dot -> logistic.
// It holds no state and is safe for concurrent use.
type LinearScorer struct{}

// NewLinearScorer creates a new linear scorer.
func NewLinearScorer() *LinearScorer {
	return &LinearScorer{}
}

// Score builds the feature vector in the model's order, standardizes it and applies
// the coefficients. The breakdown lists every feature's contribution to the logit.
func (s *LinearScorer) Score(m *model.ClusterModel, src features.Source) model.ScoredPrediction {
	raw := features.Build(src, m.Features)
	std := Standardize(raw, m.Mean, m.Scale)

	breakdown := make([]model.FeatureContribution, len(m.Features))
	var logit float64
	for i, name := range m.Features {
		contrib := std[i] * m.Coefficients[i]
		logit += contrib
		breakdown[i] = model.FeatureContribution{
			Feature:      name,
			RawValue:     raw[i],
			ScaledValue:  std[i],
			Coefficient:  m.Coefficients[i],
			Contribution: contrib,
		}
	}

	return model.ScoredPrediction{
		Cluster:     m.ID,
		Logit:       logit,
		Probability: Sigmoid(logit),
		Breakdown:   breakdown,
	}
}

// Probability is a shortcut for Score(...).Probability without the breakdown.
func Probability(m *model.ClusterModel, src features.Source) float64 {
	raw := features.Build(src, m.Features)
	return Sigmoid(Logit(Standardize(raw, m.Mean, m.Scale), m.Coefficients))
}

// Standardize applies (v - mean) / scale per entry. All slices must have the same
// length; the registry guarantees this at load time.
func Standardize(vec, mean, scale []float64) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = (v - mean[i]) / scale[i]
	}
	return out
}

// Logit returns the dot product of the standardized vector and the coefficients.
func Logit(std, coef []float64) float64 {
	var z float64
	for i := range std {
		z += std[i] * coef[i]
	}
	return z
}

// Sigmoid is the logistic function, evaluated so that large |z| never overflows.
// A NaN logit maps to 0.5.
func Sigmoid(z float64) float64 {
	if math.IsNaN(z) {
		return 0.5
	}
	var p float64
	if z >= 0 {
		p = 1 / (1 + math.Exp(-z))
	} else {
		e := math.Exp(z)
		p = e / (1 + e)
	}
	switch {
	case p < minProbability:
		return minProbability
	case p > maxProbability:
		return maxProbability
	}
	return p
}
