// Package cohort ranks a scored player against the other players of the same
// cluster within a year range.
//
// Ordering: probability DESC; ties keep the dataset order (stable sort).
// The player is located by the first exact name match in that order.
package cohort

import (
	"sort"

	"github.com/okian/prospect/internal/domain/model"
	"github.com/okian/prospect/internal/domain/scoring"
)

// Default comparison window in 2-digit years (2010-2025).
const (
	DefaultYearMin = 10
	DefaultYearMax = 25
)

// Target is the player being rated.
type Target struct {
	Name        string
	Probability float64
}

// Entry is a scored member of a population.
type Entry struct {
	Player      model.PlayerRecord
	Probability float64
}

// Population is a scored, ordered comparison population.
type Population struct {
	Cluster model.ClusterID
	Entries []Entry
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithScorer sets the scorer used for population members.
func WithScorer(s scoring.Scorer) Option {
	return func(r *Ranker) {
		if s != nil {
			r.scorer = s
		}
	}
}

// Ranker builds populations and locates players within them.
type Ranker struct {
	scorer scoring.Scorer
}

// NewRanker creates a ranker backed by the linear scorer unless overridden.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{scorer: scoring.NewLinearScorer()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Filter returns the players of cluster whose year lies in [lo, hi], in input order.
func Filter(players []model.PlayerRecord, cluster model.ClusterID, lo, hi int) []model.PlayerRecord {
	out := make([]model.PlayerRecord, 0, len(players)/4)
	for _, p := range players {
		if p.Cluster == cluster && p.Year >= lo && p.Year <= hi {
			out = append(out, p)
		}
	}
	return out
}

// Build scores every player with m and orders the result. Every member is scored
// with the same model as the target, whatever its own cluster.
func (r *Ranker) Build(m *model.ClusterModel, players []model.PlayerRecord) Population {
	entries := make([]Entry, len(players))
	for i, p := range players {
		entries[i] = Entry{Player: p, Probability: r.scorer.Score(m, p).Probability}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Probability > entries[j].Probability
	})
	return Population{Cluster: m.ID, Entries: entries}
}

// Rank scores the population and places the target in it.
func (r *Ranker) Rank(t Target, m *model.ClusterModel, players []model.PlayerRecord) (model.CohortRating, error) {
	if len(players) == 0 {
		return model.CohortRating{}, ErrEmptyCohort
	}
	return r.Build(m, players).Locate(t)
}

// Locate returns the target's rating inside p. When the name is absent the rating
// still equals the probability but InCohort is false and Rank is 0.
func (p Population) Locate(t Target) (model.CohortRating, error) {
	if len(p.Entries) == 0 {
		return model.CohortRating{}, ErrEmptyCohort
	}
	rating := model.CohortRating{
		Cluster: p.Cluster,
		Size:    len(p.Entries),
		Rating:  t.Probability,
		Band:    BandFor(t.Probability),
	}
	lower := 0
	for i, e := range p.Entries {
		if !rating.InCohort && e.Player.Name == t.Name {
			rating.InCohort = true
			rating.Rank = i + 1
		}
		if e.Probability < t.Probability {
			lower++
		}
	}
	rating.Percentile = float64(lower) / float64(len(p.Entries))
	return rating, nil
}

// Len returns the population size.
func (p Population) Len() int { return len(p.Entries) }
