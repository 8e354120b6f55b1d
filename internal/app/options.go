package service

import (
	"github.com/okian/prospect/internal/domain/adjust"
	"github.com/okian/prospect/internal/domain/scoring"
	"github.com/okian/prospect/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScorer replaces the linear scorer, for the service and its cohort ranker.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithAdjuster sets the class-year adjustment used by manual scoring.
func WithAdjuster(a *adjust.Adjuster) Option {
	return func(s *Service) {
		if a != nil {
			s.adjuster = a
		}
	}
}

// WithCohortYears sets the comparison window in 2-digit years.
func WithCohortYears(lo, hi int) Option {
	return func(s *Service) {
		if lo <= hi {
			s.cohortLo, s.cohortHi = lo, hi
		}
	}
}

// WithDisplayYears sets the window listings and year lookups are limited to.
func WithDisplayYears(lo, hi int) Option {
	return func(s *Service) {
		if lo <= hi {
			s.displayLo, s.displayHi = lo, hi
		}
	}
}

// WithMaxRankingsLimit caps listing sizes.
func WithMaxRankingsLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRankings = n
		}
	}
}

// WithSteals sets the default steals listing size and its rating floor.
func WithSteals(limit int, minRating float64) Option {
	return func(s *Service) {
		if limit > 0 {
			s.stealsLimit = limit
		}
		s.stealMinRating = minRating
	}
}

// WithLotteryMaxPick sets the last lottery pick.
func WithLotteryMaxPick(pick int) Option {
	return func(s *Service) {
		if pick > 0 {
			s.lotteryMaxPick = pick
		}
	}
}

// WithSuggest sets the minimum query length and maximum number of suggestions.
func WithSuggest(minChars, limit int) Option {
	return func(s *Service) {
		if minChars > 0 {
			s.suggestMinChars = minChars
		}
		if limit > 0 {
			s.suggestLimit = limit
		}
	}
}

// WithModelSource records where the models were loaded from, for stats.
func WithModelSource(source string) Option {
	return func(s *Service) {
		s.modelSource = source
	}
}
