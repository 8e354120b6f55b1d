// Package service provides the prediction service behind the HTTP API.
//
// The service owns no data: the dataset store and the model registry are built
// at startup and injected. Every operation is synchronous and read-only.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/okian/prospect/internal/adapters/repository"
	"github.com/okian/prospect/internal/domain/adjust"
	"github.com/okian/prospect/internal/domain/cohort"
	"github.com/okian/prospect/internal/domain/features"
	"github.com/okian/prospect/internal/domain/model"
	"github.com/okian/prospect/internal/domain/registry"
	"github.com/okian/prospect/internal/domain/scoring"
	"github.com/okian/prospect/internal/domain/types"
	"github.com/okian/prospect/pkg/logger"
	"github.com/okian/prospect/pkg/metrics"
)

// Operation names used in metrics and logs.
const (
	opIdentity = "identity"
	opManual   = "manual"
	opCohort   = "cohort"
)

// Service implements the API dependencies for the prediction system.
type Service struct {
	store    repository.Store
	registry *registry.Registry
	scorer   scoring.Scorer
	ranker   *cohort.Ranker
	adjuster *adjust.Adjuster

	cohortLo, cohortHi   int
	displayLo, displayHi int
	maxRankings          int
	stealsLimit          int
	stealMinRating       float64
	lotteryMaxPick       int
	suggestMinChars      int
	suggestLimit         int

	modelSource string
	startedAt   time.Time

	logger logger.Logger
}

// New constructs a Service over a loaded dataset and registry.
func New(store repository.Store, reg *registry.Registry, opts ...Option) *Service {
	s := &Service{
		store:           store,
		registry:        reg,
		scorer:          scoring.NewLinearScorer(),
		adjuster:        adjust.New(),
		cohortLo:        cohort.DefaultYearMin,
		cohortHi:        cohort.DefaultYearMax,
		displayLo:       19,
		displayHi:       25,
		maxRankings:     100,
		stealsLimit:     25,
		stealMinRating:  0.3,
		lotteryMaxPick:  14,
		suggestMinChars: 2,
		suggestLimit:    10,
		startedAt:       time.Now(),
		logger:          logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.ranker = cohort.NewRanker(cohort.WithScorer(s.scorer))
	return s
}

// ScoreByIdentity looks a player up by exact name and scores them with their
// cluster's model.
func (s *Service) ScoreByIdentity(ctx context.Context, name string) (model.ScoredPrediction, error) {
	start := time.Now()

	p, err := s.store.ByName(ctx, name)
	if err != nil {
		s.record(opIdentity, start, err)
		return model.ScoredPrediction{}, err
	}
	m, err := s.registry.Get(p.Cluster)
	if err != nil {
		s.record(opIdentity, start, err)
		return model.ScoredPrediction{}, err
	}

	pred := s.scorer.Score(m, p)
	id := p.Identity()
	pred.Player = &id

	s.record(opIdentity, start, nil)
	return pred, nil
}

// ScoreManual scores an arbitrary feature map against cluster's model, applying
// the class-year adjustment when it is bound to that cluster.
func (s *Service) ScoreManual(ctx context.Context, cluster model.ClusterID, raw features.Values) (model.ScoredPrediction, error) {
	start := time.Now()

	m, err := s.registry.Get(cluster)
	if err != nil {
		s.record(opManual, start, err)
		return model.ScoredPrediction{}, err
	}

	pred := s.scorer.Score(m, raw)
	if res, ok := s.adjuster.Apply(cluster, pred.Probability, raw); ok {
		adjusted, delta := res.Adjusted, res.Delta
		pred.AdjustedProbability = &adjusted
		pred.Adjustment = &delta
		metrics.RecordAdjustment(direction(res))
		s.logger.Debug(ctx, "class-year adjustment applied",
			logger.Float64("probability", pred.Probability),
			logger.Float64("delta", delta),
			logger.Float64("adjusted", adjusted),
			logger.Bool("capped", res.Capped),
		)
	}

	s.record(opManual, start, nil)
	return pred, nil
}

// RankWithinCohort scores the named player with cluster's model and places them
// among that cluster's players drafted in [lo, hi]. Years may be 2- or 4-digit.
func (s *Service) RankWithinCohort(ctx context.Context, name string, cluster model.ClusterID, lo, hi int) (model.CohortRating, error) {
	start := time.Now()

	lo, hi = model.InternalYear(lo), model.InternalYear(hi)
	if lo > hi {
		err := fmt.Errorf("%w: %d..%d", ErrInvalidRange, lo, hi)
		s.record(opCohort, start, err)
		return model.CohortRating{}, err
	}
	m, err := s.registry.Get(cluster)
	if err != nil {
		s.record(opCohort, start, err)
		return model.CohortRating{}, err
	}
	p, err := s.store.ByName(ctx, name)
	if err != nil {
		s.record(opCohort, start, err)
		return model.CohortRating{}, err
	}

	population := cohort.Filter(s.store.All(ctx), cluster, lo, hi)
	target := cohort.Target{Name: p.Name, Probability: s.scorer.Score(m, p).Probability}
	rating, err := s.ranker.Rank(target, m, population)
	if err != nil {
		s.record(opCohort, start, err)
		return model.CohortRating{}, fmt.Errorf("cluster %s, years %d..%d: %w", cluster, lo, hi, err)
	}
	metrics.RecordCohortSize(rating.Size)
	s.noteRating(ctx, p.Name, rating)

	s.record(opCohort, start, nil)
	return rating, nil
}

// Report scores a player and rates them inside the configured cohort window.
// The rating is omitted when that cohort is empty.
func (s *Service) Report(ctx context.Context, name string) (types.Report, error) {
	pred, err := s.ScoreByIdentity(ctx, name)
	if err != nil {
		return types.Report{}, err
	}

	m, err := s.registry.Get(pred.Cluster)
	if err != nil {
		return types.Report{}, err
	}
	session := s.ranker.NewSession(s.store.All(ctx), s.cohortLo, s.cohortHi)
	rating, err := session.Rate(cohort.Target{Name: name, Probability: pred.Probability}, m)
	switch {
	case errors.Is(err, cohort.ErrEmptyCohort):
		s.logger.Debug(ctx, "no cohort for player", logger.String("player", name), logger.String("cluster", pred.Cluster.String()))
		return types.Report{Prediction: pred}, nil
	case err != nil:
		return types.Report{}, err
	}
	metrics.RecordCohortSize(rating.Size)
	s.noteRating(ctx, name, rating)

	return types.Report{Prediction: pred, Rating: &rating}, nil
}

// Compare reports two players side by side.
func (s *Service) Compare(ctx context.Context, a, b string) (types.Comparison, error) {
	first, err := s.Report(ctx, a)
	if err != nil {
		return types.Comparison{}, err
	}
	second, err := s.Report(ctx, b)
	if err != nil {
		return types.Comparison{}, err
	}
	return types.Comparison{
		First:  first,
		Second: second,
		Diff:   first.Prediction.FinalProbability() - second.Prediction.FinalProbability(),
	}, nil
}

// Suggest returns player names containing q. Short queries return nothing.
func (s *Service) Suggest(ctx context.Context, q string) []string {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < s.suggestMinChars {
		return []string{}
	}
	out := s.store.Search(ctx, q, s.suggestLimit)
	if out == nil {
		return []string{}
	}
	return out
}

// Clusters describes every loaded model.
func (s *Service) Clusters(_ context.Context) []types.ClusterInfo {
	models := s.registry.Models()
	out := make([]types.ClusterInfo, len(models))
	for i, m := range models {
		out[i] = clusterInfo(m)
	}
	return out
}

// ClusterInfo describes one model.
func (s *Service) ClusterInfo(_ context.Context, id model.ClusterID) (types.ClusterInfo, error) {
	m, err := s.registry.Get(id)
	if err != nil {
		return types.ClusterInfo{}, err
	}
	return clusterInfo(m), nil
}

// YearRankings rates every player of a draft year against their cohort and
// returns the best limit of them. limit <= 0 means the maximum.
func (s *Service) YearRankings(ctx context.Context, year, limit int) ([]types.Entry, error) {
	y, err := s.displayYear(year)
	if err != nil {
		return nil, err
	}
	players := s.store.Where(ctx, func(p model.PlayerRecord) bool {
		return p.Year == y && s.registry.Has(p.Cluster)
	})
	entries := s.rate(ctx, players)
	sortByRating(entries)
	return rank(truncate(entries, s.clampLimit(limit, s.maxRankings))), nil
}

// DraftClass lists the drafted players of a year in pick order.
func (s *Service) DraftClass(ctx context.Context, year int) ([]types.Entry, error) {
	y, err := s.displayYear(year)
	if err != nil {
		return nil, err
	}
	players := s.store.Where(ctx, func(p model.PlayerRecord) bool {
		return p.Year == y && p.Drafted() && s.registry.Has(p.Cluster)
	})
	entries := s.rate(ctx, players)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Pick < entries[j].Pick })
	return rank(entries), nil
}

// LotteryPicks lists display-window lottery picks by rating.
func (s *Service) LotteryPicks(ctx context.Context) []types.Entry {
	players := s.store.Where(ctx, func(p model.PlayerRecord) bool {
		return s.inDisplay(p.Year) && p.Drafted() && p.Pick <= s.lotteryMaxPick && s.registry.Has(p.Cluster)
	})
	entries := s.rate(ctx, players)
	sortByRating(entries)
	return rank(entries)
}

// DraftSteals lists display-window players picked after the lottery whose
// rating reaches the steal floor. limit <= 0 means the configured default.
func (s *Service) DraftSteals(ctx context.Context, limit int) []types.Entry {
	players := s.store.Where(ctx, func(p model.PlayerRecord) bool {
		return s.inDisplay(p.Year) && p.Pick > s.lotteryMaxPick && s.registry.Has(p.Cluster)
	})
	rated := s.rate(ctx, players)
	entries := rated[:0]
	for _, e := range rated {
		if e.Rating >= s.stealMinRating {
			entries = append(entries, e)
		}
	}
	sortByRating(entries)
	if limit <= 0 {
		limit = s.stealsLimit
	}
	return rank(truncate(entries, s.clampLimit(limit, s.maxRankings)))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	stats := types.Stats{
		Players:       s.store.Count(ctx),
		Clusters:      s.registry.Len(),
		ModelSource:   s.modelSource,
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
	}
	if src, ok := s.store.(interface{ Source() string }); ok {
		stats.DatasetSource = src.Source()
	}
	return stats
}

// DisplayYears returns the display window as 4-digit years.
func (s *Service) DisplayYears() (int, int) {
	return s.displayLo + 2000, s.displayHi + 2000
}

// rate scores players with their own cluster model and rates each against its
// cohort, sharing one session so each cohort is scored once.
func (s *Service) rate(ctx context.Context, players []model.PlayerRecord) []types.Entry {
	session := s.ranker.NewSession(s.store.All(ctx), s.cohortLo, s.cohortHi)
	entries := make([]types.Entry, 0, len(players))
	for _, p := range players {
		m, err := s.registry.Get(p.Cluster)
		if err != nil {
			continue
		}
		prob := s.scorer.Score(m, p).Probability
		rating, err := session.Rate(cohort.Target{Name: p.Name, Probability: prob}, m)
		if err != nil {
			// Cohort window excludes this cluster entirely; still list the player.
			rating = model.CohortRating{Cluster: p.Cluster, Rating: prob, Band: cohort.BandFor(prob)}
		}
		entries = append(entries, types.EntryFromRating(p, m.Name, rating))
	}
	return entries
}

func (s *Service) noteRating(ctx context.Context, name string, r model.CohortRating) {
	if r.InCohort {
		return
	}
	metrics.RecordCohortMiss()
	s.logger.Debug(ctx, "player not in cohort",
		logger.String("player", name),
		logger.String("cluster", r.Cluster.String()),
		logger.Int("size", r.Size),
	)
}

func (s *Service) displayYear(year int) (int, error) {
	y := model.InternalYear(year)
	if !s.inDisplay(y) {
		return 0, fmt.Errorf("%w: %d not in %d..%d", ErrYearOutOfRange, year, s.displayLo+2000, s.displayHi+2000)
	}
	return y, nil
}

func (s *Service) inDisplay(y int) bool {
	return y >= s.displayLo && y <= s.displayHi
}

func (s *Service) clampLimit(limit, ceiling int) int {
	if limit <= 0 || limit > ceiling {
		return ceiling
	}
	return limit
}

func (s *Service) record(op string, start time.Time, err error) {
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordPrediction(op, Outcome(err))
}

// Outcome classifies err for metrics and API error codes.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, repository.ErrNotFound):
		return "player_not_found"
	case errors.Is(err, registry.ErrUnknownCluster):
		return "unknown_cluster"
	case errors.Is(err, cohort.ErrEmptyCohort):
		return "empty_cohort"
	case errors.Is(err, ErrYearOutOfRange), errors.Is(err, ErrInvalidRange):
		return "bad_request"
	default:
		return "internal_error"
	}
}

func direction(r adjust.Result) string {
	switch {
	case r.Capped:
		return "capped"
	case r.Delta > 0:
		return "raised"
	case r.Delta < 0:
		return "lowered"
	default:
		return "none"
	}
}

func clusterInfo(m *model.ClusterModel) types.ClusterInfo {
	return types.ClusterInfo{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Features:    append([]string(nil), m.Features...),
	}
}

func sortByRating(entries []types.Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Rating > entries[j].Rating })
}

func truncate(entries []types.Entry, n int) []types.Entry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func rank(entries []types.Entry) []types.Entry {
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
