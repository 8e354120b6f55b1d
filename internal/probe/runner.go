package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/prospect/internal/domain/types"
	"github.com/okian/prospect/pkg/logger"
)

// Run probes a running service: it fetches each year's rankings, rates the
// top entries individually and requests their full reports, checking every
// response against the ranking invariants. The returned error wraps
// ErrViolations when any check fails.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	log := logger.Get().Named("probe")

	log.Info(ctx, "starting probe",
		logger.String("runID", stats.RunID),
		logger.String("baseURL", config.BaseURL),
		logger.Any("years", config.Years),
		logger.Int("limit", config.Limit),
		logger.Int("topN", config.TopN),
		logger.Int("workers", config.Workers))

	client := newClient(config.BaseURL, stats.RunID, config.Timeout)

	if err := client.health(ctx); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	years, err := fetchRankings(ctx, client, config)
	if err != nil {
		return stats, fmt.Errorf("ranking retrieval failed: %w", err)
	}
	for _, yr := range years {
		stats.YearsChecked++
		stats.EntriesChecked += len(yr.entries)
		stats.Violations = append(stats.Violations, verifyRankings(yr.year, yr.entries)...)
		if config.Verbose {
			for _, e := range yr.entries {
				log.Debug(ctx, "ranked",
					logger.Int("year", yr.year),
					logger.Int("rank", e.Rank),
					logger.String("player", e.Name),
					logger.Float64("probability", e.Probability),
					logger.String("band", string(e.Band)))
			}
		}
	}

	if err := checkTopEntries(ctx, client, config, years, stats); err != nil {
		return stats, fmt.Errorf("rating retrieval failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if len(stats.Violations) > 0 {
		for _, v := range stats.Violations {
			log.Warn(ctx, "violation", logger.String("detail", v))
		}
		return stats, fmt.Errorf("%w: %d found", ErrViolations, len(stats.Violations))
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

func fetchRankings(ctx context.Context, client *Client, config *Config) ([]yearRankings, error) {
	out := make([]yearRankings, len(config.Years))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(config))
	for i, year := range config.Years {
		i, year := i, year
		g.Go(func() error {
			entries, err := client.rankings(gctx, year, config.Limit)
			if err != nil {
				return fmt.Errorf("year %d: %w", year, err)
			}
			out[i] = yearRankings{year: year, entries: entries}
			return nil
		})
	}
	return out, g.Wait()
}

// checkTopEntries fetches the report and cohort rating of the top entries of
// each year. Name lookups resolve to the first dataset record with that name,
// so entries whose name repeats among the listings, or whose report turns out
// to be another season's record, are skipped rather than compared.
func checkTopEntries(ctx context.Context, client *Client, config *Config, years []yearRankings, stats *Stats) error {
	var targets []types.Entry
	seen := make(map[string]int)
	for _, yr := range years {
		for _, e := range yr.entries {
			seen[e.Name]++
		}
	}
	for _, yr := range years {
		n := min(config.TopN, len(yr.entries))
		for _, e := range yr.entries[:n] {
			if seen[e.Name] == 1 {
				targets = append(targets, e)
			}
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(config))
	for _, e := range targets {
		e := e
		g.Go(func() error {
			rep, err := client.report(gctx, e.Name)
			if err != nil {
				return err
			}
			if !sameRecord(e, rep) {
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				return nil
			}
			rating, err := client.rating(gctx, e.Name)
			if err != nil {
				return err
			}
			found := verifyReport(e, rep)
			found = append(found, verifyCohortRating(e, rating)...)

			mu.Lock()
			defer mu.Unlock()
			stats.RatingsChecked++
			stats.ReportsChecked++
			stats.Violations = append(stats.Violations, found...)
			return nil
		})
	}
	return g.Wait()
}

func workers(config *Config) int {
	if config.Workers < 1 {
		return 1
	}
	return config.Workers
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "final statistics",
		logger.String("runID", stats.RunID),
		logger.Int("yearsChecked", stats.YearsChecked),
		logger.Int("entriesChecked", stats.EntriesChecked),
		logger.Int("ratingsChecked", stats.RatingsChecked),
		logger.Int("reportsChecked", stats.ReportsChecked),
		logger.Int("skipped", stats.Skipped),
		logger.Int("violations", len(stats.Violations)),
		logger.Duration("duration", stats.Duration))
}
