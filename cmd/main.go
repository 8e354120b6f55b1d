package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/prospect/internal/adapters/artifacts"
	"github.com/okian/prospect/internal/adapters/http/api"
	"github.com/okian/prospect/internal/adapters/http/site"
	"github.com/okian/prospect/internal/adapters/http/swagger"
	service "github.com/okian/prospect/internal/app"
	"github.com/okian/prospect/internal/config"
	"github.com/okian/prospect/internal/domain/adjust"
	"github.com/okian/prospect/internal/domain/model"
	"github.com/okian/prospect/pkg/logger"
	"github.com/okian/prospect/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "service failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run loads the artifacts and serves HTTP until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	loaded, err := artifacts.Load(ctx, artifacts.Config{
		DatasetPath:   cfg.DatasetPath,
		DatasetFormat: cfg.DatasetFormat,
		DatasetTable:  cfg.DatasetTable,
		ModelsPath:    cfg.ModelsPath,
	})
	if err != nil {
		return err
	}
	log.Info(ctx, "artifacts loaded",
		logger.String("dataset", cfg.DatasetPath),
		logger.String("models", cfg.ModelsPath),
		logger.Int("players", loaded.Store.Count(ctx)),
		logger.Int("skipped", loaded.Skipped),
		logger.Int("clusters", loaded.Registry.Len()))

	handler, err := newHandler(ctx, cfg, loaded, log)
	if err != nil {
		return err
	}

	go startSystemMetricsUpdater(ctx)

	return serve(ctx, &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}, log)
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newHandler wires the service and every HTTP surface onto one router.
func newHandler(ctx context.Context, cfg *config.Config, loaded *artifacts.Artifacts, log logger.Logger) (http.Handler, error) {
	deltas, err := adjust.ParseDeltas(cfg.AdjustmentDeltas)
	if err != nil {
		return nil, err
	}
	adjuster := adjust.New(
		adjust.WithCluster(model.ClusterID(cfg.AdjustmentCluster)),
		adjust.WithFeature(cfg.AdjustmentFeature),
		adjust.WithDeltas(deltas),
		adjust.WithCeiling(cfg.AdjustmentCeiling),
	)

	svc := service.New(loaded.Store, loaded.Registry,
		service.WithLogger(log.Named("service")),
		service.WithAdjuster(adjuster),
		service.WithCohortYears(cfg.CohortYearMin, cfg.CohortYearMax),
		service.WithDisplayYears(cfg.DisplayYearMin, cfg.DisplayYearMax),
		service.WithMaxRankingsLimit(cfg.MaxRankingsLimit),
		service.WithSteals(cfg.StealsLimit, cfg.StealMinRating),
		service.WithLotteryMaxPick(cfg.LotteryMaxPick),
		service.WithSuggest(cfg.SuggestMinChars, cfg.SuggestLimit),
		service.WithModelSource(cfg.ModelsPath),
	)

	r := api.NewRouter(cfg.CORSOrigins)
	api.NewServer(svc,
		api.WithMaxLimit(cfg.MaxRankingsLimit),
		api.WithCohortWindow(cfg.CohortYearMin, cfg.CohortYearMax),
	).Register(r)
	swagger.Register(ctx, r)
	site.Register(ctx, r)
	return r, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// average pause across all collections
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
