package artifacts

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/prospect/internal/adapters/repository"
	"github.com/okian/prospect/internal/domain/registry"
	"github.com/okian/prospect/pkg/metrics"
)

// Config names the artifact files.
type Config struct {
	DatasetPath   string
	DatasetFormat string // csv, sqlite or empty to use the extension
	DatasetTable  string
	ModelsPath    string
}

// Artifacts bundles everything loaded at startup.
type Artifacts struct {
	Store    *repository.MemoryStore
	Registry *registry.Registry
	Skipped  int
}

// Load reads the dataset and the model bundle in parallel.
func Load(ctx context.Context, cfg Config) (*Artifacts, error) {
	var (
		ds  Dataset
		reg *registry.Registry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		var err error
		ds, err = LoadDataset(gctx, cfg)
		if err != nil {
			return fmt.Errorf("%w: dataset: %w", ErrLoad, err)
		}
		metrics.RecordArtifactLoad("dataset", float64(time.Since(start).Milliseconds()))
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		var err error
		reg, err = registry.LoadModels(gctx, NewModelFile(cfg.ModelsPath))
		if err != nil {
			return fmt.Errorf("%w: models: %w", ErrLoad, err)
		}
		metrics.RecordArtifactLoad("models", float64(time.Since(start).Milliseconds()))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics.UpdateModelClusters(reg.Len())
	return &Artifacts{
		Store:    repository.NewMemoryStore(ds.Players, repository.WithSource(ds.Source)),
		Registry: reg,
		Skipped:  ds.Skipped,
	}, nil
}

// LoadDataset reads the dataset in the configured or detected format.
func LoadDataset(ctx context.Context, cfg Config) (Dataset, error) {
	format := strings.ToLower(cfg.DatasetFormat)
	if format == "" {
		switch strings.ToLower(filepath.Ext(cfg.DatasetPath)) {
		case ".csv":
			format = "csv"
		case ".db", ".sqlite", ".sqlite3":
			format = "sqlite"
		}
	}

	switch format {
	case "csv":
		return LoadCSV(ctx, cfg.DatasetPath)
	case "sqlite":
		table := cfg.DatasetTable
		if table == "" {
			table = "players"
		}
		return LoadSQLite(ctx, cfg.DatasetPath, table)
	default:
		return Dataset{}, fmt.Errorf("%w: dataset %s", ErrUnsupportedFormat, cfg.DatasetPath)
	}
}
