package artifacts

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/prospect/internal/domain/model"
	"github.com/okian/prospect/internal/domain/registry"
)

// Descriptions used when the bundle leaves a cluster undescribed.
var defaultClusters = map[model.ClusterID]struct{ name, description string }{ //nolint:gochecknoglobals // read-only lookup
	0: {"Big Men", "Big Men/Centers - High blocks and rebounds"},
	1: {"Forwards", "Forwards - Balanced stats, good defense"},
	2: {"Guards", "Guards - High assists and three-point shooting"},
}

type bundleDoc struct {
	Clusters []clusterDoc `koanf:"clusters"`
}

type clusterDoc struct {
	ID           float64   `koanf:"id"`
	Name         string    `koanf:"name"`
	Description  string    `koanf:"description"`
	Features     []string  `koanf:"features"`
	ScalerMean   []float64 `koanf:"scaler_mean"`
	ScalerScale  []float64 `koanf:"scaler_scale"`
	Coefficients []float64 `koanf:"coefficients"`
	AvgCoefs     []float64 `koanf:"avg_coefs"` // older exports
}

// ModelFile is a registry.ModelSource backed by a JSON or YAML bundle.
type ModelFile struct {
	path string
}

var _ registry.ModelSource = (*ModelFile)(nil)

// NewModelFile returns a source reading path; the parser follows the extension.
func NewModelFile(path string) *ModelFile {
	return &ModelFile{path: path}
}

// Models implements registry.ModelSource.
func (f *ModelFile) Models(ctx context.Context) ([]model.ClusterModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".json":
		parser = json.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		return nil, fmt.Errorf("%w: model bundle %s", ErrUnsupportedFormat, f.path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(f.path), parser); err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	var doc bundleDoc
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}

	out := make([]model.ClusterModel, 0, len(doc.Clusters))
	for _, c := range doc.Clusters {
		out = append(out, c.toModel())
	}
	return out, nil
}

func (c clusterDoc) toModel() model.ClusterModel {
	m := model.ClusterModel{
		ID:           model.ClusterID(c.ID),
		Name:         c.Name,
		Description:  c.Description,
		Features:     c.Features,
		Mean:         c.ScalerMean,
		Scale:        c.ScalerScale,
		Coefficients: c.Coefficients,
	}
	if len(m.Coefficients) == 0 {
		m.Coefficients = c.AvgCoefs
	}
	if d, ok := defaultClusters[m.ID]; ok {
		if m.Name == "" {
			m.Name = d.name
		}
		if m.Description == "" {
			m.Description = d.description
		}
	}
	if m.Name == "" {
		m.Name = "Cluster " + m.ID.String()
	}
	return m
}
