package artifacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/prospect/internal/domain/model"
	"github.com/okian/prospect/internal/domain/registry"
)

const sampleModelsYAML = `
clusters:
  - id: 0.0
    features: [LogBlk, LogREB]
    scaler_mean: [0.5, 2.0]
    scaler_scale: [0.25, 0.5]
    coefficients: [1.2, 0.8]
  - id: 1.0
    name: Wings
    features: [LogStl, Player_Encoded]
    scaler_mean: [0.3, 2.5]
    scaler_scale: [0.1, 1.1]
    coefficients: [0.9, -0.4]
`

const sampleModelsJSON = `{
  "clusters": [
    {"id": 2, "description": "Ball handlers", "features": ["LogAst"],
     "scaler_mean": [1.0], "scaler_scale": [0.5], "avg_coefs": [1.5]}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestModelFileYAML(t *testing.T) {
	path := writeFile(t, "models.yaml", sampleModelsYAML)

	models, err := NewModelFile(path).Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)

	big := models[0]
	assert.Equal(t, model.ClusterID(0), big.ID)
	assert.Equal(t, "Big Men", big.Name)
	assert.Equal(t, "Big Men/Centers - High blocks and rebounds", big.Description)
	assert.Equal(t, []string{"LogBlk", "LogREB"}, big.Features)
	assert.Equal(t, []float64{1.2, 0.8}, big.Coefficients)

	fwd := models[1]
	assert.Equal(t, "Wings", fwd.Name, "explicit names win over defaults")
	assert.Equal(t, "Forwards - Balanced stats, good defense", fwd.Description)

	reg, err := registry.LoadModels(context.Background(), NewModelFile(path))
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
}

func TestModelFileJSON(t *testing.T) {
	path := writeFile(t, "models.json", sampleModelsJSON)

	models, err := NewModelFile(path).Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, model.ClusterID(2), models[0].ID)
	assert.Equal(t, "Ball handlers", models[0].Description)
	assert.Equal(t, []float64{1.5}, models[0].Coefficients, "avg_coefs is accepted for older exports")
}

func TestModelFileErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewModelFile(writeFile(t, "models.toml", "x = 1")).Models(ctx)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = NewModelFile(filepath.Join(t.TempDir(), "missing.yaml")).Models(ctx)
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", `
clusters:
  - id: 0
    features: [A, B]
    scaler_mean: [0]
    scaler_scale: [1, 1]
    coefficients: [1, 1]
`)
	_, err = registry.LoadModels(ctx, NewModelFile(bad))
	assert.True(t, errors.Is(err, model.ErrInvalidModel))
}
