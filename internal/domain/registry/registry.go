// Package registry resolves cluster identifiers to their trained models.
//
// A Registry is built once from artifacts supplied by an I/O adapter and is never
// mutated afterwards, so it can be shared by concurrent readers without locking.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/prospect/internal/domain/model"
)

// ModelSource supplies trained cluster models. Implementations live in the
// adapters layer; the registry itself performs no I/O.
type ModelSource interface {
	Models(ctx context.Context) ([]model.ClusterModel, error)
}

// Registry is an immutable lookup from cluster id to model.
type Registry struct {
	models map[model.ClusterID]*model.ClusterModel
	ids    []model.ClusterID
}

// New validates the models and builds a registry.
func New(models ...model.ClusterModel) (*Registry, error) {
	if len(models) == 0 {
		return nil, ErrEmptyRegistry
	}
	r := &Registry{
		models: make(map[model.ClusterID]*model.ClusterModel, len(models)),
		ids:    make([]model.ClusterID, 0, len(models)),
	}
	for i := range models {
		m := cloneModel(models[i])
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.models[m.ID]; dup {
			return nil, fmt.Errorf("%w: cluster %s defined twice", model.ErrInvalidModel, m.ID)
		}
		r.models[m.ID] = m
		r.ids = append(r.ids, m.ID)
	}
	sort.Slice(r.ids, func(i, j int) bool { return r.ids[i] < r.ids[j] })
	return r, nil
}

// LoadModels reads every model from src and builds a registry.
func LoadModels(ctx context.Context, src ModelSource) (*Registry, error) {
	models, err := src.Models(ctx)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	return New(models...)
}

// Get returns the model for id, or ErrUnknownCluster.
func (r *Registry) Get(id model.ClusterID) (*model.ClusterModel, error) {
	m, ok := r.models[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCluster, id)
	}
	return m, nil
}

// Has reports whether a model exists for id.
func (r *Registry) Has(id model.ClusterID) bool {
	_, ok := r.models[id]
	return ok
}

// IDs returns the known cluster ids in ascending order.
func (r *Registry) IDs() []model.ClusterID {
	out := make([]model.ClusterID, len(r.ids))
	copy(out, r.ids)
	return out
}

// Models returns the registered models in id order. The models are shared and
// must be treated as read-only.
func (r *Registry) Models() []*model.ClusterModel {
	out := make([]*model.ClusterModel, len(r.ids))
	for i, id := range r.ids {
		out[i] = r.models[id]
	}
	return out
}

// Len returns the number of clusters.
func (r *Registry) Len() int { return len(r.ids) }

// cloneModel copies the slices so callers cannot mutate a registered model
// through the values they passed in.
func cloneModel(m model.ClusterModel) *model.ClusterModel {
	c := m
	c.Features = append([]string(nil), m.Features...)
	c.Mean = append([]float64(nil), m.Mean...)
	c.Scale = append([]float64(nil), m.Scale...)
	c.Coefficients = append([]float64(nil), m.Coefficients...)
	return &c
}
