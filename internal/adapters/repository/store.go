// Package repository holds the read-only player dataset and its lookups.
package repository

import (
	"context"

	"github.com/okian/prospect/internal/domain/model"
)

// Store provides read access to the loaded player dataset.
// Implementations are immutable after construction and safe for concurrent reads.
type Store interface {
	// ByName returns the first player whose name matches exactly.
	// Returns ErrNotFound if no row matches.
	ByName(ctx context.Context, name string) (model.PlayerRecord, error)

	// Search returns up to limit unique names containing q, case-insensitively,
	// in dataset order.
	Search(ctx context.Context, q string, limit int) []string

	// All returns every row in dataset order. Callers must not modify it.
	All(ctx context.Context) []model.PlayerRecord

	// Where returns the rows matching keep, in dataset order.
	Where(ctx context.Context, keep func(model.PlayerRecord) bool) []model.PlayerRecord

	// Count returns the number of rows.
	Count(ctx context.Context) int
}
