package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/prospect/internal/domain/model"
	"github.com/okian/prospect/pkg/metrics"
)

// MemoryStore keeps the dataset in a slice with a first-occurrence name index.
type MemoryStore struct {
	rows   []model.PlayerRecord
	byName map[string]int
	lower  []string // lowercased names, parallel to rows
	source string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore copies rows and indexes them by name.
func NewMemoryStore(rows []model.PlayerRecord, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		rows:   make([]model.PlayerRecord, len(rows)),
		byName: make(map[string]int, len(rows)),
		lower:  make([]string, len(rows)),
		source: "memory",
	}
	copy(s.rows, rows)
	for i, r := range s.rows {
		if _, seen := s.byName[r.Name]; !seen {
			s.byName[r.Name] = i
		}
		s.lower[i] = strings.ToLower(r.Name)
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateDatasetPlayers(len(s.rows))
	return s
}

// Source describes where the rows were loaded from.
func (s *MemoryStore) Source() string { return s.source }

// ByName implements Store.
func (s *MemoryStore) ByName(_ context.Context, name string) (model.PlayerRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	i, ok := s.byName[name]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.PlayerRecord{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return s.rows[i], nil
}

// Search implements Store.
func (s *MemoryStore) Search(_ context.Context, q string, limit int) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" || limit <= 0 {
		return nil
	}
	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	for i, name := range s.lower {
		if !strings.Contains(name, q) {
			continue
		}
		orig := s.rows[i].Name
		if _, dup := seen[orig]; dup {
			continue
		}
		seen[orig] = struct{}{}
		out = append(out, orig)
		if len(out) == limit {
			break
		}
	}
	return out
}

// All implements Store.
func (s *MemoryStore) All(_ context.Context) []model.PlayerRecord {
	return s.rows
}

// Where implements Store.
func (s *MemoryStore) Where(_ context.Context, keep func(model.PlayerRecord) bool) []model.PlayerRecord {
	var out []model.PlayerRecord
	for _, r := range s.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.rows)
}
