package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/refnetlabs/refnet/pkg/errors"
)

// MemoryStore keeps reports in memory. Used by the CLI and by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[uuid.UUID]Report),
	}
}

// Save persists a report, overwriting any previous report with the same ID.
func (s *MemoryStore) Save(ctx context.Context, r Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
	return nil
}

// List returns reports in reverse chronological order, at most limit.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get retrieves a report by ID.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return Report{}, errors.New(errors.ErrCodeReportNotFound, "report %s not found", id)
	}
	return r, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
