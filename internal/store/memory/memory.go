package memory

import (
	"context"
	"sync"

	"pulse/internal/domain"
	"pulse/internal/store"
)

// Store keeps batch results in memory, keyed by run ID. Useful for tests
// and for callers that persist results themselves.
type Store struct {
	mu      sync.RWMutex
	results map[string]*domain.BatchResult
}

func New() *Store { return &Store{} }

func (s *Store) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make(map[string]*domain.BatchResult)
	return nil
}

func (s *Store) SaveResult(_ context.Context, result *domain.BatchResult) (*store.WriteReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil {
		s.results = make(map[string]*domain.BatchResult)
	}
	s.results[result.RunID] = result
	written := len(result.Assignments) + len(result.Sentiments) + len(result.Clusters)
	return &store.WriteReport{Written: written}, nil
}

// Get returns a previously saved result, or nil.
func (s *Store) Get(runID string) *domain.BatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results[runID]
}

func (s *Store) Close() error { return nil }
