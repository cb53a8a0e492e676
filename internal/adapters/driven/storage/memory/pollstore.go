package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

// Ensure PollHistoryStore implements the interface.
var _ driven.PollHistoryStore = (*PollHistoryStore)(nil)

// PollHistoryStore is an in-memory implementation of driven.PollHistoryStore.
// Results are held oldest first.
type PollHistoryStore struct {
	mu      sync.RWMutex
	results []domain.PollResult
}

// NewPollHistoryStore creates a new in-memory poll history store.
func NewPollHistoryStore() *PollHistoryStore {
	return &PollHistoryStore{}
}

// RecordPoll logs a poll result.
func (s *PollHistoryStore) RecordPoll(_ context.Context, result *domain.PollResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, *result)
	return nil
}

// ListPolls returns recent results, most recent first.
func (s *PollHistoryStore) ListPolls(_ context.Context, limit int) ([]domain.PollResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.results)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.PollResult, 0, n)
	for i := len(s.results) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.results[i])
	}
	return out, nil
}

// PruneHistory keeps the most recent 'keep' results.
func (s *PollHistoryStore) PruneHistory(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keep < 0 {
		keep = 0
	}
	if len(s.results) > keep {
		s.results = append([]domain.PollResult(nil), s.results[len(s.results)-keep:]...)
	}
	return nil
}
