package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

// Ensure SyncStateStore implements the interface.
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// SyncStateStore is an in-memory implementation of driven.SyncStateStore.
type SyncStateStore struct {
	mu     sync.RWMutex
	states map[string]domain.SyncState
}

// NewSyncStateStore creates a new in-memory sync state store.
func NewSyncStateStore() *SyncStateStore {
	return &SyncStateStore{
		states: make(map[string]domain.SyncState),
	}
}

// Save stores or updates sync state.
func (s *SyncStateStore) Save(_ context.Context, state domain.SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.DriveID] = state
	return nil
}

// Get retrieves sync state for a drive. Returns nil if none is stored.
func (s *SyncStateStore) Get(_ context.Context, driveID string) (*domain.SyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[driveID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

// Delete removes sync state for a drive.
func (s *SyncStateStore) Delete(_ context.Context, driveID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, driveID)
	return nil
}
