package driven

import (
	"context"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// SyncStateStore persists the delta cursor between process restarts.
type SyncStateStore interface {
	// Save stores or updates sync state.
	Save(ctx context.Context, state domain.SyncState) error

	// Get retrieves sync state for a drive.
	// Returns nil and no error if nothing is stored.
	Get(ctx context.Context, driveID string) (*domain.SyncState, error)

	// Delete removes sync state for a drive.
	Delete(ctx context.Context, driveID string) error
}
