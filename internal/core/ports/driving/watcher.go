package driving

import (
	"context"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// Watcher controls the delta-sync watcher.
type Watcher interface {
	// Status returns a snapshot of the watcher.
	Status() domain.WatcherStatus

	// Start resolves the drive, runs one poll and begins periodic polling.
	// It is a no-op when already running. On resolution failure the watcher
	// stays stopped and an error wrapping domain.ErrRemoteUnavailable is returned.
	Start(ctx context.Context) error

	// Stop cancels future polls. An in-flight poll runs to completion.
	Stop()

	// TriggerManualSync discards the cursor and polls immediately.
	// It does not change the watcher state.
	TriggerManualSync(ctx context.Context) (*domain.PollResult, error)

	// TestConnection resolves the drive without changing watcher state.
	TestConnection(ctx context.Context) (domain.DriveIdentity, error)

	// History returns recent poll results, most recent first.
	History(ctx context.Context, limit int) ([]domain.PollResult, error)
}
