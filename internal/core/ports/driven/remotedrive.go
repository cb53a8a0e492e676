package driven

import (
	"context"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// RemoteDrive is a remote file store exposing a cursor-based change feed.
// Implementations map transport and authentication failures to domain.ErrRemoteUnavailable.
type RemoteDrive interface {
	// Resolve locates the drive to watch. It is called on watcher start
	// and by connection tests.
	Resolve(ctx context.Context) (domain.DriveIdentity, error)

	// ListChanges returns every change since cursor, following pagination
	// to the end of the feed. An empty cursor requests a full listing.
	ListChanges(ctx context.Context, cursor string) (*domain.ChangePage, error)

	// Download fetches the full content of a file item.
	Download(ctx context.Context, item domain.RemoteItem) ([]byte, error)
}
