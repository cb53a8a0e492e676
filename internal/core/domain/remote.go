package domain

import "time"

// RemoteItem is an entry reported by a remote drive's change feed.
// It is read-only to the ingestion pipeline.
type RemoteItem struct {
	// ID is the remote drive's opaque, stable identifier.
	ID string

	// Name is the file name including extension.
	Name string

	// Size is the byte size reported by the drive.
	Size int64

	// ModifiedAt is the last modification time reported by the drive.
	ModifiedAt time.Time

	// ParentPath is the item's folder relative to the watched folder.
	ParentPath string

	// IsFile is false for folders and other containers.
	IsFile bool

	// Deleted marks a tombstone reported by the change feed.
	Deleted bool

	// DownloadURL is an optional pre-authenticated content URL.
	DownloadURL string
}

// DriveIdentity identifies the resolved remote drive.
type DriveIdentity struct {
	// SiteID is the hosting site, empty for providers without sites.
	SiteID string

	// DriveID is the drive the change feed is read from.
	DriveID string

	// Name is a human-readable drive name.
	Name string
}

// ChangePage is one complete pass over the change feed.
type ChangePage struct {
	// Items are the changed entries, in feed order.
	Items []RemoteItem

	// NextCursor is the cursor to use for the next poll.
	NextCursor string
}

// SyncState tracks the persisted delta cursor for a drive.
type SyncState struct {
	// DriveID identifies the drive the cursor belongs to.
	DriveID string

	// Cursor is an opaque token for incremental sync.
	Cursor string

	// LastSync is when the last successful sync completed.
	LastSync time.Time
}
