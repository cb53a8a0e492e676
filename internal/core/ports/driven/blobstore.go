package driven

import "context"

// BlobStore keeps the original bytes of ingested files.
type BlobStore interface {
	// Put stores data under key, replacing any existing blob.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the blob stored under key.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
