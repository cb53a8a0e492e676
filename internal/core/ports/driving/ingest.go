package driving

import (
	"context"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// IngestService ingests files and manages ingested documents.
type IngestService interface {
	// IngestUploadedFile validates the extension, extracts text and records
	// a document with no remote item ID. Returns domain.ErrUnsupportedFormat
	// for unaccepted extensions. Extraction failures yield empty text.
	IngestUploadedFile(ctx context.Context, name string, data []byte) (*domain.IngestedDocument, error)

	// Reprocess re-runs extraction on a document's stored original.
	Reprocess(ctx context.Context, id string) (*domain.IngestedDocument, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.IngestedDocument, error)

	// Original returns a document's stored original bytes.
	// Returns domain.ErrNotFound if the document or its original is missing.
	Original(ctx context.Context, id string) (*domain.IngestedDocument, []byte, error)

	// List returns documents newest first.
	List(ctx context.Context, filter domain.DocumentFilter) ([]domain.IngestedDocument, error)
}
