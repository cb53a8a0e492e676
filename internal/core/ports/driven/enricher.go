package driven

import (
	"context"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// Enricher derives structured data from extracted text.
// This is an optional service - when nil, documents are stored without tags.
type Enricher interface {
	// Categorise assigns tags, a category and a summary to text.
	Categorise(ctx context.Context, text, fileName string) (*domain.Categorisation, error)

	// ExtractReceipt recovers expense data from text.
	// Returns nil and no error when the text is not a receipt.
	ExtractReceipt(ctx context.Context, text string) (*domain.Receipt, error)
}
