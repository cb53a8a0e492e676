package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// DocumentStore persists ingested documents and acts as the ingestion ledger.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// HasBeenIngested reports whether a document exists for the remote item.
	HasBeenIngested(ctx context.Context, remoteItemID string) (bool, error)

	// RecordIngestion inserts a complete document record in one operation.
	// Returns domain.ErrAlreadyExists if a document with the same
	// RemoteItemID is already recorded.
	RecordIngestion(ctx context.Context, doc *domain.IngestedDocument) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.IngestedDocument, error)

	// ListDocuments returns documents newest first.
	ListDocuments(ctx context.Context, filter domain.DocumentFilter) ([]domain.IngestedDocument, error)

	// UpdateExtraction replaces a document's extracted text and processed time.
	UpdateExtraction(ctx context.Context, id string, extraction domain.Extraction, processedAt time.Time) error

	// UpdateTags replaces a document's tags.
	UpdateTags(ctx context.Context, id string, tags []string) error

	// CountDocuments returns the number of recorded documents.
	CountDocuments(ctx context.Context) (int, error)
}

// ExpenseStore persists expenses recovered from receipts.
type ExpenseStore interface {
	// SaveExpense inserts an expense.
	SaveExpense(ctx context.Context, expense *domain.Expense) error

	// ListExpenses returns expenses linked to a document.
	ListExpenses(ctx context.Context, documentID string) ([]domain.Expense, error)
}
