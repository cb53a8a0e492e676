package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driving"
	"github.com/custodia-labs/fieldarchive/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService extracts text from files and records them in the ledger.
type IngestService struct {
	dispatcher *Dispatcher
	docs       driven.DocumentStore
	blobs      driven.BlobStore
	enricher   driven.Enricher
	expenses   driven.ExpenseStore
	now        func() time.Time
}

// NewIngestService creates an ingest service.
// blobs, enricher and expenses are optional and may be nil.
func NewIngestService(
	dispatcher *Dispatcher,
	docs driven.DocumentStore,
	blobs driven.BlobStore,
	enricher driven.Enricher,
	expenses driven.ExpenseStore,
) *IngestService {
	return &IngestService{
		dispatcher: dispatcher,
		docs:       docs,
		blobs:      blobs,
		enricher:   enricher,
		expenses:   expenses,
		now:        time.Now,
	}
}

// remoteOrigin describes where a remote file came from.
type remoteOrigin struct {
	itemID  string
	driveID string
	folder  string
}

// IngestUploadedFile ingests a manually uploaded file.
func (s *IngestService) IngestUploadedFile(ctx context.Context, name string, data []byte) (*domain.IngestedDocument, error) {
	return s.ingest(ctx, name, data, nil)
}

// ingestRemote ingests a file downloaded from the remote drive.
// Returns domain.ErrAlreadyExists if the item was recorded concurrently.
func (s *IngestService) ingestRemote(ctx context.Context, item domain.RemoteItem, driveID string, data []byte) (*domain.IngestedDocument, error) {
	return s.ingest(ctx, item.Name, data, &remoteOrigin{
		itemID:  item.ID,
		driveID: driveID,
		folder:  item.ParentPath,
	})
}

// ingest runs the shared pipeline: validate, keep the original, extract,
// record, enrich. Extraction and enrichment failures never prevent the
// record from being written.
func (s *IngestService) ingest(
	ctx context.Context,
	name string,
	data []byte,
	origin *remoteOrigin,
) (*domain.IngestedDocument, error) {
	ext := strings.ToLower(filepath.Ext(name))
	format, ok := domain.FormatFromExtension(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	now := s.now()
	doc := &domain.IngestedDocument{
		ID:           uuid.New().String(),
		OriginalName: name,
		Format:       format,
		Extension:    ext,
		Size:         int64(len(data)),
		Checksum:     checksum(data),
		CreatedAt:    now,
	}
	if origin != nil {
		itemID := origin.itemID
		doc.RemoteItemID = &itemID
		doc.RemoteDriveID = origin.driveID
		doc.RemoteFolder = origin.folder
	}

	if s.blobs != nil {
		key := doc.ID + ext
		if err := s.blobs.Put(ctx, key, data); err != nil {
			logger.Warn("ingest %s: store original: %v", name, err)
		} else {
			doc.BlobKey = key
		}
	}

	extraction, err := s.dispatcher.Extract(ctx, format, data)
	if err != nil {
		logger.Warn("ingest %s: %v", name, err)
	}
	applyExtraction(doc, extraction, s.now())

	if err := s.docs.RecordIngestion(ctx, doc); err != nil {
		s.discardBlob(ctx, doc)
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("record ingestion: %w", err)
	}
	logger.Info("ingested %s (%s, %d chars, %s)", name, doc.ID, len(doc.ExtractedText), doc.ExtractionMethod)

	s.enrich(ctx, doc)
	return doc, nil
}

// Reprocess re-runs extraction on a document's stored original.
func (s *IngestService) Reprocess(ctx context.Context, id string) (*domain.IngestedDocument, error) {
	doc, data, err := s.Original(ctx, id)
	if err != nil {
		return nil, err
	}

	extraction, err := s.dispatcher.Extract(ctx, doc.Format, data)
	if err != nil {
		return nil, err
	}

	processedAt := s.now()
	if err := s.docs.UpdateExtraction(ctx, id, *extraction, processedAt); err != nil {
		return nil, fmt.Errorf("update extraction: %w", err)
	}
	applyExtraction(doc, extraction, processedAt)
	logger.Info("reprocessed %s: extracted %d chars", doc.OriginalName, len(doc.ExtractedText))
	return doc, nil
}

// Original returns a document with its stored original bytes.
func (s *IngestService) Original(ctx context.Context, id string) (*domain.IngestedDocument, []byte, error) {
	doc, err := s.docs.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.blobs == nil || doc.BlobKey == "" {
		return nil, nil, fmt.Errorf("original of %s: %w", id, domain.ErrNotFound)
	}
	data, err := s.blobs.Get(ctx, doc.BlobKey)
	if err != nil {
		return nil, nil, fmt.Errorf("original of %s: %w", id, err)
	}
	return doc, data, nil
}

// Get retrieves a document by ID.
func (s *IngestService) Get(ctx context.Context, id string) (*domain.IngestedDocument, error) {
	return s.docs.GetDocument(ctx, id)
}

// List returns documents newest first.
func (s *IngestService) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.IngestedDocument, error) {
	return s.docs.ListDocuments(ctx, filter)
}

// enrich hands a recorded document to the enricher. Failures are logged.
func (s *IngestService) enrich(ctx context.Context, doc *domain.IngestedDocument) {
	if s.enricher == nil || strings.TrimSpace(doc.ExtractedText) == "" {
		return
	}

	cat, err := s.enricher.Categorise(ctx, doc.ExtractedText, doc.OriginalName)
	switch {
	case err != nil:
		logger.Warn("enrich %s: %v", doc.OriginalName, fmt.Errorf("%w: categorise: %w", domain.ErrEnrichmentFailed, err))
	case cat != nil && len(cat.Tags) > 0:
		if err := s.docs.UpdateTags(ctx, doc.ID, cat.Tags); err != nil {
			logger.Warn("enrich %s: save tags: %v", doc.OriginalName, err)
		} else {
			doc.Tags = cat.Tags
		}
	}

	receipt, err := s.enricher.ExtractReceipt(ctx, doc.ExtractedText)
	if err != nil {
		logger.Warn("enrich %s: %v", doc.OriginalName, fmt.Errorf("%w: receipt: %w", domain.ErrEnrichmentFailed, err))
		return
	}
	if !receipt.HasAmount() || s.expenses == nil {
		return
	}

	expense := domain.ExpenseFromReceipt(doc.ID, receipt)
	expense.ID = uuid.New().String()
	expense.CreatedAt = s.now()
	if expense.Date == "" {
		expense.Date = expense.CreatedAt.Format(time.DateOnly)
	}
	if err := s.expenses.SaveExpense(ctx, &expense); err != nil {
		logger.Warn("enrich %s: save expense: %v", doc.OriginalName, err)
		return
	}
	logger.Info("created pending expense from receipt: %.2f at %s", expense.Amount, expense.Vendor)
}

// discardBlob removes the original of a document that was not recorded.
func (s *IngestService) discardBlob(ctx context.Context, doc *domain.IngestedDocument) {
	if s.blobs == nil || doc.BlobKey == "" {
		return
	}
	if err := s.blobs.Delete(ctx, doc.BlobKey); err != nil {
		logger.Warn("discard original %s: %v", doc.BlobKey, err)
	}
}

func applyExtraction(doc *domain.IngestedDocument, e *domain.Extraction, processedAt time.Time) {
	doc.ExtractedText = e.Text
	doc.ExtractionMethod = e.Method
	doc.PageCount = e.PageCount
	doc.ProcessedAt = processedAt
}

// checksum returns the hex BLAKE2b-256 digest of data.
func checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
