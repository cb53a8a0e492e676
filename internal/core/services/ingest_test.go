package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

func TestIngestUploadedFile_Success(t *testing.T) {
	ti := newTestIngest(nil)
	ctx := context.Background()

	doc, err := ti.service.IngestUploadedFile(ctx, "Minutes.PDF", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Minutes.PDF", doc.OriginalName)
	assert.Equal(t, domain.FormatPDF, doc.Format)
	assert.Equal(t, ".pdf", doc.Extension)
	assert.Equal(t, int64(8), doc.Size)
	assert.Equal(t, "extracted text", doc.ExtractedText)
	assert.Equal(t, domain.MethodTextLayer, doc.ExtractionMethod)
	assert.Equal(t, 1, doc.PageCount)
	assert.Nil(t, doc.RemoteItemID)
	assert.Len(t, doc.Checksum, 64)
	assert.Equal(t, doc.ID+".pdf", doc.BlobKey)
	assert.Equal(t, testNow, doc.CreatedAt)

	saved, err := ti.docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "extracted text", saved.ExtractedText)

	blob, err := ti.blobs.Get(ctx, doc.BlobKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), blob)
}

func TestIngestUploadedFile_UnsupportedFormat(t *testing.T) {
	ti := newTestIngest(nil)
	ctx := context.Background()

	for _, name := range []string{"notes.txt", "archive.zip", "noextension"} {
		t.Run(name, func(t *testing.T) {
			doc, err := ti.service.IngestUploadedFile(ctx, name, []byte("data"))
			assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
			assert.Nil(t, doc)
		})
	}

	count, err := ti.docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, ti.blobs.Len())
	assert.Zero(t, ti.extractor.callCount())
}

func TestIngestUploadedFile_ExtractionFailureStillRecords(t *testing.T) {
	ti := newTestIngest(nil)
	ti.extractor.result = nil
	ti.extractor.err = errors.New("tool crashed")

	doc, err := ti.service.IngestUploadedFile(context.Background(), "scan.jpg", []byte("jpeg"))
	require.NoError(t, err)
	assert.Empty(t, doc.ExtractedText)
	assert.Equal(t, domain.MethodNone, doc.ExtractionMethod)
	assert.Equal(t, domain.FormatJPEG, doc.Format)

	saved, err := ti.docs.GetDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Empty(t, saved.ExtractedText)
}

func TestIngestUploadedFile_NoExtractorRegistered(t *testing.T) {
	ti := newTestIngest(nil)

	doc, err := ti.service.IngestUploadedFile(context.Background(), "report.docx", []byte("zip"))
	require.NoError(t, err)
	assert.Empty(t, doc.ExtractedText)
	assert.Equal(t, domain.FormatDOCX, doc.Format)
}

func TestIngestUploadedFile_BlobFailureIsNotFatal(t *testing.T) {
	docs := memory.NewDocumentStore()
	extractor := &fakeExtractor{
		formats: []domain.Format{domain.FormatPDF},
		result:  &domain.Extraction{Text: "text", Method: domain.MethodTextLayer},
	}
	service := NewIngestService(NewDispatcher(extractor), docs, failingBlobStore{memory.NewBlobStore()}, nil, nil)

	doc, err := service.IngestUploadedFile(context.Background(), "a.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, doc.BlobKey)
	assert.Equal(t, "text", doc.ExtractedText)
}

func TestIngestUploadedFile_Enrichment(t *testing.T) {
	enricher := &fakeEnricher{
		categorisation: &domain.Categorisation{Tags: []string{"fuel", "field-visit"}, Category: "receipt"},
		receipt:        &domain.Receipt{Vendor: "Shell", Amount: 42.1, Category: "gasoline"},
	}
	ti := newTestIngest(enricher)
	ctx := context.Background()

	doc, err := ti.service.IngestUploadedFile(ctx, "receipt.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, []string{"fuel", "field-visit"}, doc.Tags)

	saved, err := ti.docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"fuel", "field-visit"}, saved.Tags)

	expenses, err := ti.expenses.ListExpenses(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Shell", expenses[0].Vendor)
	assert.Equal(t, 42.1, expenses[0].Amount)
	assert.Equal(t, "other", expenses[0].Category)
	assert.Equal(t, domain.ExpensePending, expenses[0].Status)
	assert.Equal(t, "2024-03-01", expenses[0].Date)
	assert.NotEmpty(t, expenses[0].ID)
}

func TestIngestUploadedFile_EnrichmentFailureIsNotFatal(t *testing.T) {
	enricher := &fakeEnricher{
		categoriseErr: errors.New("rate limited"),
		receiptErr:    errors.New("bad json"),
	}
	ti := newTestIngest(enricher)

	doc, err := ti.service.IngestUploadedFile(context.Background(), "a.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, doc.Tags)

	expenses, err := ti.expenses.ListExpenses(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestIngestUploadedFile_NoAmountNoExpense(t *testing.T) {
	enricher := &fakeEnricher{receipt: &domain.Receipt{Vendor: "Cafe"}}
	ti := newTestIngest(enricher)

	doc, err := ti.service.IngestUploadedFile(context.Background(), "a.pdf", []byte("x"))
	require.NoError(t, err)

	expenses, err := ti.expenses.ListExpenses(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestIngestUploadedFile_EmptyTextSkipsEnrichment(t *testing.T) {
	enricher := &fakeEnricher{}
	ti := newTestIngest(enricher)
	ti.extractor.result = &domain.Extraction{Text: "  \n", Method: domain.MethodNone}

	_, err := ti.service.IngestUploadedFile(context.Background(), "blank.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, enricher.texts)
}

func TestIngestRemote_Duplicate(t *testing.T) {
	ti := newTestIngest(nil)
	ctx := context.Background()
	item := fileItem("item-1", "budget.pdf")
	item.ParentPath = "2024/Q1"

	doc, err := ti.service.ingestRemote(ctx, item, "drive-1", []byte("x"))
	require.NoError(t, err)
	require.NotNil(t, doc.RemoteItemID)
	assert.Equal(t, "item-1", *doc.RemoteItemID)
	assert.Equal(t, "drive-1", doc.RemoteDriveID)
	assert.Equal(t, "2024/Q1", doc.RemoteFolder)
	assert.True(t, doc.IsRemote())

	_, err = ti.service.ingestRemote(ctx, item, "drive-1", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	count, err := ti.docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, ti.blobs.Len())
}

func TestReprocess(t *testing.T) {
	ti := newTestIngest(nil)
	ctx := context.Background()

	doc, err := ti.service.IngestUploadedFile(ctx, "scan.pdf", []byte("x"))
	require.NoError(t, err)

	ti.extractor.result = &domain.Extraction{Text: "better text", Method: domain.MethodOCRRaster, PageCount: 2}
	updated, err := ti.service.Reprocess(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "better text", updated.ExtractedText)
	assert.Equal(t, domain.MethodOCRRaster, updated.ExtractionMethod)

	saved, err := ti.service.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "better text", saved.ExtractedText)
	assert.Equal(t, 2, saved.PageCount)
}

func TestReprocess_Errors(t *testing.T) {
	ti := newTestIngest(nil)
	ctx := context.Background()

	_, err := ti.service.Reprocess(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	doc, err := ti.service.IngestUploadedFile(ctx, "scan.pdf", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, ti.blobs.Delete(ctx, doc.BlobKey))

	_, err = ti.service.Reprocess(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, ti.blobs.Put(ctx, doc.BlobKey, []byte("x")))
	ti.extractor.err = errors.New("still broken")
	_, err = ti.service.Reprocess(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)

	saved, err := ti.service.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "extracted text", saved.ExtractedText)
}

func TestOriginalAndList(t *testing.T) {
	ti := newTestIngest(nil)
	ctx := context.Background()

	doc, err := ti.service.IngestUploadedFile(ctx, "photo.jpeg", []byte("jpegdata"))
	require.NoError(t, err)

	got, data, err := ti.service.Original(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, []byte("jpegdata"), data)

	docs, err := ti.service.List(ctx, domain.DocumentFilter{})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
