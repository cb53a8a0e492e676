package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

// fakeExtractor returns a fixed extraction for its formats.
type fakeExtractor struct {
	formats []domain.Format
	result  *domain.Extraction
	err     error

	mu    sync.Mutex
	calls int
}

func (f *fakeExtractor) Formats() []domain.Format { return f.formats }

func (f *fakeExtractor) Extract(_ context.Context, _ []byte) (*domain.Extraction, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.result, f.err
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeEnricher returns canned enrichment results.
type fakeEnricher struct {
	categorisation *domain.Categorisation
	categoriseErr  error
	receipt        *domain.Receipt
	receiptErr     error

	mu    sync.Mutex
	texts []string
}

func (f *fakeEnricher) Categorise(_ context.Context, text, _ string) (*domain.Categorisation, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	return f.categorisation, f.categoriseErr
}

func (f *fakeEnricher) ExtractReceipt(_ context.Context, _ string) (*domain.Receipt, error) {
	return f.receipt, f.receiptErr
}

// failingBlobStore rejects every write.
type failingBlobStore struct {
	*memory.BlobStore
}

func (failingBlobStore) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

// fakeDrive is a scripted remote drive. Pages are keyed by the cursor
// that requests them; an unknown cursor yields an empty page that keeps it.
type fakeDrive struct {
	mu           sync.Mutex
	identity     domain.DriveIdentity
	resolveErr   error
	pages        map[string]*domain.ChangePage
	listErr      error
	blockList    bool
	onList       func(call int)
	files        map[string][]byte
	downloadErrs map[string]error

	resolveCalls int
	cursors      []string
	downloads    []string
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		identity:     domain.DriveIdentity{SiteID: "site-1", DriveID: "drive-1", Name: "Documents"},
		pages:        make(map[string]*domain.ChangePage),
		files:        make(map[string][]byte),
		downloadErrs: make(map[string]error),
	}
}

func (d *fakeDrive) Resolve(_ context.Context) (domain.DriveIdentity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resolveCalls++
	return d.identity, d.resolveErr
}

func (d *fakeDrive) ListChanges(ctx context.Context, cursor string) (*domain.ChangePage, error) {
	d.mu.Lock()
	d.cursors = append(d.cursors, cursor)
	call := len(d.cursors)
	block, err, hook := d.blockList, d.listErr, d.onList
	page, ok := d.pages[cursor]
	d.mu.Unlock()

	if hook != nil {
		hook(call)
	}

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return &domain.ChangePage{NextCursor: cursor}, nil
	}
	return page, nil
}

func (d *fakeDrive) Download(_ context.Context, item domain.RemoteItem) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.downloads = append(d.downloads, item.ID)
	if err := d.downloadErrs[item.ID]; err != nil {
		return nil, err
	}
	if data, ok := d.files[item.ID]; ok {
		return data, nil
	}
	return []byte("content of " + item.Name), nil
}

func (d *fakeDrive) set(fn func(d *fakeDrive)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d)
}

func (d *fakeDrive) requestedCursors() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.cursors...)
}

func (d *fakeDrive) downloaded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.downloads...)
}

func fileItem(id, name string) domain.RemoteItem {
	return domain.RemoteItem{ID: id, Name: name, IsFile: true, ModifiedAt: time.Now()}
}

// testIngest bundles an ingest service with its in-memory stores.
type testIngest struct {
	service   *IngestService
	docs      *memory.DocumentStore
	blobs     *memory.BlobStore
	expenses  *memory.ExpenseStore
	extractor *fakeExtractor
}

func newTestIngest(enricher driven.Enricher) *testIngest {
	ti := &testIngest{
		docs:     memory.NewDocumentStore(),
		blobs:    memory.NewBlobStore(),
		expenses: memory.NewExpenseStore(),
		extractor: &fakeExtractor{
			formats: []domain.Format{domain.FormatPDF, domain.FormatPNG, domain.FormatJPEG},
			result:  &domain.Extraction{Text: "extracted text", Method: domain.MethodTextLayer, PageCount: 1},
		},
	}
	ti.service = NewIngestService(NewDispatcher(ti.extractor), ti.docs, ti.blobs, enricher, ti.expenses)
	ti.service.now = func() time.Time { return testNow }
	return ti
}

var testNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
