package api

import (
	"context"
	"sync"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driving"
)

var (
	_ driving.Watcher       = (*mockWatcher)(nil)
	_ driving.IngestService = (*mockIngestService)(nil)
)

// mockWatcher is a mock implementation of driving.Watcher.
type mockWatcher struct {
	mu       sync.Mutex
	status   domain.WatcherStatus
	identity domain.DriveIdentity
	result   *domain.PollResult
	startErr error
	testErr  error
	syncErr  error
	syncCtx  context.Context
	stopped  int
}

func (m *mockWatcher) Status() domain.WatcherStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *mockWatcher) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	m.status.State = domain.WatcherRunning
	return nil
}

func (m *mockWatcher) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
	m.status.State = domain.WatcherStopped
}

func (m *mockWatcher) TriggerManualSync(ctx context.Context) (*domain.PollResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncCtx = ctx
	return m.result, m.syncErr
}

func (m *mockWatcher) TestConnection(_ context.Context) (domain.DriveIdentity, error) {
	return m.identity, m.testErr
}

func (m *mockWatcher) History(_ context.Context, _ int) ([]domain.PollResult, error) {
	return nil, nil
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	doc      *domain.IngestedDocument
	docs     []domain.IngestedDocument
	original []byte
	err      error

	gotName   string
	gotData   []byte
	gotID     string
	gotFilter domain.DocumentFilter
}

func (m *mockIngestService) IngestUploadedFile(
	_ context.Context,
	name string,
	data []byte,
) (*domain.IngestedDocument, error) {
	m.gotName = name
	m.gotData = data
	return m.doc, m.err
}

func (m *mockIngestService) Reprocess(_ context.Context, id string) (*domain.IngestedDocument, error) {
	m.gotID = id
	return m.doc, m.err
}

func (m *mockIngestService) Get(_ context.Context, id string) (*domain.IngestedDocument, error) {
	m.gotID = id
	return m.doc, m.err
}

func (m *mockIngestService) Original(_ context.Context, id string) (*domain.IngestedDocument, []byte, error) {
	m.gotID = id
	return m.doc, m.original, m.err
}

func (m *mockIngestService) List(_ context.Context, filter domain.DocumentFilter) ([]domain.IngestedDocument, error) {
	m.gotFilter = filter
	return m.docs, m.err
}
