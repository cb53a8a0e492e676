package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driving"
)

var (
	_ driving.Watcher         = (*mockWatcher)(nil)
	_ driving.IngestService   = (*mockIngestService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)

// mockWatcher implements driving.Watcher for testing.
type mockWatcher struct {
	status   domain.WatcherStatus
	result   *domain.PollResult
	syncErr  error
	identity domain.DriveIdentity
	testErr  error
	history  []domain.PollResult
	histErr  error
}

func (m *mockWatcher) Status() domain.WatcherStatus { return m.status }

func (m *mockWatcher) Start(_ context.Context) error { return nil }

func (m *mockWatcher) Stop() {}

func (m *mockWatcher) TriggerManualSync(_ context.Context) (*domain.PollResult, error) {
	return m.result, m.syncErr
}

func (m *mockWatcher) TestConnection(_ context.Context) (domain.DriveIdentity, error) {
	return m.identity, m.testErr
}

func (m *mockWatcher) History(_ context.Context, limit int) ([]domain.PollResult, error) {
	if limit > 0 && len(m.history) > limit {
		return m.history[:limit], m.histErr
	}
	return m.history, m.histErr
}

// mockIngestService implements driving.IngestService for testing.
type mockIngestService struct {
	docs      map[string]*domain.IngestedDocument
	ingested  []string
	ingestErr error
	gotFilter domain.DocumentFilter
}

func (m *mockIngestService) IngestUploadedFile(
	_ context.Context,
	name string,
	data []byte,
) (*domain.IngestedDocument, error) {
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	if !domain.IsAcceptedName(name) {
		return nil, domain.ErrUnsupportedFormat
	}
	m.ingested = append(m.ingested, name)
	return &domain.IngestedDocument{
		ID:               "doc-new",
		OriginalName:     name,
		ExtractedText:    string(data),
		ExtractionMethod: domain.MethodDocument,
	}, nil
}

func (m *mockIngestService) Reprocess(_ context.Context, id string) (*domain.IngestedDocument, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockIngestService) Get(_ context.Context, id string) (*domain.IngestedDocument, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockIngestService) Original(_ context.Context, _ string) (*domain.IngestedDocument, []byte, error) {
	return nil, nil, domain.ErrNotFound
}

func (m *mockIngestService) List(_ context.Context, filter domain.DocumentFilter) ([]domain.IngestedDocument, error) {
	m.gotFilter = filter
	out := make([]domain.IngestedDocument, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, *d)
	}
	return out, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    *domain.AppSettings
	validateErr error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, nil
}

func (m *mockSettingsService) Validate(_ *domain.AppSettings) error {
	return m.validateErr
}

// testDocument returns a remote document for the mock ingest service.
func testDocument() *domain.IngestedDocument {
	itemID := "item-1"
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.IngestedDocument{
		ID:               "doc-1",
		OriginalName:     "Test Document 1.pdf",
		Format:           domain.FormatPDF,
		Extension:        ".pdf",
		Size:             1024,
		ExtractedText:    "Mileage log March",
		ExtractionMethod: domain.MethodTextLayer,
		PageCount:        2,
		RemoteItemID:     &itemID,
		RemoteDriveID:    "drive-1",
		RemoteFolder:     "2026/March",
		Checksum:         "abc123",
		Tags:             []string{"mileage", "travel"},
		ProcessedAt:      at,
		CreatedAt:        at,
	}
}

// setupTestServices installs mock services and resets command flags.
func setupTestServices() (*mockWatcher, *mockIngestService, func()) {
	oldWatcher, oldIngest, oldSettings, oldServe := watcher, ingestService, settingsService, serveFunc
	oldTerminal := stdoutIsTerminal

	w := &mockWatcher{}
	ing := &mockIngestService{docs: map[string]*domain.IngestedDocument{"doc-1": testDocument()}}
	defaults := domain.DefaultAppSettings()

	watcher = w
	ingestService = ing
	settingsService = &mockSettingsService{settings: &defaults}
	serveFunc = nil
	stdoutIsTerminal = func() bool { return false }

	listFormat, listRemote, listLimit = "", false, 50
	statusTest, statusPolls = false, 5

	return w, ing, func() {
		watcher, ingestService, settingsService, serveFunc = oldWatcher, oldIngest, oldSettings, oldServe
		stdoutIsTerminal = oldTerminal
	}
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
