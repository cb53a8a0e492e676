package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driving"
	"github.com/custodia-labs/fieldarchive/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driving.Watcher = (*Watcher)(nil)

// historyRetention is the number of poll results kept.
const historyRetention = 100

// WatcherConfig holds watcher timing.
type WatcherConfig struct {
	// PollInterval is the time between scheduled polls.
	PollInterval time.Duration

	// FileDelay is the pause between processed files within one poll.
	FileDelay time.Duration

	// CallTimeout bounds each remote call. Zero means no limit beyond ctx.
	CallTimeout time.Duration
}

// WatcherConfigFrom converts settings into watcher timing.
func WatcherConfigFrom(s domain.WatcherSettings) WatcherConfig {
	return WatcherConfig{
		PollInterval: s.PollInterval,
		FileDelay:    s.FileDelay,
		CallTimeout:  s.CallTimeout,
	}
}

// pollOutcome classifies the handling of a single remote file.
type pollOutcome int

const (
	outcomeIngested pollOutcome = iota
	outcomeDuplicate
	outcomeDownloadFailed
	outcomeRecordFailed
)

// Watcher polls a remote drive's change feed and ingests new files.
// One watcher runs per process. Polls are serialised; files within a poll
// are processed one at a time.
type Watcher struct {
	drive     driven.RemoteDrive
	ingest    *IngestService
	syncStore driven.SyncStateStore
	history   driven.PollHistoryStore
	cfg       WatcherConfig

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	lifecycle sync.Mutex
	pollMu    sync.Mutex
	manual    singleflight.Group
	wg        sync.WaitGroup
	base      context.Context
	cancel    context.CancelFunc

	// State guarded by mu.
	mu             sync.RWMutex
	state          domain.WatcherState
	stopCh         chan struct{}
	identity       *domain.DriveIdentity
	cursor         string
	lastSync       time.Time
	filesProcessed int64
	lastError      string
}

// NewWatcher creates a stopped watcher.
// syncStore and history are optional and may be nil.
func NewWatcher(
	drive driven.RemoteDrive,
	ingest *IngestService,
	syncStore driven.SyncStateStore,
	history driven.PollHistoryStore,
	cfg WatcherConfig,
) *Watcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = domain.DefaultAppSettings().Watcher.PollInterval
	}
	base, cancel := context.WithCancel(context.Background())
	return &Watcher{
		drive:     drive,
		ingest:    ingest,
		syncStore: syncStore,
		history:   history,
		cfg:       cfg,
		sleep:     sleepContext,
		now:       time.Now,
		base:      base,
		cancel:    cancel,
		state:     domain.WatcherStopped,
	}
}

// Status returns a snapshot of the watcher.
func (w *Watcher) Status() domain.WatcherStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	status := domain.WatcherStatus{
		State:          w.state,
		LastSync:       w.lastSync,
		FilesProcessed: w.filesProcessed,
		PollInterval:   w.cfg.PollInterval,
		CursorSet:      w.cursor != "",
		LastError:      w.lastError,
	}
	if w.identity != nil {
		status.DriveID = w.identity.DriveID
	}
	return status
}

// Start resolves the drive and begins polling: one poll immediately, then
// one every PollInterval until Stop. It returns once the drive is resolved.
func (w *Watcher) Start(ctx context.Context) error {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	if w.Status().Running() {
		return nil
	}

	identity, err := w.resolve(ctx)
	if err != nil {
		logger.Error("watcher: start failed: %v", err)
		return fmt.Errorf("start watcher: %w", err)
	}
	w.restoreCursor(ctx, identity.DriveID)

	stopCh := make(chan struct{})
	w.mu.Lock()
	w.state = domain.WatcherRunning
	w.stopCh = stopCh
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(stopCh)

	logger.Info("watcher started: drive=%s, polling every %s", identity.DriveID, w.cfg.PollInterval)
	return nil
}

// Stop cancels future polls. A poll in progress runs to completion.
func (w *Watcher) Stop() {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != domain.WatcherRunning {
		return
	}
	w.state = domain.WatcherStopped
	close(w.stopCh)
	w.stopCh = nil
	logger.Info("watcher stopped")
}

// Wait blocks until the polling goroutine has exited.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

// Close stops the watcher, cancels any poll in progress and waits for it.
func (w *Watcher) Close() error {
	w.Stop()
	w.cancel()
	w.wg.Wait()
	return nil
}

// TriggerManualSync discards the cursor and polls immediately.
// Concurrent calls share a single poll. Close cancels a manual sync in progress.
func (w *Watcher) TriggerManualSync(ctx context.Context) (*domain.PollResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(w.base, cancel)
	defer stop()

	v, err, _ := w.manual.Do("manual", func() (any, error) {
		w.mu.RLock()
		resolved := w.identity != nil
		w.mu.RUnlock()

		if !resolved {
			if _, err := w.resolve(ctx); err != nil {
				return nil, err
			}
		}
		return w.runPoll(ctx, domain.TriggerManual, true), nil
	})
	if err != nil {
		return nil, err
	}
	result := *v.(*domain.PollResult)
	return &result, nil
}

// TestConnection resolves the drive without changing watcher state.
func (w *Watcher) TestConnection(ctx context.Context) (domain.DriveIdentity, error) {
	return w.resolveIdentity(ctx)
}

// History returns recent poll results, most recent first.
func (w *Watcher) History(ctx context.Context, limit int) ([]domain.PollResult, error) {
	if w.history == nil {
		return nil, nil
	}
	return w.history.ListPolls(ctx, limit)
}

// loop runs the immediate poll and then the periodic polls.
func (w *Watcher) loop(stopCh chan struct{}) {
	defer w.wg.Done()

	select {
	case <-stopCh:
		return
	default:
	}
	w.runPoll(w.base, domain.TriggerStart, false)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.base.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			// A tick that raced with Stop must not start another poll.
			select {
			case <-stopCh:
				return
			default:
			}
			w.runPoll(w.base, domain.TriggerSchedule, false)
		}
	}
}

// runPoll performs one poll under the poll lock and records its outcome.
// A failed poll resets the cursor so the next poll lists everything.
func (w *Watcher) runPoll(ctx context.Context, trigger string, resetCursor bool) *domain.PollResult {
	w.pollMu.Lock()
	defer w.pollMu.Unlock()

	w.mu.Lock()
	if resetCursor {
		w.cursor = ""
	}
	cursor := w.cursor
	driveID := ""
	if w.identity != nil {
		driveID = w.identity.DriveID
	}
	w.mu.Unlock()

	if resetCursor {
		w.forgetCursor(ctx, driveID)
	}

	logger.Section("Poll")
	logger.Debug("watcher: %s poll, cursor set=%t", trigger, cursor != "")

	result := &domain.PollResult{
		ID:        uuid.New().String(),
		Trigger:   trigger,
		StartedAt: w.now(),
	}
	next, err := w.poll(ctx, driveID, cursor, result)
	result.EndedAt = w.now()

	if err != nil {
		result.Error = err.Error()
		w.mu.Lock()
		w.cursor = ""
		w.lastError = err.Error()
		w.mu.Unlock()
		w.forgetCursor(ctx, driveID)
		logger.Error("watcher: poll failed, cursor reset: %v", err)
	} else {
		result.Success = true
		w.mu.Lock()
		w.cursor = next
		w.lastSync = result.EndedAt
		w.lastError = ""
		w.mu.Unlock()
		w.saveCursor(ctx, driveID, next, result.EndedAt)
		logger.Info("watcher: poll complete: %d ingested, %d skipped, %d failed",
			result.FilesProcessed, result.FilesSkipped, result.FilesFailed)
	}

	w.record(ctx, result)
	return result
}

// poll reads the change feed from cursor and processes each new file.
// It returns the cursor to commit. When a download fails the previous
// cursor is returned so the file is seen again on the next poll.
func (w *Watcher) poll(ctx context.Context, driveID, cursor string, result *domain.PollResult) (string, error) {
	callCtx, cancel := w.callContext(ctx)
	page, err := w.drive.ListChanges(callCtx, cursor)
	cancel()
	if err != nil {
		return "", fmt.Errorf("list changes: %w", err)
	}
	if page == nil {
		return "", fmt.Errorf("list changes: %w: no page returned", domain.ErrRemoteUnavailable)
	}

	next := page.NextCursor
	handled := 0
	for _, item := range page.Items {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !item.IsFile || item.Deleted || !domain.IsAcceptedName(item.Name) {
			continue
		}

		ingested, err := w.ingest.docs.HasBeenIngested(ctx, item.ID)
		if err != nil {
			logger.Warn("watcher: ledger check for %s failed, continuing: %v", item.Name, err)
		} else if ingested {
			result.FilesSkipped++
			continue
		}

		if handled > 0 {
			if err := w.sleep(ctx, w.cfg.FileDelay); err != nil {
				return "", err
			}
		}
		handled++

		switch w.processFile(ctx, driveID, item) {
		case outcomeIngested:
			result.FilesProcessed++
		case outcomeDuplicate:
			result.FilesSkipped++
		case outcomeDownloadFailed:
			result.FilesFailed++
			next = cursor
		case outcomeRecordFailed:
			result.FilesFailed++
		}
	}
	return next, nil
}

// processFile downloads and ingests one remote file.
func (w *Watcher) processFile(ctx context.Context, driveID string, item domain.RemoteItem) pollOutcome {
	logger.Info("watcher: processing %s", item.Name)

	callCtx, cancel := w.callContext(ctx)
	data, err := w.drive.Download(callCtx, item)
	cancel()
	if err != nil {
		logger.Error("watcher: download %s: %v", item.Name, err)
		return outcomeDownloadFailed
	}

	doc, err := w.ingest.ingestRemote(ctx, item, driveID, data)
	if errors.Is(err, domain.ErrAlreadyExists) {
		logger.Debug("watcher: %s already ingested", item.Name)
		return outcomeDuplicate
	}
	if err != nil {
		logger.Error("watcher: ingest %s: %v", item.Name, err)
		return outcomeRecordFailed
	}

	w.mu.Lock()
	w.filesProcessed++
	w.mu.Unlock()
	logger.Info("watcher: processed %s (doc %s)", item.Name, doc.ID)
	return outcomeIngested
}

// resolve resolves the drive and remembers its identity.
// A different drive than before discards the cursor.
func (w *Watcher) resolve(ctx context.Context) (domain.DriveIdentity, error) {
	identity, err := w.resolveIdentity(ctx)
	if err != nil {
		return identity, err
	}

	w.mu.Lock()
	if w.identity != nil && w.identity.DriveID != identity.DriveID {
		w.cursor = ""
	}
	w.identity = &identity
	w.mu.Unlock()
	return identity, nil
}

func (w *Watcher) resolveIdentity(ctx context.Context) (domain.DriveIdentity, error) {
	callCtx, cancel := w.callContext(ctx)
	defer cancel()

	identity, err := w.drive.Resolve(callCtx)
	if err != nil {
		if errors.Is(err, domain.ErrRemoteUnavailable) {
			return domain.DriveIdentity{}, err
		}
		return domain.DriveIdentity{}, fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}
	return identity, nil
}

// restoreCursor loads a persisted cursor when none is held.
func (w *Watcher) restoreCursor(ctx context.Context, driveID string) {
	if w.syncStore == nil {
		return
	}
	w.mu.RLock()
	held := w.cursor != ""
	w.mu.RUnlock()
	if held {
		return
	}

	state, err := w.syncStore.Get(ctx, driveID)
	if err != nil {
		logger.Warn("watcher: load cursor: %v", err)
		return
	}
	if state == nil {
		return
	}

	w.mu.Lock()
	w.cursor = state.Cursor
	if w.lastSync.IsZero() {
		w.lastSync = state.LastSync
	}
	w.mu.Unlock()
	logger.Debug("watcher: restored cursor from %s", state.LastSync.Format(time.RFC3339))
}

func (w *Watcher) saveCursor(ctx context.Context, driveID, cursor string, at time.Time) {
	if w.syncStore == nil || driveID == "" {
		return
	}
	if cursor == "" {
		w.forgetCursor(ctx, driveID)
		return
	}
	state := domain.SyncState{DriveID: driveID, Cursor: cursor, LastSync: at}
	if err := w.syncStore.Save(context.WithoutCancel(ctx), state); err != nil {
		logger.Warn("watcher: save cursor: %v", err)
	}
}

func (w *Watcher) forgetCursor(ctx context.Context, driveID string) {
	if w.syncStore == nil || driveID == "" {
		return
	}
	if err := w.syncStore.Delete(context.WithoutCancel(ctx), driveID); err != nil {
		logger.Warn("watcher: delete cursor: %v", err)
	}
}

// record stores a poll result and prunes old history.
func (w *Watcher) record(ctx context.Context, result *domain.PollResult) {
	if w.history == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := w.history.RecordPoll(ctx, result); err != nil {
		logger.Warn("watcher: record poll: %v", err)
	}
	if err := w.history.PruneHistory(ctx, historyRetention); err != nil {
		logger.Warn("watcher: prune history: %v", err)
	}
}

// callContext bounds a single remote call.
func (w *Watcher) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.cfg.CallTimeout > 0 {
		return context.WithTimeout(ctx, w.cfg.CallTimeout)
	}
	return context.WithCancel(ctx)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
