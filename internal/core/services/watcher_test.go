package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldarchive/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// testWatcher bundles a watcher with its fakes.
type testWatcher struct {
	*testIngest
	watcher *Watcher
	drive   *fakeDrive
	sync    *memory.SyncStateStore
	history *memory.PollHistoryStore

	mu     sync.Mutex
	sleeps []time.Duration
}

func newTestWatcher(t *testing.T, cfg WatcherConfig) *testWatcher {
	t.Helper()
	tw := &testWatcher{
		testIngest: newTestIngest(nil),
		drive:      newFakeDrive(),
		sync:       memory.NewSyncStateStore(),
		history:    memory.NewPollHistoryStore(),
	}
	tw.watcher = NewWatcher(tw.drive, tw.service, tw.sync, tw.history, cfg)
	tw.watcher.sleep = func(_ context.Context, d time.Duration) error {
		tw.mu.Lock()
		tw.sleeps = append(tw.sleeps, d)
		tw.mu.Unlock()
		return nil
	}
	t.Cleanup(func() { _ = tw.watcher.Close() })
	return tw
}

func (tw *testWatcher) sleepCalls() []time.Duration {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return append([]time.Duration(nil), tw.sleeps...)
}

func (tw *testWatcher) documentCount(t *testing.T) int {
	t.Helper()
	n, err := tw.docs.CountDocuments(context.Background())
	require.NoError(t, err)
	return n
}

func TestNewWatcher_Defaults(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{})

	status := tw.watcher.Status()
	assert.Equal(t, domain.WatcherStopped, status.State)
	assert.Equal(t, 5*time.Minute, status.PollInterval)
	assert.Zero(t, status.FilesProcessed)
	assert.False(t, status.CursorSet)
}

func TestWatcher_StartFailureStaysStopped(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	tw.drive.resolveErr = errors.New("401 unauthorized")

	err := tw.watcher.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Equal(t, domain.WatcherStopped, tw.watcher.Status().State)
	assert.Empty(t, tw.drive.requestedCursors())
}

func TestWatcher_StartPollsImmediately(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	tw.drive.pages[""] = &domain.ChangePage{
		Items:      []domain.RemoteItem{fileItem("item-1", "agenda.pdf")},
		NextCursor: "c1",
	}

	require.NoError(t, tw.watcher.Start(context.Background()))
	assert.True(t, tw.watcher.Status().Running())

	require.Eventually(t, func() bool {
		return tw.watcher.Status().FilesProcessed == 1
	}, 2*time.Second, 5*time.Millisecond)

	tw.watcher.Stop()
	tw.watcher.Wait()

	status := tw.watcher.Status()
	assert.Equal(t, domain.WatcherStopped, status.State)
	assert.Equal(t, "drive-1", status.DriveID)
	assert.True(t, status.CursorSet)
	assert.False(t, status.LastSync.IsZero())
	assert.Equal(t, 1, tw.documentCount(t))
}

func TestWatcher_StartIsIdempotent(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})

	require.NoError(t, tw.watcher.Start(context.Background()))
	require.NoError(t, tw.watcher.Start(context.Background()))

	tw.drive.mu.Lock()
	calls := tw.drive.resolveCalls
	tw.drive.mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})

	tw.watcher.Stop()
	require.NoError(t, tw.watcher.Start(context.Background()))
	tw.watcher.Stop()
	tw.watcher.Stop()
	tw.watcher.Wait()

	assert.Equal(t, domain.WatcherStopped, tw.watcher.Status().State)

	require.NoError(t, tw.watcher.Start(context.Background()))
	assert.True(t, tw.watcher.Status().Running())
}

func TestWatcher_RestartPollsOnce(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	tw.drive.pages[""] = &domain.ChangePage{NextCursor: "c1"}
	tw.drive.pages["c1"] = &domain.ChangePage{NextCursor: "c1"}
	ctx := context.Background()

	require.NoError(t, tw.watcher.Start(ctx))
	require.Eventually(t, func() bool {
		return len(tw.drive.requestedCursors()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	tw.watcher.Stop()
	require.NoError(t, tw.watcher.Start(ctx))

	require.Eventually(t, func() bool {
		return len(tw.drive.requestedCursors()) == 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool {
		return len(tw.drive.requestedCursors()) > 2
	}, 100*time.Millisecond, 10*time.Millisecond)
	assert.True(t, tw.watcher.Status().Running())
}

func TestWatcher_StopDuringScheduledPoll(t *testing.T) {
	// Repeated because the stale tick and the stop signal race.
	for run := 0; run < 10; run++ {
		tw := newTestWatcher(t, WatcherConfig{PollInterval: 5 * time.Millisecond})
		entered := make(chan struct{}, 1)
		release := make(chan struct{})
		tw.drive.onList = func(call int) {
			if call == 2 {
				entered <- struct{}{}
				<-release
			}
		}

		require.NoError(t, tw.watcher.Start(context.Background()))
		select {
		case <-entered:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduled poll did not start")
		}

		tw.watcher.Stop()
		time.Sleep(20 * time.Millisecond)
		close(release)
		tw.watcher.Wait()

		assert.Len(t, tw.drive.requestedCursors(), 2, "run %d", run)
	}
}

func TestWatcher_ManualSyncWaitsForScheduledPoll(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	tw.drive.pages[""] = &domain.ChangePage{NextCursor: "c1"}
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	tw.drive.onList = func(call int) {
		if call == 1 {
			entered <- struct{}{}
			<-release
		}
	}

	require.NoError(t, tw.watcher.Start(context.Background()))
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("start poll did not begin")
	}

	done := make(chan *domain.PollResult, 1)
	go func() {
		result, err := tw.watcher.TriggerManualSync(context.Background())
		assert.NoError(t, err)
		done <- result
	}()

	assert.Never(t, func() bool {
		return len(tw.drive.requestedCursors()) > 1
	}, 100*time.Millisecond, 10*time.Millisecond)
	close(release)

	select {
	case result := <-done:
		require.NotNil(t, result)
		assert.True(t, result.Success)
	case <-time.After(2 * time.Second):
		t.Fatal("manual sync did not finish")
	}
	assert.Equal(t, []string{"", ""}, tw.drive.requestedCursors())
}

func TestWatcher_ConcurrentManualSyncsShareOnePoll(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	tw.drive.onList = func(call int) {
		if call == 1 {
			entered <- struct{}{}
			<-release
		}
	}

	results := make(chan *domain.PollResult, 2)
	trigger := func() {
		result, err := tw.watcher.TriggerManualSync(context.Background())
		assert.NoError(t, err)
		results <- result
	}

	go trigger()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("manual sync did not start")
	}
	go trigger()
	time.Sleep(50 * time.Millisecond)
	close(release)

	first, second := <-results, <-results
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, tw.drive.requestedCursors(), 1)
}

func TestWatcher_CloseCancelsManualSync(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	tw.drive.blockList = true

	done := make(chan *domain.PollResult, 1)
	go func() {
		result, err := tw.watcher.TriggerManualSync(context.WithoutCancel(context.Background()))
		assert.NoError(t, err)
		done <- result
	}()
	require.Eventually(t, func() bool {
		return len(tw.drive.requestedCursors()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, tw.watcher.Close())

	select {
	case result := <-done:
		require.NotNil(t, result)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, context.Canceled.Error())
	case <-time.After(2 * time.Second):
		t.Fatal("manual sync outlived Close")
	}
}

func TestWatcher_ManualSyncSkipsIngestedItems(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	tw.drive.pages[""] = &domain.ChangePage{
		Items: []domain.RemoteItem{
			fileItem("item-1", "a.pdf"),
			fileItem("item-2", "b.png"),
		},
		NextCursor: "c1",
	}
	ctx := context.Background()

	first, err := tw.watcher.TriggerManualSync(ctx)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.Equal(t, domain.TriggerManual, first.Trigger)
	assert.Equal(t, 2, first.FilesProcessed)

	second, err := tw.watcher.TriggerManualSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.FilesProcessed)
	assert.Equal(t, 2, second.FilesSkipped)

	assert.Equal(t, 2, tw.documentCount(t))
	assert.Equal(t, []string{"item-1", "item-2"}, tw.drive.downloaded())
	assert.Equal(t, int64(2), tw.watcher.Status().FilesProcessed)
}

func TestWatcher_ManualSyncResetsCursor(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	tw.drive.pages[""] = &domain.ChangePage{NextCursor: "c1"}
	ctx := context.Background()

	_, err := tw.watcher.TriggerManualSync(ctx)
	require.NoError(t, err)
	_, err = tw.watcher.TriggerManualSync(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"", ""}, tw.drive.requestedCursors())
}

func TestWatcher_ManualSyncResolveFailure(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	tw.drive.resolveErr = errors.New("dns failure")

	result, err := tw.watcher.TriggerManualSync(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Nil(t, result)
	assert.Empty(t, tw.drive.requestedCursors())
}

func TestWatcher_IgnoresFoldersDeletedAndUnacceptedItems(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	deleted := fileItem("item-2", "old.pdf")
	deleted.Deleted = true
	tw.drive.pages[""] = &domain.ChangePage{
		Items: []domain.RemoteItem{
			{ID: "folder-1", Name: "Reports.pdf", IsFile: false},
			deleted,
			fileItem("item-3", "notes.txt"),
			fileItem("item-4", "Budget.XLSX"),
		},
		NextCursor: "c1",
	}

	result, err := tw.watcher.TriggerManualSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesProcessed)
	assert.Zero(t, result.FilesSkipped)
	assert.Equal(t, []string{"item-4"}, tw.drive.downloaded())
}

func TestWatcher_DelayOnlyBetweenProcessedFiles(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour, FileDelay: 15 * time.Second})
	ctx := context.Background()

	_, err := tw.service.ingestRemote(ctx, fileItem("item-0", "seen.pdf"), "drive-1", []byte("x"))
	require.NoError(t, err)

	tw.drive.pages[""] = &domain.ChangePage{
		Items: []domain.RemoteItem{
			fileItem("item-0", "seen.pdf"),
			fileItem("item-1", "a.pdf"),
			fileItem("item-2", "skip.txt"),
			fileItem("item-3", "b.pdf"),
			fileItem("item-4", "c.jpg"),
		},
		NextCursor: "c1",
	}

	result, err := tw.watcher.TriggerManualSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.FilesProcessed)
	assert.Equal(t, 1, result.FilesSkipped)
	assert.Equal(t, []time.Duration{15 * time.Second, 15 * time.Second}, tw.sleepCalls())
}

func TestWatcher_PerFileIsolationKeepsCursor(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	ctx := context.Background()
	tw.drive.pages[""] = &domain.ChangePage{NextCursor: "c1"}

	_, err := tw.watcher.TriggerManualSync(ctx)
	require.NoError(t, err)

	tw.drive.set(func(d *fakeDrive) {
		d.pages["c1"] = &domain.ChangePage{
			Items: []domain.RemoteItem{
				fileItem("item-1", "broken.pdf"),
				fileItem("item-2", "fine.pdf"),
			},
			NextCursor: "c2",
		}
		d.downloadErrs["item-1"] = errors.New("connection reset")
	})

	result := tw.watcher.runPoll(ctx, domain.TriggerSchedule, false)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.FilesProcessed)
	assert.Equal(t, 1, result.FilesFailed)
	assert.Equal(t, []string{"item-1", "item-2"}, tw.drive.downloaded())

	// The failed file is listed again on the next poll.
	tw.drive.set(func(d *fakeDrive) { delete(d.downloadErrs, "item-1") })
	result = tw.watcher.runPoll(ctx, domain.TriggerSchedule, false)
	assert.Equal(t, 1, result.FilesProcessed)
	assert.Equal(t, 1, result.FilesSkipped)
	assert.Equal(t, []string{"", "c1", "c1"}, tw.drive.requestedCursors())
	assert.Equal(t, 2, tw.documentCount(t))
}

func TestWatcher_PollFailureResetsCursor(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	ctx := context.Background()
	tw.drive.pages[""] = &domain.ChangePage{NextCursor: "c1"}

	_, err := tw.watcher.TriggerManualSync(ctx)
	require.NoError(t, err)

	state, err := tw.sync.Get(ctx, "drive-1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "c1", state.Cursor)

	tw.drive.set(func(d *fakeDrive) { d.listErr = errors.New("410 resync required") })
	result := tw.watcher.runPoll(ctx, domain.TriggerSchedule, false)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "410 resync required")

	status := tw.watcher.Status()
	assert.False(t, status.CursorSet)
	assert.Contains(t, status.LastError, "410")

	state, err = tw.sync.Get(ctx, "drive-1")
	require.NoError(t, err)
	assert.Nil(t, state)

	tw.drive.set(func(d *fakeDrive) { d.listErr = nil })
	result = tw.watcher.runPoll(ctx, domain.TriggerSchedule, false)
	assert.True(t, result.Success)
	assert.Empty(t, tw.watcher.Status().LastError)
	assert.Equal(t, []string{"", "c1", ""}, tw.drive.requestedCursors())
}

func TestWatcher_CallTimeout(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour, CallTimeout: 20 * time.Millisecond})
	tw.drive.blockList = true

	result, err := tw.watcher.TriggerManualSync(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, context.DeadlineExceeded.Error())
}

func TestWatcher_RestoresPersistedCursor(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	saved := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tw.sync.Save(context.Background(), domain.SyncState{
		DriveID:  "drive-1",
		Cursor:   "persisted",
		LastSync: saved,
	}))

	require.NoError(t, tw.watcher.Start(context.Background()))
	require.Eventually(t, func() bool {
		return len(tw.drive.requestedCursors()) > 0
	}, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, tw.watcher.Close())

	assert.Equal(t, "persisted", tw.drive.requestedCursors()[0])
}

func TestWatcher_HistoryRecordsPolls(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	ctx := context.Background()

	_, err := tw.watcher.TriggerManualSync(ctx)
	require.NoError(t, err)
	tw.drive.set(func(d *fakeDrive) { d.listErr = errors.New("boom") })
	_, err = tw.watcher.TriggerManualSync(ctx)
	require.NoError(t, err)

	history, err := tw.watcher.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.False(t, history[0].Success)
	assert.True(t, history[1].Success)
	assert.NotEmpty(t, history[0].ID)
}

func TestWatcher_HistoryWithoutStore(t *testing.T) {
	w := NewWatcher(newFakeDrive(), newTestIngest(nil).service, nil, nil, WatcherConfig{})
	defer w.Close()

	history, err := w.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, history)
}

func TestWatcher_TestConnection(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})

	identity, err := tw.watcher.TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "drive-1", identity.DriveID)
	assert.Empty(t, tw.watcher.Status().DriveID)

	tw.drive.set(func(d *fakeDrive) { d.resolveErr = errors.New("forbidden") })
	_, err = tw.watcher.TestConnection(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestWatcher_CloseCancelsPoll(t *testing.T) {
	tw := newTestWatcher(t, WatcherConfig{PollInterval: time.Hour})
	tw.drive.blockList = true

	require.NoError(t, tw.watcher.Start(context.Background()))
	require.Eventually(t, func() bool {
		return len(tw.drive.requestedCursors()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		_ = tw.watcher.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
	assert.Equal(t, domain.WatcherStopped, tw.watcher.Status().State)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
