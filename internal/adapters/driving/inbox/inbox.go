// Package inbox ingests files dropped into a local folder.
//
// Files with an accepted extension are ingested as manual uploads once they
// have stopped changing, then moved into the .ingested/ subfolder. Files that
// fail to record are moved into .failed/ so they are not retried forever.
// Hidden files and unaccepted extensions are left untouched.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driving"
	"github.com/custodia-labs/fieldarchive/internal/logger"
)

// Subfolders that receive handled files.
const (
	IngestedDir = ".ingested"
	FailedDir   = ".failed"
)

// Defaults used when Config leaves a value unset.
const (
	DefaultSettle       = 2 * time.Second
	DefaultScanInterval = time.Second
)

// Config configures the inbox.
type Config struct {
	// Dir is the watched folder. It is created if missing.
	Dir string

	// Settle is how long a file must be unchanged before it is ingested.
	Settle time.Duration

	// ScanInterval is how often pending files are checked.
	ScanInterval time.Duration
}

// pendingFile is a queued file as it was last seen.
type pendingFile struct {
	changed time.Time
	size    int64
	modTime time.Time
}

// Inbox watches a folder and ingests files placed in it.
type Inbox struct {
	ingest    driving.IngestService
	cfg       Config
	fsWatcher *fsnotify.Watcher

	pendingMu sync.Mutex
	pending   map[string]pendingFile

	now    func() time.Time
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an inbox for cfg.Dir, creating the folder and its subfolders.
func New(ingest driving.IngestService, cfg Config) (*Inbox, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("inbox: %w: directory is required", domain.ErrInvalidInput)
	}
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = DefaultScanInterval
	}

	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("inbox: resolve %s: %w", cfg.Dir, err)
	}
	cfg.Dir = dir

	for _, sub := range []string{IngestedDir, FailedDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o700); err != nil {
			return nil, fmt.Errorf("inbox: create %s: %w", sub, err)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("inbox: %w", err)
	}

	return &Inbox{
		ingest:    ingest,
		cfg:       cfg,
		fsWatcher: fsWatcher,
		pending:   make(map[string]pendingFile),
		now:       time.Now,
	}, nil
}

// Dir returns the absolute path of the watched folder.
func (i *Inbox) Dir() string {
	return i.cfg.Dir
}

// Start watches the folder and queues any files already present.
// Ingestion runs until ctx is cancelled or Close is called.
func (i *Inbox) Start(ctx context.Context) error {
	if err := i.fsWatcher.Add(i.cfg.Dir); err != nil {
		return fmt.Errorf("inbox: watch %s: %w", i.cfg.Dir, err)
	}

	entries, err := os.ReadDir(i.cfg.Dir)
	if err != nil {
		return fmt.Errorf("inbox: scan %s: %w", i.cfg.Dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			i.track(filepath.Join(i.cfg.Dir, entry.Name()))
		}
	}

	ctx, i.cancel = context.WithCancel(ctx)
	i.wg.Add(2)
	go i.eventLoop(ctx)
	go i.settleLoop(ctx)

	logger.Info("inbox: watching %s", i.cfg.Dir)
	return nil
}

// Close stops watching and waits for an ingestion in progress to finish.
// A file being ingested when Close is called is still recorded and moved.
func (i *Inbox) Close() error {
	if i.cancel != nil {
		i.cancel()
	}
	i.wg.Wait()
	return i.fsWatcher.Close()
}

// track queues path if it is a candidate for ingestion.
func (i *Inbox) track(path string) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || filepath.Dir(path) != i.cfg.Dir {
		return
	}
	if !domain.IsAcceptedName(name) {
		logger.Debug("inbox: ignoring %s", name)
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	i.pendingMu.Lock()
	i.pending[path] = pendingFile{changed: i.now(), size: info.Size(), modTime: info.ModTime()}
	i.pendingMu.Unlock()
}

func (i *Inbox) eventLoop(ctx context.Context) {
	defer i.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-i.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			i.track(event.Name)

		case err, ok := <-i.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Warn("inbox: %v", err)
		}
	}
}

func (i *Inbox) settleLoop(ctx context.Context) {
	defer i.wg.Done()

	ticker := time.NewTicker(i.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, path := range i.stable(i.now()) {
				if ctx.Err() != nil {
					return
				}
				i.process(ctx, path)
			}
		}
	}
}

// stable removes and returns the pending files whose size and modification
// time have not changed for Settle. Files that changed are re-armed; files
// that disappeared are dropped.
func (i *Inbox) stable(now time.Time) []string {
	threshold := now.Add(-i.cfg.Settle)

	i.pendingMu.Lock()
	defer i.pendingMu.Unlock()

	var paths []string
	for path, p := range i.pending {
		if p.changed.After(threshold) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			delete(i.pending, path)
			continue
		}
		if info.Size() != p.size || !info.ModTime().Equal(p.modTime) {
			i.pending[path] = pendingFile{changed: now, size: info.Size(), modTime: info.ModTime()}
			continue
		}
		paths = append(paths, path)
		delete(i.pending, path)
	}
	return paths
}

// process ingests one settled file and moves it out of the inbox.
func (i *Inbox) process(ctx context.Context, path string) {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("inbox: read %s: %v", name, err)
		}
		return
	}

	doc, err := i.ingest.IngestUploadedFile(context.WithoutCancel(ctx), name, data)
	if err != nil {
		logger.Warn("inbox: ingest %s: %v", name, err)
		i.move(path, FailedDir)
		return
	}

	logger.Info("inbox: ingested %s as %s", name, doc.ID)
	i.move(path, IngestedDir)
}

// move renames path into sub, prefixing a timestamp when the name is taken.
func (i *Inbox) move(path, sub string) {
	name := filepath.Base(path)
	dest := filepath.Join(i.cfg.Dir, sub, name)
	if _, err := os.Stat(dest); err == nil {
		dest = filepath.Join(i.cfg.Dir, sub, i.now().Format("20060102T150405.000")+"-"+name)
	}
	if err := os.Rename(path, dest); err != nil {
		logger.Warn("inbox: move %s to %s: %v", name, sub, err)
	}
}
