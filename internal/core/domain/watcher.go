package domain

import "time"

// WatcherState is the lifecycle state of the delta-sync watcher.
type WatcherState string

// Watcher states.
const (
	WatcherStopped WatcherState = "stopped"
	WatcherRunning WatcherState = "running"
)

// WatcherStatus is a point-in-time snapshot of the watcher.
type WatcherStatus struct {
	// State is Stopped or Running.
	State WatcherState

	// LastSync is when the last successful poll completed. Zero if never.
	LastSync time.Time

	// FilesProcessed counts files ingested since process start.
	FilesProcessed int64

	// DriveID is the resolved drive, empty until first resolution.
	DriveID string

	// PollInterval is the time between scheduled polls.
	PollInterval time.Duration

	// CursorSet reports whether the watcher holds a continuation cursor.
	CursorSet bool

	// LastError is the last poll failure, empty after a successful poll.
	LastError string
}

// Running reports whether the watcher is polling.
func (s WatcherStatus) Running() bool {
	return s.State == WatcherRunning
}

// PollResult represents the outcome of a single poll.
type PollResult struct {
	// ID is the unique identifier for the result.
	ID string

	// Trigger is "schedule", "start" or "manual".
	Trigger string

	// StartedAt is when the poll started.
	StartedAt time.Time

	// EndedAt is when the poll completed.
	EndedAt time.Time

	// Success indicates whether the change feed was read without error.
	Success bool

	// Error contains the error message if Success is false.
	Error string

	// FilesProcessed counts files ingested in this poll.
	FilesProcessed int

	// FilesSkipped counts files already present in the ledger.
	FilesSkipped int

	// FilesFailed counts files whose download or record failed.
	FilesFailed int
}

// Poll triggers.
const (
	TriggerSchedule = "schedule"
	TriggerStart    = "start"
	TriggerManual   = "manual"
)
