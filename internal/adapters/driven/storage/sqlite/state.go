package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

// ==================== Sync State Store ====================

// syncStateStore implements driven.SyncStateStore.
type syncStateStore struct {
	store *Store
}

var _ driven.SyncStateStore = (*syncStateStore)(nil)

// Save stores or updates sync state.
func (s *syncStateStore) Save(ctx context.Context, state domain.SyncState) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_states (drive_id, cursor, last_sync)
		VALUES (?, ?, ?)
		ON CONFLICT(drive_id) DO UPDATE SET
			cursor = excluded.cursor,
			last_sync = excluded.last_sync
	`, state.DriveID, state.Cursor, formatNullableTime(state.LastSync))

	if err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}
	return nil
}

// Get retrieves sync state for a drive.
// Returns nil and no error if nothing is stored.
func (s *syncStateStore) Get(ctx context.Context, driveID string) (*domain.SyncState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT drive_id, cursor, last_sync
		FROM sync_states WHERE drive_id = ?
	`, driveID)

	var state domain.SyncState
	var lastSync sql.NullString
	if err := row.Scan(&state.DriveID, &state.Cursor, &lastSync); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning sync state: %w", err)
	}
	state.LastSync = parseNullableTime(lastSync)

	return &state, nil
}

// Delete removes sync state for a drive.
func (s *syncStateStore) Delete(ctx context.Context, driveID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sync_states WHERE drive_id = ?", driveID)
	if err != nil {
		return fmt.Errorf("deleting sync state: %w", err)
	}
	return nil
}

// ==================== Poll History Store ====================

// pollHistoryStore implements driven.PollHistoryStore.
type pollHistoryStore struct {
	store *Store
}

var _ driven.PollHistoryStore = (*pollHistoryStore)(nil)

// RecordPoll logs a poll result.
func (s *pollHistoryStore) RecordPoll(ctx context.Context, result *domain.PollResult) error {
	if result == nil || result.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO poll_history
			(id, trigger_name, started_at, ended_at, success, error, files_processed, files_skipped, files_failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.ID, result.Trigger,
		formatTime(result.StartedAt),
		formatTime(result.EndedAt),
		boolToInt(result.Success),
		nullString(result.Error),
		result.FilesProcessed, result.FilesSkipped, result.FilesFailed)

	if err != nil {
		return fmt.Errorf("recording poll result: %w", err)
	}
	return nil
}

// ListPolls returns recent results ordered by start time descending.
func (s *pollHistoryStore) ListPolls(ctx context.Context, limit int) ([]domain.PollResult, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, trigger_name, started_at, ended_at, success, error, files_processed, files_skipped, files_failed
		FROM poll_history
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying poll history: %w", err)
	}
	defer rows.Close()

	var results []domain.PollResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.PollResult
		var startedAt, endedAt string
		var success int
		var errMsg sql.NullString

		if err := rows.Scan(&r.ID, &r.Trigger, &startedAt, &endedAt, &success, &errMsg,
			&r.FilesProcessed, &r.FilesSkipped, &r.FilesFailed); err != nil {
			return nil, fmt.Errorf("scanning poll result: %w", err)
		}
		r.StartedAt = parseNullableTime(sql.NullString{String: startedAt, Valid: true})
		r.EndedAt = parseNullableTime(sql.NullString{String: endedAt, Valid: true})
		r.Success = success == 1
		r.Error = errMsg.String
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating poll history: %w", err)
	}

	return results, nil
}

// PruneHistory keeps the most recent 'keep' results.
func (s *pollHistoryStore) PruneHistory(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM poll_history
		WHERE id NOT IN (
			SELECT id FROM poll_history ORDER BY started_at DESC LIMIT ?
		)
	`, max(keep, 0))
	if err != nil {
		return fmt.Errorf("pruning poll history: %w", err)
	}
	return nil
}
