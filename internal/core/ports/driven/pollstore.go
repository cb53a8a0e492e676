package driven

import (
	"context"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// PollHistoryStore records the outcome of watcher polls.
type PollHistoryStore interface {
	// RecordPoll logs a poll result.
	RecordPoll(ctx context.Context, result *domain.PollResult) error

	// ListPolls returns recent results, most recent first.
	ListPolls(ctx context.Context, limit int) ([]domain.PollResult, error)

	// PruneHistory keeps the most recent 'keep' results.
	PruneHistory(ctx context.Context, keep int) error
}
