package repository

import (
	"context"

	"fastinfo/internal/domain/entity"
)

// RunLogRepository records crawl run lifecycles. A run is created in
// the running state and finalized exactly once via Complete or Fail.
type RunLogRepository interface {
	// Start inserts a new running entry and returns its ID.
	Start(ctx context.Context, log *entity.RunLog) (int64, error)
	// Complete finalizes a run with its counters and per-source stats.
	Complete(ctx context.Context, log *entity.RunLog) error
	// Fail finalizes a run with an error message. Partial counters
	// gathered before the failure are still recorded.
	Fail(ctx context.Context, log *entity.RunLog) error
	// ListRecent returns the latest runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]*entity.RunLog, error)
}
