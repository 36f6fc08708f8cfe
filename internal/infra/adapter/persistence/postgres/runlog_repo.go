package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/repository"
)

type RunLogRepo struct {
	db DB
}

func NewRunLogRepo(db DB) repository.RunLogRepository {
	return &RunLogRepo{db: db}
}

func (repo *RunLogRepo) Start(ctx context.Context, log *entity.RunLog) (int64, error) {
	const query = `
INSERT INTO crawler_logs (started_at, status)
VALUES ($1, $2)
RETURNING id`

	var id int64
	err := repo.db.QueryRowContext(ctx, query, log.StartedAt, string(entity.RunStatusRunning)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Start: %w", err)
	}
	return id, nil
}

func (repo *RunLogRepo) Complete(ctx context.Context, log *entity.RunLog) error {
	return repo.finalize(ctx, log, entity.RunStatusCompleted)
}

func (repo *RunLogRepo) Fail(ctx context.Context, log *entity.RunLog) error {
	return repo.finalize(ctx, log, entity.RunStatusFailed)
}

func (repo *RunLogRepo) finalize(ctx context.Context, log *entity.RunLog, status entity.RunStatus) error {
	const query = `
UPDATE crawler_logs
SET finished_at = $2,
	duration_ms = $3,
	total_count = $4,
	new_count = $5,
	source_stats = $6,
	status = $7,
	error_message = $8
WHERE id = $1 AND status = 'running'`

	stats, err := json.Marshal(log.SourceStats)
	if err != nil {
		return fmt.Errorf("finalize: marshal source stats: %w", err)
	}

	res, err := repo.db.ExecContext(ctx, query,
		log.ID,
		log.FinishedAt,
		log.DurationMS,
		log.TotalCount,
		log.NewCount,
		stats,
		string(status),
		nullString(log.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finalize: RowsAffected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finalize: run log %d not found or already finalized", log.ID)
	}
	return nil
}

func (repo *RunLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.RunLog, error) {
	const query = `
SELECT id, started_at, finished_at, duration_ms, total_count, new_count,
	source_stats, status, error_message
FROM crawler_logs
ORDER BY started_at DESC
LIMIT $1`

	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	logs := make([]*entity.RunLog, 0, limit)
	for rows.Next() {
		var (
			log      entity.RunLog
			duration sql.NullInt64
			total    sql.NullInt64
			newCount sql.NullInt64
			stats    []byte
			status   string
			errMsg   sql.NullString
		)
		if err := rows.Scan(&log.ID, &log.StartedAt, &log.FinishedAt,
			&duration, &total, &newCount, &stats, &status, &errMsg); err != nil {
			return nil, fmt.Errorf("ListRecent: Scan: %w", err)
		}
		log.DurationMS = duration.Int64
		log.TotalCount = int(total.Int64)
		log.NewCount = int(newCount.Int64)
		log.Status = entity.RunStatus(status)
		log.ErrorMessage = errMsg.String
		if len(stats) > 0 {
			if err := json.Unmarshal(stats, &log.SourceStats); err != nil {
				return nil, fmt.Errorf("ListRecent: unmarshal source stats: %w", err)
			}
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}
