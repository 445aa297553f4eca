package mysql

import (
	"context"
	"database/sql"
	"time"

	"vendor_insight/internal/domain"
)

// RunLog persists pipeline run audit records.
type RunLog struct{ db *sql.DB }

func New(db *sql.DB) *RunLog { return &RunLog{db: db} }

func (l *RunLog) Record(ctx context.Context, e domain.RunEntry) error {
	_, err := l.db.ExecContext(ctx, insertRunSQL,
		e.ID,
		e.Reprocessed,
		e.Rows,
		e.Duration.Milliseconds(),
		e.Outcome,
		e.StartedAt,
	)
	return err
}

func (l *RunLog) ListRecent(ctx context.Context, limit int) ([]domain.RunEntry, error) {
	rows, err := l.db.QueryContext(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RunEntry
	for rows.Next() {
		var e domain.RunEntry
		var durMS int64
		var started sql.NullTime
		if err := rows.Scan(&e.ID, &e.Reprocessed, &e.Rows, &durMS, &e.Outcome, &started); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(durMS) * time.Millisecond
		if started.Valid {
			e.StartedAt = started.Time
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
