package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RetentionJob purges audit records older than the retention window.
type RetentionJob struct {
	Pool      *pgxpool.Pool
	Logger    *slog.Logger
	Retention time.Duration
	clock     func() time.Time
}

// NewRetentionJob initialises the purge handler. Retention defaults to 180
// days when unset.
func NewRetentionJob(pool *pgxpool.Pool, logger *slog.Logger, retention time.Duration) *RetentionJob {
	if retention <= 0 {
		retention = 180 * 24 * time.Hour
	}
	return &RetentionJob{
		Pool:      pool,
		Logger:    logger,
		Retention: retention,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes the purge.
func (j *RetentionJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("audit retention: handler not configured")
	}
	cutoff := j.clock().Add(-j.Retention)
	tag, err := j.Pool.Exec(ctx, `DELETE FROM audit_logs WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("audit retention sweep",
			slog.Int64("deleted", tag.RowsAffected()),
			slog.Time("cutoff", cutoff))
	}
	return nil
}
