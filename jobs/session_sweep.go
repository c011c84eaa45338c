package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/inkwell-press/inkwell/internal/auth"
)

// SessionSweepJob removes expired session audit rows from Postgres.
// Live session state lives in Redis with its own TTL; this job only
// keeps the relational mirror from growing unbounded.
type SessionSweepJob struct {
	service *auth.Service
	logger  *slog.Logger
	now     func() time.Time
}

// NewSessionSweepJob constructs a SessionSweepJob.
func NewSessionSweepJob(service *auth.Service, logger *slog.Logger) *SessionSweepJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionSweepJob{service: service, logger: logger, now: time.Now}
}

// Handle processes TaskTypeSessionSweep tasks.
func (j *SessionSweepJob) Handle(ctx context.Context, _ *asynq.Task) error {
	purged, err := j.service.PurgeExpiredSessions(ctx, j.now())
	if err != nil {
		j.logger.Error("session sweep", slog.Any("error", err))
		return err
	}
	if purged > 0 {
		j.logger.Info("session sweep", slog.Int64("purged", purged))
	}
	return nil
}
