package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/terojleinonen/cms-admin/internal/audit"
)

// Enqueuer submits background tasks from request handlers. Enqueue
// failures are logged and swallowed: audit trail gaps must never fail
// the request that triggered them.
type Enqueuer struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewEnqueuer constructs an Enqueuer.
func NewEnqueuer(client *asynq.Client, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{client: client, logger: logger}
}

// RecordAudit queues an audit entry for the worker to persist.
func (e *Enqueuer) RecordAudit(ctx context.Context, entry audit.Entry) {
	if e == nil || e.client == nil {
		return
	}
	task, err := NewAuditRecordTask(entry)
	if err != nil {
		if e.logger != nil {
			e.logger.Error("build audit task", slog.Any("error", err))
		}
		return
	}
	if _, err := e.client.EnqueueContext(ctx, task); err != nil && e.logger != nil {
		e.logger.Error("enqueue audit task", slog.Any("error", err))
	}
}
