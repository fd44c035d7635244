package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terojleinonen/cms-admin/internal/audit"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAuditRecord persists an audit trail entry.
	TaskTypeAuditRecord = "audit:record"
	// TaskTypeSessionSweep removes expired session metadata rows.
	TaskTypeSessionSweep = "sessions:sweep"
)

// NewAuditRecordTask wraps an audit entry in an Asynq task.
func NewAuditRecordTask(entry audit.Entry) (*asynq.Task, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuditRecord, data, asynq.Queue(QueueDefault)), nil
}

// NewSessionSweepTask builds the periodic sweep task.
func NewSessionSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTypeSessionSweep, nil, asynq.Queue(QueueDefault))
}

// Processor holds the dependencies task handlers need.
type Processor struct {
	Recorder *audit.Recorder
	Pool     *pgxpool.Pool
	Logger   *slog.Logger
}

// HandleAuditRecord consumes TaskTypeAuditRecord tasks.
func (p *Processor) HandleAuditRecord(ctx context.Context, t *asynq.Task) error {
	var entry audit.Entry
	if err := json.Unmarshal(t.Payload(), &entry); err != nil {
		return asynq.SkipRetry
	}
	if err := p.Recorder.Record(ctx, entry); err != nil {
		if p.Logger != nil {
			p.Logger.Error("record audit entry", slog.Any("error", err))
		}
		return err
	}
	return nil
}

// HandleSessionSweep deletes expired rows from user_sessions. Live
// session state expires in Redis on its own; this keeps the metadata
// table from growing unbounded.
func (p *Processor) HandleSessionSweep(ctx context.Context, t *asynq.Task) error {
	tag, err := p.Pool.Exec(ctx, `DELETE FROM user_sessions WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		return err
	}
	if p.Logger != nil && tag.RowsAffected() > 0 {
		p.Logger.Info("swept expired sessions", slog.Int64("count", tag.RowsAffected()))
	}
	return nil
}
