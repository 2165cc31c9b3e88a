package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditDenial records an authorization denial in the audit trail.
	TaskAuditDenial = "audit:denial"
	// TaskAuditRetention is the scheduled purge of expired audit records.
	TaskAuditRetention = "audit:retention_sweep"
)

// AuditDenialPayload describes one denied authorization decision.
type AuditDenialPayload struct {
	EventID    string    `json:"event_id"`
	ActorID    int64     `json:"actor_id"`
	Route      string    `json:"route"`
	Kind       string    `json:"kind"`
	Reason     string    `json:"reason"`
	Resource   string    `json:"resource,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAuditDenialTask constructs an Asynq task for a denial event.
func NewAuditDenialTask(payload AuditDenialPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditDenial, data, asynq.Queue(QueueDefault)), nil
}

// NewAuditRetentionTask constructs the periodic purge task.
func NewAuditRetentionTask() *asynq.Task {
	return asynq.NewTask(TaskAuditRetention, nil, asynq.Queue(QueueDefault))
}
