package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/maturis/maturis/internal/authz"
	"github.com/maturis/maturis/internal/shared"
)

// AuditTrailJob persists denied authorization decisions into audit_logs.
type AuditTrailJob struct {
	Audit  *shared.AuditLogger
	Logger *slog.Logger
}

// NewAuditTrailJob initialises the audit trail handler.
func NewAuditTrailJob(audit *shared.AuditLogger, logger *slog.Logger) *AuditTrailJob {
	return &AuditTrailJob{Audit: audit, Logger: logger}
}

// Handle executes the audit write.
func (j *AuditTrailJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Audit == nil {
		return errors.New("audit trail: handler not configured")
	}
	var payload AuditDenialPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	err := j.Audit.Record(ctx, shared.AuditLog{
		ActorID:  payload.ActorID,
		Action:   "authz.deny." + payload.Kind,
		Entity:   "route",
		EntityID: payload.Route,
		Meta: map[string]any{
			"event_id": payload.EventID,
			"reason":   payload.Reason,
			"resource": payload.Resource,
		},
		At: payload.OccurredAt,
	})
	if err != nil && j.Logger != nil {
		j.Logger.Error("audit trail write", slog.Any("error", err))
	}
	return err
}

// DenialRecorder enqueues an audit task for every denied decision. It
// implements the authorization observer and never blocks the request path
// beyond the enqueue call.
type DenialRecorder struct {
	Client *asynq.Client
	Logger *slog.Logger
}

// ObserveDecision implements authz.Observer.
func (r *DenialRecorder) ObserveDecision(ctx context.Context, req *authz.Request, d authz.Decision) {
	if r == nil || r.Client == nil || d.Allowed {
		return
	}
	task, err := NewAuditDenialTask(AuditDenialPayload{
		EventID:    uuid.NewString(),
		ActorID:    req.Actor.ID,
		Route:      req.RoutePath,
		Kind:       d.Kind.String(),
		Reason:     d.Reason,
		Resource:   string(req.Resource),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if _, err := r.Client.EnqueueContext(ctx, task); err != nil && r.Logger != nil {
		r.Logger.Warn("enqueue denial audit", slog.Any("error", err))
	}
}

var _ authz.Observer = (*DenialRecorder)(nil)
