package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maturis/maturis/internal/shared"
	_ "github.com/maturis/maturis/testing"
)

func TestNewAuditDenialTask(t *testing.T) {
	payload := AuditDenialPayload{
		EventID:    "evt-1",
		ActorID:    3,
		Route:      "/api/v1/analyses/",
		Kind:       "scope_violation",
		Reason:     "personal scope has no access to analyses",
		Resource:   "analyse",
		OccurredAt: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}

	task, err := NewAuditDenialTask(payload)
	require.NoError(t, err)
	assert.Equal(t, TaskAuditDenial, task.Type())

	var decoded AuditDenialPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewAuditRetentionTask(t *testing.T) {
	task := NewAuditRetentionTask()
	assert.Equal(t, TaskAuditRetention, task.Type())
	assert.Empty(t, task.Payload())
}

func TestAuditTrailJobUnconfigured(t *testing.T) {
	job := NewAuditTrailJob(nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskAuditDenial, []byte("{}")))
	assert.Error(t, err)
}

func TestAuditTrailJobSkipsRetryOnBadJSON(t *testing.T) {
	// A payload that can never unmarshal must not be retried forever.
	job := NewAuditTrailJob(shared.NewAuditLogger(nil), nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskAuditDenial, []byte("not json")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestRetentionJobDefaultWindow(t *testing.T) {
	job := NewRetentionJob(nil, nil, 0)
	assert.Equal(t, 180*24*time.Hour, job.Retention)

	job = NewRetentionJob(nil, nil, 30*24*time.Hour)
	assert.Equal(t, 30*24*time.Hour, job.Retention)
}

func TestRetentionJobUnconfigured(t *testing.T) {
	var job *RetentionJob
	assert.Error(t, job.Handle(context.Background(), NewAuditRetentionTask()))
}
