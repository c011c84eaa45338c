package jobs_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/jobs"
)

func TestNewSendEmailTask(t *testing.T) {
	task, err := jobs.NewSendEmailTask(jobs.SendEmailPayload{
		To:      "reader@example.com",
		Subject: "Verify your Inkwell account",
		Body:    "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskTypeSendEmail, task.Type())

	var payload jobs.SendEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "reader@example.com", payload.To)
}

func TestHandleSendEmailTaskBadPayload(t *testing.T) {
	task := asynq.NewTask(jobs.TaskTypeSendEmail, []byte("not json"))
	err := jobs.HandleSendEmailTask(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestNewSessionSweepTask(t *testing.T) {
	task := jobs.NewSessionSweepTask()
	assert.Equal(t, jobs.TaskTypeSessionSweep, task.Type())
	assert.Empty(t, task.Payload())
}
