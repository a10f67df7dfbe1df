package tasks

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldExpiryTaskRoundTrip(t *testing.T) {
	task, opts, err := NewHoldExpiryTask("b-1", time.Now().Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, TypeHoldExpire, task.Type())
	assert.Len(t, opts, 3)

	p, err := ParseHoldExpiryPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "b-1", p.BookingID)
}

func TestParseHoldExpiryPayloadRejectsEmpty(t *testing.T) {
	_, err := ParseHoldExpiryPayload(asynq.NewTask(TypeHoldExpire, []byte(`{}`)))
	assert.Error(t, err)

	_, err = ParseHoldExpiryPayload(asynq.NewTask(TypeHoldExpire, []byte(`not json`)))
	assert.Error(t, err)
}
