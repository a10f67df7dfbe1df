package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"glowbook/models"
	"glowbook/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeHolds struct {
	expired    []string
	sweeps     int
	reconciles int
	err        error
}

func (f *fakeHolds) ExpireHold(_ context.Context, bookingID string) error {
	f.expired = append(f.expired, bookingID)
	return f.err
}

func (f *fakeHolds) SweepExpiredHolds(context.Context) (int, error) {
	f.sweeps++
	return 2, f.err
}

func (f *fakeHolds) ReconcileInvoices(context.Context) (int, error) {
	f.reconciles++
	return 0, f.err
}

func TestServeMuxRoutesTasks(t *testing.T) {
	holds := &fakeHolds{}
	mux := NewServeMux(holds, zap.NewNop())
	ctx := context.Background()

	payload, err := json.Marshal(models.HoldExpiryPayload{BookingID: "b-1"})
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(ctx, asynq.NewTask(tasks.TypeHoldExpire, payload)))
	require.NoError(t, mux.ProcessTask(ctx, asynq.NewTask(tasks.TypeHoldSweep, nil)))
	require.NoError(t, mux.ProcessTask(ctx, asynq.NewTask(tasks.TypeInvoiceReconcile, nil)))

	assert.Equal(t, []string{"b-1"}, holds.expired)
	assert.Equal(t, 1, holds.sweeps)
	assert.Equal(t, 1, holds.reconciles)
}

func TestMalformedHoldTaskIsNotRetried(t *testing.T) {
	mux := NewServeMux(&fakeHolds{}, zap.NewNop())
	err := mux.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeHoldExpire, []byte(`{}`)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHoldExpiryErrorsAreRetried(t *testing.T) {
	holds := &fakeHolds{err: errors.New("mongo down")}
	mux := NewServeMux(holds, zap.NewNop())
	payload, _ := json.Marshal(models.HoldExpiryPayload{BookingID: "b-2"})
	err := mux.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeHoldExpire, payload))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
