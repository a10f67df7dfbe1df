package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"glowbook/models"

	"github.com/hibiken/asynq"
)

const (
	TypeHoldExpire       = "hold:expire"
	TypeHoldSweep        = "holds:sweep"
	TypeInvoiceReconcile = "invoices:reconcile"
)

// NewHoldExpiryTask builds the task that releases a booking's hold at fireAt.
func NewHoldExpiryTask(bookingID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.HoldExpiryPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeHoldExpire, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("hold-expire:" + bookingID),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

// ParseHoldExpiryPayload decodes a hold:expire payload.
func ParseHoldExpiryPayload(task *asynq.Task) (models.HoldExpiryPayload, error) {
	var p models.HoldExpiryPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid hold expiry payload: %w", err)
	}
	if p.BookingID == "" {
		return p, errors.New("hold expiry payload without booking id")
	}
	return p, nil
}

// AsynqHoldScheduler enqueues hold expiries on the asynq queue.
type AsynqHoldScheduler struct {
	client *asynq.Client
}

func NewAsynqHoldScheduler(client *asynq.Client) *AsynqHoldScheduler {
	return &AsynqHoldScheduler{client: client}
}

func (s *AsynqHoldScheduler) ScheduleHoldExpiry(ctx context.Context, bookingID string, at time.Time) error {
	task, opts, err := NewHoldExpiryTask(bookingID, at)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue hold expiry for %s: %w", bookingID, err)
	}
	return nil
}
