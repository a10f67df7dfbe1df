package cron

import (
	"context"
	"fmt"

	"glowbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// HoldManager is the slice of the booking service the worker drives.
type HoldManager interface {
	ExpireHold(ctx context.Context, bookingID string) error
	SweepExpiredHolds(ctx context.Context) (int, error)
	ReconcileInvoices(ctx context.Context) (int, error)
}

// Worker runs the asynq server for reservation holds plus the scheduler that
// enqueues the periodic sweeps.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	logger    *zap.Logger
}

// NewServeMux routes every background task type to the booking service.
func NewServeMux(holds HoldManager, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeHoldExpire, handleHoldExpire(holds, logger))
	mux.HandleFunc(tasks.TypeHoldSweep, func(ctx context.Context, _ *asynq.Task) error {
		n, err := holds.SweepExpiredHolds(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("Released expired holds", zap.Int("count", n))
		}
		return nil
	})
	mux.HandleFunc(tasks.TypeInvoiceReconcile, func(ctx context.Context, _ *asynq.Task) error {
		n, err := holds.ReconcileInvoices(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("Issued missing invoices", zap.Int("count", n))
		}
		return nil
	})
	return mux
}

func handleHoldExpire(holds HoldManager, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseHoldExpiryPayload(task)
		if err != nil {
			logger.Error("Dropping malformed hold expiry task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := holds.ExpireHold(ctx, p.BookingID); err != nil {
			logger.Warn("Hold expiry failed", zap.String("booking", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

// NewWorker builds the server and registers the periodic sweeps under
// cronspec (e.g. "@every 5m").
func NewWorker(redisOpt asynq.RedisClientOpt, holds HoldManager, cronspec string, logger *zap.Logger) (*Worker, error) {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	scheduler := asynq.NewScheduler(redisOpt, nil)
	for _, typ := range []string{tasks.TypeHoldSweep, tasks.TypeInvoiceReconcile} {
		if _, err := scheduler.Register(cronspec, asynq.NewTask(typ, nil)); err != nil {
			return nil, fmt.Errorf("register %s: %w", typ, err)
		}
	}

	return &Worker{
		server:    srv,
		scheduler: scheduler,
		mux:       NewServeMux(holds, logger),
		logger:    logger,
	}, nil
}

// Start runs the worker and the scheduler in the background.
func (w *Worker) Start() error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start task server: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("start task scheduler: %w", err)
	}
	w.logger.Info("Background worker started")
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
	w.logger.Info("Background worker stopped")
}
