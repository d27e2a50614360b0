package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	workerstorage "github.com/ykrishnateja01/job-portal/internal/worker/storage"
)

const reconcileBatchSize = 100

// Reconciler periodically re-applies job activations for confirmed payments
// whose jobs were never marked paid. It is a safety net behind the
// transactional write path; a healthy system finds nothing to do.
type Reconciler struct {
	logger   *slog.Logger
	storage  *workerstorage.Storage
	schedule string
	cron     *cron.Cron
}

func NewReconciler(logger *slog.Logger, storage *workerstorage.Storage, schedule string) *Reconciler {
	return &Reconciler{
		logger:   logger,
		storage:  storage,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the sweep and starts the scheduler.
func (r *Reconciler) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		r.sweep(sweepCtx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reconciliation: %w", err)
	}

	r.cron.Start()
	r.logger.Info("Reconciliation sweep scheduled",
		slog.String("schedule", r.schedule),
	)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (r *Reconciler) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Info("Reconciliation sweep stopped")
}

func (r *Reconciler) sweep(ctx context.Context) {
	pending, err := r.storage.FindUnappliedActivations(ctx, reconcileBatchSize)
	if err != nil {
		r.logger.Error("Reconciliation sweep failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if len(pending) == 0 {
		return
	}

	r.logger.Warn("Found unapplied job activations",
		slog.Int("count", len(pending)),
	)

	for _, act := range pending {
		if err := r.storage.ApplyActivation(ctx, act); err != nil {
			r.logger.Error("Failed to re-apply activation",
				slog.String("job_id", act.JobID),
				slog.String("payment_id", act.PaymentID),
				slog.String("error", err.Error()),
			)
		}
	}
}
