package yield_accrual

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// Runner performs one accrual pass under the cluster-wide run lock
type Runner interface {
	Run(ctx context.Context) error
}

// Worker schedules the daily yield accrual. Every instance in the
// cluster runs the schedule; the run lock inside the accrual service
// decides which one actually performs the pass.
type Worker struct {
	runner   Runner
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewWorker creates a new yield accrual worker
func NewWorker(runner Runner, schedule string, logger *zap.Logger) *Worker {
	return &Worker{
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start registers the schedule and starts the cron loop
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, w.runOnce)
	if err != nil {
		return fmt.Errorf("invalid accrual schedule %q: %w", w.schedule, err)
	}

	w.cron.Start()
	w.logger.Info("Yield accrual worker started", zap.String("schedule", w.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish
func (w *Worker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("Yield accrual worker stopped")
}

func (w *Worker) runOnce() {
	err := w.runner.Run(context.Background())
	switch {
	case err == nil:
	case errors.Is(err, entities.ErrLockUnavailable):
		w.logger.Info("Accrual pass skipped: another instance holds the run lock")
	default:
		w.logger.Error("Accrual pass failed", zap.Error(err))
	}
}
