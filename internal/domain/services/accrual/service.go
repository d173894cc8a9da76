package accrual

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
	"github.com/tonforge/tonforge_service/internal/infrastructure/metrics"
)

// LockName scopes the cluster-wide run lock for this job
const LockName = "daily-yield-accrual"

// IntentLister streams active deposit intents in id order
type IntentLister interface {
	ListActiveBatch(ctx context.Context, afterID int64, limit int) ([]entities.DepositIntent, error)
}

// YieldStore commits one batch of balance credits atomically
type YieldStore interface {
	CreditYieldBatch(ctx context.Context, credits []entities.YieldCredit) error
}

// SettingsStore reads the daily percent
type SettingsStore interface {
	Get(ctx context.Context) (*entities.Settings, error)
}

// Locker is a cluster-wide, non-blocking mutual-exclusion primitive.
// Multiple process instances run the scheduler, so an in-process mutex
// would not prevent a concurrent pass.
type Locker interface {
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// Service runs the daily yield pass over all active deposits. Partial
// progress on crash is accepted: committed batches stay credited and an
// uncommitted batch is simply re-accrued on the next run.
type Service struct {
	intents   IntentLister
	store     YieldStore
	settings  SettingsStore
	locker    Locker
	batchSize int
	lockTTL   time.Duration
	logger    *zap.Logger
}

// NewService creates a new accrual service
func NewService(intents IntentLister, store YieldStore, settings SettingsStore, locker Locker, batchSize int, lockTTL time.Duration, logger *zap.Logger) *Service {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Service{
		intents:   intents,
		store:     store,
		settings:  settings,
		locker:    locker,
		batchSize: batchSize,
		lockTTL:   lockTTL,
		logger:    logger,
	}
}

// Run performs one accrual pass. Returns ErrLockUnavailable when another
// instance holds the run lock, in which case nothing is credited.
func (s *Service) Run(ctx context.Context) error {
	release, ok, err := s.locker.TryAcquire(ctx, LockName, s.lockTTL)
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return entities.ErrLockUnavailable
	}
	defer release()

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !cfg.DailyPercent.IsPositive() {
		s.logger.Info("Daily percent is not positive; skipping accrual")
		return nil
	}

	runID := uuid.NewString()
	s.logger.Info("Starting yield accrual run",
		zap.String("run_id", runID), zap.String("daily_percent", cfg.DailyPercent.String()))

	var afterID int64
	total := 0
	for {
		batch, err := s.intents.ListActiveBatch(ctx, afterID, s.batchSize)
		if err != nil {
			return fmt.Errorf("list active deposits: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		credits := make([]entities.YieldCredit, 0, len(batch))
		for _, intent := range batch {
			credits = append(credits, entities.YieldCredit{
				AccountID: intent.AccountID,
				Amount:    intent.Amount.Mul(cfg.DailyPercent),
				Currency:  intent.Currency,
			})
		}
		if err := s.store.CreditYieldBatch(ctx, credits); err != nil {
			return fmt.Errorf("commit yield batch after id %d: %w", afterID, err)
		}

		metrics.AccrualCredits.Add(float64(len(credits)))
		total += len(credits)
		afterID = batch[len(batch)-1].ID
		if len(batch) < s.batchSize {
			break
		}
	}

	metrics.AccrualRuns.Inc()
	s.logger.Info("Yield accrual run complete",
		zap.String("run_id", runID), zap.Int("deposits_credited", total))
	return nil
}
