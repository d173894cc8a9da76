package reconciliation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
	"github.com/tonforge/tonforge_service/internal/infrastructure/metrics"
)

// AccountStore resolves labels to accounts
type AccountStore interface {
	GetByID(ctx context.Context, id int64) (*entities.Account, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*entities.Account, error)
}

// IntentStore resolves labels to deposit intents
type IntentStore interface {
	GetByID(ctx context.Context, id int64) (*entities.DepositIntent, error)
}

// CreditStore is the exactly-once boundary: a unique insert of the chain
// transaction plus the balance credit and intent activation, atomically.
type CreditStore interface {
	RecordCredit(ctx context.Context, ct *entities.ChainTransaction, intentID *int64) (bool, error)
}

// Distributor pays referral bonuses up the depositor's upline
type Distributor interface {
	Distribute(ctx context.Context, source *entities.Account, amount decimal.Decimal, currency entities.Currency) error
}

// Notifier is the side channel the external notification system consumes
type Notifier interface {
	DepositCredited(ctx context.Context, account *entities.Account, amount decimal.Decimal, currency entities.Currency) error
}

// SettingsStore reads the operator thresholds
type SettingsStore interface {
	Get(ctx context.Context) (*entities.Settings, error)
}

// Service matches externally observed chain transactions to internally
// issued deposit intents and credits each transaction exactly once.
type Service struct {
	accounts    AccountStore
	intents     IntentStore
	credits     CreditStore
	distributor Distributor
	notifier    Notifier
	settings    SettingsStore
	logger      *zap.Logger
}

// NewService creates a new reconciliation service
func NewService(
	accounts AccountStore,
	intents IntentStore,
	credits CreditStore,
	distributor Distributor,
	notifier Notifier,
	settings SettingsStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		accounts:    accounts,
		intents:     intents,
		credits:     credits,
		distributor: distributor,
		notifier:    notifier,
		settings:    settings,
		logger:      logger,
	}
}

// ProcessBatch reconciles one poll cycle's worth of raw transactions from
// a single chain. Order within the batch does not matter: crediting is
// keyed by tx hash, not by sequence. A storage failure on one transaction
// is logged and the transaction is retried on a later cycle, since nothing
// was recorded for it. Returns how many transactions were newly credited.
func (s *Service) ProcessBatch(ctx context.Context, chain entities.SourceChain, txs []entities.RawTransaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("load settings: %w", err)
	}
	currency := chain.Currency()

	credited := 0
	for _, tx := range txs {
		if tx.Amount.LessThan(cfg.MinDeposit) {
			continue
		}

		res, err := s.Resolve(ctx, tx.Label)
		if err != nil {
			s.logger.Error("Label resolution failed",
				zap.String("chain", string(chain)), zap.String("label", tx.Label), zap.Error(err))
			continue
		}
		if res == nil {
			// Unknown or blocked destination: skipped, never refunded.
			continue
		}

		record := &entities.ChainTransaction{
			AccountID:   res.Account.ID,
			Amount:      tx.Amount,
			Currency:    currency,
			TxHash:      tx.Hash,
			SourceChain: chain,
			Label:       tx.Label,
			Status:      entities.TransactionStatusConfirmed,
		}
		ok, err := s.credits.RecordCredit(ctx, record, res.IntentID)
		if err != nil {
			s.logger.Error("Credit failed; transaction stays eligible for retry",
				zap.String("tx_hash", tx.Hash), zap.Error(err))
			continue
		}
		if !ok {
			metrics.DuplicateTransactions.WithLabelValues(string(chain)).Inc()
			continue
		}

		credited++
		metrics.DepositsCredited.WithLabelValues(string(currency)).Inc()
		s.logger.Info("Deposit credited",
			zap.Int64("account_id", res.Account.ID),
			zap.String("tx_hash", tx.Hash),
			zap.String("currency", string(currency)),
			zap.String("amount", tx.Amount.String()))

		// The credit is durable at this point. Bonus distribution and the
		// notification run in their own units of work; a failure here is
		// logged but never rolls the credit back.
		if err := s.distributor.Distribute(ctx, res.Account, tx.Amount, currency); err != nil {
			s.logger.Error("Referral distribution failed",
				zap.Int64("account_id", res.Account.ID), zap.String("tx_hash", tx.Hash), zap.Error(err))
		}
		if err := s.notifier.DepositCredited(ctx, res.Account, tx.Amount, currency); err != nil {
			s.logger.Warn("Deposit notification failed",
				zap.Int64("account_id", res.Account.ID), zap.Error(err))
		}
	}
	return credited, nil
}
