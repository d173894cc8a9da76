package withdrawal

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
	"github.com/tonforge/tonforge_service/internal/infrastructure/metrics"
)

// AccountStore looks up the requesting account
type AccountStore interface {
	GetByID(ctx context.Context, id int64) (*entities.Account, error)
}

// RequestStore persists withdrawal requests. CreateZeroingBalance zeroes
// the chosen balance and creates the request in one transaction.
type RequestStore interface {
	Latest(ctx context.Context, accountID int64) (*entities.WithdrawalRequest, error)
	CreateZeroingBalance(ctx context.Context, accountID int64, currency entities.Currency, min decimal.Decimal) (*entities.WithdrawalRequest, error)
	MarkProcessed(ctx context.Context, id int64) error
	ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]entities.WithdrawalRequest, error)
}

// SettingsStore reads the operator thresholds
type SettingsStore interface {
	Get(ctx context.Context) (*entities.Settings, error)
}

// Notifier is the side channel the external notification system consumes
type Notifier interface {
	WithdrawalRequested(ctx context.Context, account *entities.Account, amount decimal.Decimal, currency entities.Currency) error
}

// Service is the withdrawal request state machine
type Service struct {
	accounts AccountStore
	requests RequestStore
	settings SettingsStore
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a new withdrawal service
func NewService(accounts AccountStore, requests RequestStore, settings SettingsStore, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		accounts: accounts,
		requests: requests,
		settings: settings,
		notifier: notifier,
		logger:   logger,
	}
}

// Request validates eligibility, zeroes the eligible balance and creates a
// withdrawal request awaiting external settlement. The eligible currency
// is whichever balance meets the minimum, native checked first. An
// unprocessed prior request blocks a new one until an operator settles it;
// a processed request never blocks, regardless of elapsed time.
func (s *Service) Request(ctx context.Context, accountID int64) (*entities.WithdrawalRequest, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrNotRegistered
	}
	if account.Blocked {
		return nil, entities.ErrAccountBlocked
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var currency entities.Currency
	switch {
	case account.BalanceTON.GreaterThanOrEqual(cfg.MinWithdraw):
		currency = entities.CurrencyTON
	case account.BalanceUSDT.GreaterThanOrEqual(cfg.MinWithdraw):
		currency = entities.CurrencyUSDT
	default:
		return nil, entities.ErrBelowMinimum
	}

	latest, err := s.requests.Latest(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load latest request: %w", err)
	}
	if latest != nil && !latest.Processed {
		s.logger.Info("Withdrawal rejected: prior request still pending",
			zap.Int64("account_id", accountID),
			zap.Int64("pending_request_id", latest.ID),
			zap.Int("cooldown_hours", cfg.WithdrawDelayHours))
		return nil, entities.ErrWithdrawalPending
	}

	req, err := s.requests.CreateZeroingBalance(ctx, accountID, currency, cfg.MinWithdraw)
	if err != nil {
		return nil, err
	}

	metrics.WithdrawalRequests.WithLabelValues(string(currency)).Inc()
	s.logger.Info("Withdrawal request created",
		zap.Int64("account_id", accountID),
		zap.Int64("request_id", req.ID),
		zap.String("currency", string(currency)),
		zap.String("amount", req.Amount.String()))

	if err := s.notifier.WithdrawalRequested(ctx, account, req.Amount, currency); err != nil {
		s.logger.Warn("Withdrawal notification failed",
			zap.Int64("account_id", accountID), zap.Error(err))
	}
	return req, nil
}

// MarkProcessed records external settlement of a request
func (s *Service) MarkProcessed(ctx context.Context, requestID int64) error {
	return s.requests.MarkProcessed(ctx, requestID)
}

// History returns an account's withdrawal requests, newest first
func (s *Service) History(ctx context.Context, accountID int64, limit, offset int) ([]entities.WithdrawalRequest, error) {
	return s.requests.ListByAccount(ctx, accountID, limit, offset)
}
