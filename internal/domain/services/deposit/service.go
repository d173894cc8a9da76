package deposit

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// IntentStore is the persistence the intent ledger needs
type IntentStore interface {
	Create(ctx context.Context, intent *entities.DepositIntent) error
	GetByID(ctx context.Context, id int64) (*entities.DepositIntent, error)
	ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]entities.DepositIntent, error)
}

// AccountStore looks up the owning account
type AccountStore interface {
	GetByID(ctx context.Context, id int64) (*entities.Account, error)
}

// SettingsStore reads the operator thresholds
type SettingsStore interface {
	Get(ctx context.Context) (*entities.Settings, error)
}

// Service is the deposit intent ledger. It issues intents whose ids serve
// as on-chain labels and renders the payment instruction for the
// presentation layer.
type Service struct {
	intents  IntentStore
	accounts AccountStore
	settings SettingsStore
	wallets  map[entities.Currency]string
	logger   *zap.Logger
}

// NewService creates a new deposit intent service. wallets maps each
// currency to the custodial address deposits must be sent to.
func NewService(intents IntentStore, accounts AccountStore, settings SettingsStore, wallets map[entities.Currency]string, logger *zap.Logger) *Service {
	return &Service{
		intents:  intents,
		accounts: accounts,
		settings: settings,
		wallets:  wallets,
		logger:   logger,
	}
}

// CreateIntent issues a new inactive deposit intent and returns the
// payment instruction the user must follow on chain.
func (s *Service) CreateIntent(ctx context.Context, accountID int64, amount decimal.Decimal, currency entities.Currency) (*entities.DepositInstruction, error) {
	if err := currency.Validate(); err != nil {
		return nil, err
	}

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
	if amount.LessThan(cfg.MinDeposit) {
		return nil, entities.ErrBelowMinimum
	}

	intent := &entities.DepositIntent{
		AccountID: accountID,
		Amount:    amount,
		Currency:  currency,
	}
	if err := s.intents.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("create intent: %w", err)
	}

	s.logger.Info("Deposit intent created",
		zap.Int64("account_id", accountID),
		zap.String("label", intent.Label()),
		zap.String("currency", string(currency)),
		zap.String("amount", amount.String()))

	return &entities.DepositInstruction{
		Label:    intent.Label(),
		Address:  s.wallets[currency],
		Amount:   amount,
		Currency: currency,
	}, nil
}

// GetIntent returns an intent by id
func (s *Service) GetIntent(ctx context.Context, id int64) (*entities.DepositIntent, error) {
	intent, err := s.intents.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get intent: %w", err)
	}
	if intent == nil {
		return nil, entities.ErrIntentNotFound
	}
	return intent, nil
}

// History returns an account's intents, newest first
func (s *Service) History(ctx context.Context, accountID int64, limit, offset int) ([]entities.DepositIntent, error) {
	return s.intents.ListByAccount(ctx, accountID, limit, offset)
}
