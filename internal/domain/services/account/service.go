package account

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// maxUplineWalk bounds the cycle check walk; referral chains deeper than
// this are pathological and treated as cyclic.
const maxUplineWalk = 64

// AccountStore is the persistence the account service needs
type AccountStore interface {
	GetOrCreate(ctx context.Context, telegramID int64) (*entities.Account, error)
	GetByID(ctx context.Context, id int64) (*entities.Account, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*entities.Account, error)
	SetReferrer(ctx context.Context, accountID, referrerID int64) (bool, error)
	CountInvited(ctx context.Context, accountID int64) (int64, error)
}

// IntentCounter counts matched deposits for the overview
type IntentCounter interface {
	CountActiveByAccount(ctx context.Context, accountID int64) (int64, error)
}

// BonusStore sums lifetime referral income
type BonusStore interface {
	BonusTotals(ctx context.Context, accountID int64) (ton, usdt decimal.Decimal, err error)
}

// Service handles account registration, referrer binding and the
// read-only queries the presentation layers consume.
type Service struct {
	accounts AccountStore
	intents  IntentCounter
	bonuses  BonusStore
	logger   *zap.Logger
}

// NewService creates a new account service
func NewService(accounts AccountStore, intents IntentCounter, bonuses BonusStore, logger *zap.Logger) *Service {
	return &Service{accounts: accounts, intents: intents, bonuses: bonuses, logger: logger}
}

// RegisterOrGet returns the account for a Telegram identity, creating it
// on first interaction. A referrer Telegram id from an invite link is
// bound best-effort: a bad link never fails registration.
func (s *Service) RegisterOrGet(ctx context.Context, telegramID int64, referrerTelegramID *int64) (*entities.Account, error) {
	account, err := s.accounts.GetOrCreate(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}

	if referrerTelegramID != nil && account.ReferrerID == nil {
		if err := s.BindReferrer(ctx, account.ID, *referrerTelegramID); err != nil {
			s.logger.Warn("Referrer binding skipped",
				zap.Int64("account_id", account.ID),
				zap.Int64("referrer_telegram_id", *referrerTelegramID),
				zap.Error(err))
		} else if account, err = s.accounts.GetByID(ctx, account.ID); err != nil {
			return nil, fmt.Errorf("reload account: %w", err)
		}
	}
	return account, nil
}

// BindReferrer binds a referrer exactly once. Self-referral and any
// binding that would close a referral cycle are rejected; the walk up the
// candidate referrer's upline is bounded and carries a visited set.
func (s *Service) BindReferrer(ctx context.Context, accountID, referrerTelegramID int64) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return entities.ErrNotRegistered
	}
	if account.ReferrerID != nil {
		return entities.ErrReferrerAlreadySet
	}

	referrer, err := s.accounts.GetByTelegramID(ctx, referrerTelegramID)
	if err != nil {
		return fmt.Errorf("load referrer: %w", err)
	}
	if referrer == nil {
		return entities.ErrNotRegistered
	}
	if referrer.ID == accountID {
		return entities.ErrSelfReferral
	}

	// Walk the candidate's upline: if it reaches the account being bound,
	// the binding would close a cycle.
	visited := map[int64]bool{referrer.ID: true}
	current := referrer
	for i := 0; i < maxUplineWalk && current.ReferrerID != nil; i++ {
		ancestorID := *current.ReferrerID
		if ancestorID == accountID || visited[ancestorID] {
			return entities.ErrReferralCycle
		}
		visited[ancestorID] = true
		ancestor, err := s.accounts.GetByID(ctx, ancestorID)
		if err != nil {
			return fmt.Errorf("walk upline: %w", err)
		}
		if ancestor == nil {
			break
		}
		current = ancestor
	}

	ok, err := s.accounts.SetReferrer(ctx, accountID, referrer.ID)
	if err != nil {
		return err
	}
	if !ok {
		return entities.ErrReferrerAlreadySet
	}

	s.logger.Info("Referrer bound",
		zap.Int64("account_id", accountID), zap.Int64("referrer_id", referrer.ID))
	return nil
}

// Overview returns balances and the active deposit count
func (s *Service) Overview(ctx context.Context, accountID int64) (*entities.AccountOverview, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrNotRegistered
	}
	active, err := s.intents.CountActiveByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("count active deposits: %w", err)
	}
	return &entities.AccountOverview{Account: account, ActiveDeposits: active}, nil
}

// ReferralStats returns the invited count and bonus totals per currency
func (s *Service) ReferralStats(ctx context.Context, accountID int64) (*entities.ReferralStats, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrNotRegistered
	}

	invited, err := s.accounts.CountInvited(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("count invited: %w", err)
	}
	ton, usdt, err := s.bonuses.BonusTotals(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("sum bonuses: %w", err)
	}
	return &entities.ReferralStats{Invited: invited, BonusTON: ton, BonusUSDT: usdt}, nil
}
