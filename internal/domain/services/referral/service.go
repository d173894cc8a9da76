package referral

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
	"github.com/tonforge/tonforge_service/internal/infrastructure/metrics"
)

// AccountStore walks the referrer chain
type AccountStore interface {
	GetByID(ctx context.Context, id int64) (*entities.Account, error)
}

// PayoutStore credits one bonus and appends its audit row atomically
type PayoutStore interface {
	CreditBonus(ctx context.Context, payout *entities.ReferralPayout) error
}

// Service distributes referral bonuses across a depositor's upline. This
// is a bounded walk up referrer links, not a recursive tree sum: at most
// five ancestors are paid, for at most 21% of the deposit amount.
type Service struct {
	accounts AccountStore
	payouts  PayoutStore
	logger   *zap.Logger
}

// NewService creates a new referral payout distributor
func NewService(accounts AccountStore, payouts PayoutStore, logger *zap.Logger) *Service {
	return &Service{accounts: accounts, payouts: payouts, logger: logger}
}

// Distribute pays per-level bonuses to up to five upline ancestors of the
// source account. A visited set stops the walk if the referral graph
// contains a cycle. Blocked ancestors consume their level but receive
// nothing. No-op when the source has no referrer.
func (s *Service) Distribute(ctx context.Context, source *entities.Account, amount decimal.Decimal, currency entities.Currency) error {
	visited := map[int64]bool{source.ID: true}
	current := source

	for level := 1; level <= entities.ReferralMaxDepth; level++ {
		if current.ReferrerID == nil {
			break
		}
		referrerID := *current.ReferrerID
		if visited[referrerID] {
			s.logger.Warn("Referral cycle detected; stopping walk",
				zap.Int64("source_id", source.ID), zap.Int64("repeat_id", referrerID))
			break
		}

		referrer, err := s.accounts.GetByID(ctx, referrerID)
		if err != nil {
			return fmt.Errorf("load referrer %d: %w", referrerID, err)
		}
		if referrer == nil {
			break
		}
		visited[referrerID] = true

		if !referrer.Blocked {
			bonus := amount.Mul(entities.ReferralLevelPercents[level-1])
			payout := &entities.ReferralPayout{
				BeneficiaryID: referrer.ID,
				SourceID:      source.ID,
				Level:         level,
				Amount:        bonus,
				Currency:      currency,
			}
			if err := s.payouts.CreditBonus(ctx, payout); err != nil {
				return fmt.Errorf("credit level %d bonus to account %d: %w", level, referrer.ID, err)
			}
			metrics.ReferralPayouts.WithLabelValues(strconv.Itoa(level)).Inc()
		}

		current = referrer
	}
	return nil
}
