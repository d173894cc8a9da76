package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// ReferralRepository persists the referral payout audit trail
type ReferralRepository struct {
	db *sqlx.DB
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(db *sqlx.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// CreditBonus credits the beneficiary's balance and appends the audit row
// in one transaction, so the trail never disagrees with the balances.
func (r *ReferralRepository) CreditBonus(ctx context.Context, payout *entities.ReferralPayout) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bonus transaction: %w", err)
	}
	defer tx.Rollback()

	credit := fmt.Sprintf(`UPDATE accounts SET %s = %s + $1 WHERE id = $2`,
		balanceColumn(payout.Currency), balanceColumn(payout.Currency))
	if _, err := tx.ExecContext(ctx, credit, payout.Amount, payout.BeneficiaryID); err != nil {
		return fmt.Errorf("credit bonus: %w", err)
	}

	insert := `
		INSERT INTO referral_payouts (beneficiary_id, source_id, level, amount, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err = tx.QueryRowxContext(ctx, insert,
		payout.BeneficiaryID, payout.SourceID, payout.Level, payout.Amount, payout.Currency,
	).Scan(&payout.ID, &payout.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert referral payout: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bonus transaction: %w", err)
	}
	return nil
}

// BonusTotals sums an account's lifetime referral income per currency
func (r *ReferralRepository) BonusTotals(ctx context.Context, accountID int64) (ton, usdt decimal.Decimal, err error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE currency = $2), 0) AS ton,
			COALESCE(SUM(amount) FILTER (WHERE currency = $3), 0) AS usdt
		FROM referral_payouts
		WHERE beneficiary_id = $1
	`
	var row struct {
		TON  decimal.Decimal `db:"ton"`
		USDT decimal.Decimal `db:"usdt"`
	}
	if err := r.db.GetContext(ctx, &row, query, accountID, entities.CurrencyTON, entities.CurrencyUSDT); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum referral bonuses: %w", err)
	}
	return row.TON, row.USDT, nil
}
