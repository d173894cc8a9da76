package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// WithdrawalRepository handles withdrawal request persistence
type WithdrawalRepository struct {
	db *sqlx.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Latest returns the account's most recent request; nil when none exists
func (r *WithdrawalRepository) Latest(ctx context.Context, accountID int64) (*entities.WithdrawalRequest, error) {
	query := `
		SELECT id, account_id, amount, currency, processed, requested_at
		FROM withdrawal_requests
		WHERE account_id = $1
		ORDER BY requested_at DESC
		LIMIT 1
	`
	var req entities.WithdrawalRequest
	err := r.db.GetContext(ctx, &req, query, accountID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest withdrawal: %w", err)
	}
	return &req, nil
}

// CreateZeroingBalance re-reads the chosen balance under a row lock,
// zeroes it and creates the request, all in one transaction. The minimum
// is re-checked under the lock so a concurrent debit between the service's
// eligibility check and this call cannot produce an undersized request.
func (r *WithdrawalRepository) CreateZeroingBalance(ctx context.Context, accountID int64, currency entities.Currency, min decimal.Decimal) (*entities.WithdrawalRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin withdrawal transaction: %w", err)
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	lockQuery := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1 FOR UPDATE`, balanceColumn(currency))
	if err := tx.GetContext(ctx, &balance, lockQuery, accountID); err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotRegistered
		}
		return nil, fmt.Errorf("lock account balance: %w", err)
	}
	if balance.LessThan(min) {
		return nil, entities.ErrBelowMinimum
	}

	zero := fmt.Sprintf(`UPDATE accounts SET %s = 0 WHERE id = $1`, balanceColumn(currency))
	if _, err := tx.ExecContext(ctx, zero, accountID); err != nil {
		return nil, fmt.Errorf("zero balance: %w", err)
	}

	req := &entities.WithdrawalRequest{
		AccountID: accountID,
		Amount:    balance,
		Currency:  currency,
		Processed: false,
	}
	insert := `
		INSERT INTO withdrawal_requests (account_id, amount, currency, processed)
		VALUES ($1, $2, $3, false)
		RETURNING id, requested_at
	`
	err = tx.QueryRowxContext(ctx, insert, req.AccountID, req.Amount, req.Currency).
		Scan(&req.ID, &req.RequestedAt)
	if err != nil {
		return nil, fmt.Errorf("create withdrawal request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit withdrawal transaction: %w", err)
	}
	return req, nil
}

// MarkProcessed flips a request to processed; settlement itself is external
func (r *WithdrawalRepository) MarkProcessed(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE withdrawal_requests SET processed = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark withdrawal processed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark processed rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrWithdrawalNotFound
	}
	return nil
}

// ListByAccount returns an account's withdrawal requests, newest first
func (r *WithdrawalRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]entities.WithdrawalRequest, error) {
	query := `
		SELECT id, account_id, amount, currency, processed, requested_at
		FROM withdrawal_requests
		WHERE account_id = $1
		ORDER BY requested_at DESC
		LIMIT $2 OFFSET $3
	`
	var requests []entities.WithdrawalRequest
	if err := r.db.SelectContext(ctx, &requests, query, accountID, limit, offset); err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return requests, nil
}
