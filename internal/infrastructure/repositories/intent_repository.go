package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// IntentRepository handles deposit intent persistence. Intent ids are a
// Postgres sequence: unique and never reused, which is what lets the id
// double as the on-chain label.
type IntentRepository struct {
	db *sqlx.DB
}

// NewIntentRepository creates a new intent repository
func NewIntentRepository(db *sqlx.DB) *IntentRepository {
	return &IntentRepository{db: db}
}

// Create inserts a new inactive intent and fills in its id and timestamp
func (r *IntentRepository) Create(ctx context.Context, intent *entities.DepositIntent) error {
	query := `
		INSERT INTO deposit_intents (account_id, amount, currency, active)
		VALUES ($1, $2, $3, false)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		intent.AccountID, intent.Amount, intent.Currency,
	).Scan(&intent.ID, &intent.CreatedAt)
	if err != nil {
		return fmt.Errorf("create deposit intent: %w", err)
	}
	return nil
}

// GetByID retrieves an intent by id; returns nil when absent
func (r *IntentRepository) GetByID(ctx context.Context, id int64) (*entities.DepositIntent, error) {
	query := `
		SELECT id, account_id, amount, currency, active, created_at
		FROM deposit_intents
		WHERE id = $1
	`
	var intent entities.DepositIntent
	err := r.db.GetContext(ctx, &intent, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deposit intent: %w", err)
	}
	return &intent, nil
}

// ListActiveBatch streams active intents in id order for the accrual pass.
// Callers pass the last seen id to page through the full set.
func (r *IntentRepository) ListActiveBatch(ctx context.Context, afterID int64, limit int) ([]entities.DepositIntent, error) {
	query := `
		SELECT id, account_id, amount, currency, active, created_at
		FROM deposit_intents
		WHERE active = true AND id > $1
		ORDER BY id
		LIMIT $2
	`
	var intents []entities.DepositIntent
	if err := r.db.SelectContext(ctx, &intents, query, afterID, limit); err != nil {
		return nil, fmt.Errorf("list active intents: %w", err)
	}
	return intents, nil
}

// CountActiveByAccount counts an account's matched deposits
func (r *IntentRepository) CountActiveByAccount(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM deposit_intents WHERE account_id = $1 AND active = true`, accountID)
	if err != nil {
		return 0, fmt.Errorf("count active intents: %w", err)
	}
	return count, nil
}

// ListByAccount returns an account's intents, newest first
func (r *IntentRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]entities.DepositIntent, error) {
	query := `
		SELECT id, account_id, amount, currency, active, created_at
		FROM deposit_intents
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var intents []entities.DepositIntent
	if err := r.db.SelectContext(ctx, &intents, query, accountID, limit, offset); err != nil {
		return nil, fmt.Errorf("list intents: %w", err)
	}
	return intents, nil
}
