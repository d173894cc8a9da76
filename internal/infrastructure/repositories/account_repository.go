package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
	"github.com/tonforge/tonforge_service/internal/infrastructure/database"
)

// balanceColumn maps a currency to its accounts column. Currency is a
// closed enum, so this never interpolates caller input into SQL.
func balanceColumn(currency entities.Currency) string {
	if currency == entities.CurrencyUSDT {
		return "balance_usdt"
	}
	return "balance_ton"
}

// AccountRepository handles account persistence
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetOrCreate returns the account for a Telegram identity, creating it on
// first interaction.
func (r *AccountRepository) GetOrCreate(ctx context.Context, telegramID int64) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (telegram_id)
		VALUES ($1)
		ON CONFLICT (telegram_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, telegramID); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return r.GetByTelegramID(ctx, telegramID)
}

// GetByID retrieves an account by internal id; returns nil when absent
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	query := `
		SELECT id, telegram_id, balance_ton, balance_usdt, referrer_id, blocked, created_at
		FROM accounts
		WHERE id = $1
	`
	var account entities.Account
	err := r.db.GetContext(ctx, &account, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}

// GetByTelegramID retrieves an account by its external Telegram identity;
// returns nil when absent
func (r *AccountRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*entities.Account, error) {
	query := `
		SELECT id, telegram_id, balance_ton, balance_usdt, referrer_id, blocked, created_at
		FROM accounts
		WHERE telegram_id = $1
	`
	var account entities.Account
	err := r.db.GetContext(ctx, &account, query, telegramID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account by telegram id: %w", err)
	}
	return &account, nil
}

// SetReferrer binds a referrer exactly once. The WHERE clause makes the
// binding immutable and rejects self-reference at the storage layer as
// well; the service performs the cycle walk before calling this.
func (r *AccountRepository) SetReferrer(ctx context.Context, accountID, referrerID int64) (bool, error) {
	query := `
		UPDATE accounts
		SET referrer_id = $2
		WHERE id = $1 AND referrer_id IS NULL AND id <> $2
	`
	result, err := r.db.ExecContext(ctx, query, accountID, referrerID)
	if err != nil {
		return false, fmt.Errorf("set referrer: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set referrer rows affected: %w", err)
	}
	return rows > 0, nil
}

// CountInvited counts accounts directly referred by the given account
func (r *AccountRepository) CountInvited(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM accounts WHERE referrer_id = $1`, accountID)
	if err != nil {
		return 0, fmt.Errorf("count invited: %w", err)
	}
	return count, nil
}

// CreditYieldBatch applies a batch of yield credits in one transaction.
// Each credit is a single-statement read-modify-write on the owning
// account row, so concurrent crediting never loses updates.
func (r *AccountRepository) CreditYieldBatch(ctx context.Context, credits []entities.YieldCredit) error {
	if len(credits) == 0 {
		return nil
	}
	return database.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, c := range credits {
			query := fmt.Sprintf(
				`UPDATE accounts SET %s = %s + $1 WHERE id = $2`,
				balanceColumn(c.Currency), balanceColumn(c.Currency))
			if _, err := tx.ExecContext(ctx, query, c.Amount, c.AccountID); err != nil {
				return fmt.Errorf("credit yield for account %d: %w", c.AccountID, err)
			}
		}
		return nil
	})
}
