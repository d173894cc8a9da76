package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// TransactionRepository persists reconciliation records. RecordCredit is
// the exactly-once boundary for the whole crediting engine.
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// RecordCredit atomically inserts the chain transaction, credits the
// account balance and activates the linked intent, all in one database
// transaction. The insert is keyed by the tx_hash unique constraint; a
// conflict means the transfer is already credited, in which case nothing
// is written and (false, nil) is returned. Crediting sits strictly behind
// the unique insert, never in front of it.
func (r *TransactionRepository) RecordCredit(ctx context.Context, ct *entities.ChainTransaction, intentID *int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin credit transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO chain_transactions (account_id, amount, currency, tx_hash, source_chain, label, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tx_hash) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, insert,
		ct.AccountID, ct.Amount, ct.Currency, ct.TxHash, ct.SourceChain, ct.Label, entities.TransactionStatusConfirmed)
	if err != nil {
		return false, fmt.Errorf("insert chain transaction: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("chain transaction rows affected: %w", err)
	}
	if rows == 0 {
		// Known duplicate: the no-op path, not an error.
		return false, nil
	}

	credit := fmt.Sprintf(`UPDATE accounts SET %s = %s + $1 WHERE id = $2`,
		balanceColumn(ct.Currency), balanceColumn(ct.Currency))
	if _, err := tx.ExecContext(ctx, credit, ct.Amount, ct.AccountID); err != nil {
		return false, fmt.Errorf("credit balance: %w", err)
	}

	if intentID != nil {
		activate := `UPDATE deposit_intents SET active = true WHERE id = $1 AND active = false`
		if _, err := tx.ExecContext(ctx, activate, *intentID); err != nil {
			return false, fmt.Errorf("activate intent %d: %w", *intentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit credit transaction: %w", err)
	}
	return true, nil
}
