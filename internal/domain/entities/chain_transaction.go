package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the reconciliation status of a chain transaction
type TransactionStatus string

const (
	TransactionStatusConfirmed TransactionStatus = "confirmed"
)

// ChainTransaction is the reconciliation record for an externally observed
// transfer. Append-only; the unique constraint on TxHash is the sole
// guarantee that a transfer is credited at most once.
type ChainTransaction struct {
	ID          int64             `db:"id" json:"id"`
	AccountID   int64             `db:"account_id" json:"account_id"`
	Amount      decimal.Decimal   `db:"amount" json:"amount"`
	Currency    Currency          `db:"currency" json:"currency"`
	TxHash      string            `db:"tx_hash" json:"tx_hash"`
	SourceChain SourceChain       `db:"source_chain" json:"source_chain"`
	Label       string            `db:"label" json:"label"`
	Status      TransactionStatus `db:"status" json:"status"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

// RawTransaction is a candidate transfer yielded by a chain source before
// reconciliation. Amount is already scaled to the asset's decimal unit.
type RawTransaction struct {
	Hash   string
	Amount decimal.Decimal
	Label  string
}
