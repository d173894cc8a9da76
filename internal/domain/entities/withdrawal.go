package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalRequest is an accepted request awaiting external settlement.
// At most one unprocessed request per account exists at a time; the state
// machine enforces this, not a DB constraint.
type WithdrawalRequest struct {
	ID          int64           `db:"id" json:"id"`
	AccountID   int64           `db:"account_id" json:"account_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Currency    Currency        `db:"currency" json:"currency"`
	Processed   bool            `db:"processed" json:"processed"`
	RequestedAt time.Time       `db:"requested_at" json:"requested_at"`
}
