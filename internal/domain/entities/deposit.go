package entities

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DepositIntent is an internally issued deposit request. Its id doubles as
// the on-chain memo label the depositor must attach, which is the only
// linkage between the intent and the chain transaction. Once matched the
// intent flips active=false -> true exactly once and becomes immutable.
type DepositIntent struct {
	ID        int64           `db:"id" json:"id"`
	AccountID int64           `db:"account_id" json:"account_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Currency  Currency        `db:"currency" json:"currency"`
	Active    bool            `db:"active" json:"active"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Label returns the memo string the depositor must attach on chain
func (d *DepositIntent) Label() string {
	return strconv.FormatInt(d.ID, 10)
}

// DepositInstruction is what the presentation layer turns into a
// user-facing payment instruction.
type DepositInstruction struct {
	Label    string          `json:"label"`
	Address  string          `json:"address"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}
