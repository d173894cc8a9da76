package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralMaxDepth is how many upline levels a deposit pays out to
const ReferralMaxDepth = 5

// ReferralLevelPercents are the per-level bonus rates, 1-indexed by hop.
// Total payout per deposit is at most 21% of the deposit amount.
var ReferralLevelPercents = []decimal.Decimal{
	decimal.New(10, -2), // level 1: 10%
	decimal.New(5, -2),  // level 2: 5%
	decimal.New(3, -2),  // level 3: 3%
	decimal.New(2, -2),  // level 4: 2%
	decimal.New(1, -2),  // level 5: 1%
}

// ReferralPayout is an append-only audit row for a single referral bonus.
// Balances are the authoritative state; this is the immutable trail.
type ReferralPayout struct {
	ID            int64           `db:"id" json:"id"`
	BeneficiaryID int64           `db:"beneficiary_id" json:"beneficiary_id"`
	SourceID      int64           `db:"source_id" json:"source_id"`
	Level         int             `db:"level" json:"level"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      Currency        `db:"currency" json:"currency"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// ReferralStats is the downline summary exposed to the presentation layer
type ReferralStats struct {
	Invited   int64           `json:"invited"`
	BonusTON  decimal.Decimal `json:"bonus_ton"`
	BonusUSDT decimal.Decimal `json:"bonus_usdt"`
}
