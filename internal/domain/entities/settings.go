package entities

import (
	"github.com/shopspring/decimal"
)

// SettingsID is the fixed primary key of the singleton settings row
const SettingsID = 1

// Settings is the operator-tunable configuration read by every component
// that needs a threshold. Written only by the external admin surface; the
// engine re-reads it from storage per operation or batch instead of holding
// process-wide mutable state.
type Settings struct {
	ID                 int64           `db:"id" json:"id"`
	DailyPercent       decimal.Decimal `db:"daily_percent" json:"daily_percent"`
	MinDeposit         decimal.Decimal `db:"min_deposit" json:"min_deposit"`
	MinWithdraw        decimal.Decimal `db:"min_withdraw" json:"min_withdraw"`
	WithdrawDelayHours int             `db:"withdraw_delay_hours" json:"withdraw_delay_hours"`
	Notice             string          `db:"notice" json:"notice"`
}
