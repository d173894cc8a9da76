package entities

import "github.com/shopspring/decimal"

// YieldCredit is one pending balance credit produced by the daily accrual
// pass: amount = intent amount x daily percent, in the intent's currency.
type YieldCredit struct {
	AccountID int64
	Amount    decimal.Decimal
	Currency  Currency
}
