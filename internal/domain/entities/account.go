package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is one of the two assets the service custodies
type Currency string

const (
	CurrencyTON  Currency = "TON"  // native chain asset, 9 decimals on chain
	CurrencyUSDT Currency = "USDT" // TRC-20 stable asset, 6 decimals on chain
)

// Validate checks if the currency is supported
func (c Currency) Validate() error {
	switch c {
	case CurrencyTON, CurrencyUSDT:
		return nil
	default:
		return ErrUnsupportedCurrency
	}
}

// SourceChain identifies which blockchain a transaction was observed on
type SourceChain string

const (
	SourceChainTON  SourceChain = "TON"
	SourceChainTRON SourceChain = "TRON"
)

// Currency returns the asset credited for deposits observed on this chain
func (s SourceChain) Currency() Currency {
	if s == SourceChainTRON {
		return CurrencyUSDT
	}
	return CurrencyTON
}

// Account is a custodial user account. Created on first external interaction,
// never deleted. ReferrerID is set at most once and never points at the
// account itself.
type Account struct {
	ID          int64           `db:"id" json:"id"`
	TelegramID  int64           `db:"telegram_id" json:"telegram_id"`
	BalanceTON  decimal.Decimal `db:"balance_ton" json:"balance_ton"`
	BalanceUSDT decimal.Decimal `db:"balance_usdt" json:"balance_usdt"`
	ReferrerID  *int64          `db:"referrer_id" json:"referrer_id,omitempty"`
	Blocked     bool            `db:"blocked" json:"blocked"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Balance returns the account balance in the given currency
func (a *Account) Balance(currency Currency) decimal.Decimal {
	if currency == CurrencyUSDT {
		return a.BalanceUSDT
	}
	return a.BalanceTON
}

// AccountOverview is the balance summary exposed to the presentation layer
type AccountOverview struct {
	Account        *Account `json:"account"`
	ActiveDeposits int64    `json:"active_deposits"`
}
