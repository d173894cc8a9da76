package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType identifies a notification event emitted for the external
// notification system to format and deliver.
type EventType string

const (
	EventDepositCredited     EventType = "deposit.credited"
	EventWithdrawalRequested EventType = "withdrawal.requested"
)

// NotificationEvent is the side-channel payload published on successful
// crediting and on withdrawal request creation.
type NotificationEvent struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	AccountID  int64           `json:"account_id"`
	TelegramID int64           `json:"telegram_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   Currency        `json:"currency"`
	OccurredAt time.Time       `json:"occurred_at"`
}
