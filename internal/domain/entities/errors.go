package entities

import "errors"

// Domain errors surfaced synchronously to callers. Duplicate chain
// transactions are deliberately not an error: the unique-insert rejection
// is a normal no-op path inside the crediting engine.
var (
	ErrNotRegistered       = errors.New("account not registered")
	ErrAccountBlocked      = errors.New("account is blocked")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrBelowMinimum        = errors.New("amount below configured minimum")
	ErrWithdrawalPending   = errors.New("an unprocessed withdrawal request already exists")
	ErrIntentNotFound      = errors.New("deposit intent not found")
	ErrWithdrawalNotFound  = errors.New("withdrawal request not found")
	ErrSelfReferral        = errors.New("account cannot refer itself")
	ErrReferralCycle       = errors.New("referrer binding would create a cycle")
	ErrReferrerAlreadySet  = errors.New("referrer is already set")
	ErrLockUnavailable     = errors.New("run lock is held by another instance")
)

// ErrorResponse is the JSON error envelope returned by the HTTP API
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
