package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/services/account"
)

// AccountHandlers handles account registration and read-only queries
type AccountHandlers struct {
	accounts *account.Service
	logger   *zap.Logger
}

// NewAccountHandlers creates new account handlers
func NewAccountHandlers(accounts *account.Service, logger *zap.Logger) *AccountHandlers {
	return &AccountHandlers{accounts: accounts, logger: logger}
}

type registerRequest struct {
	TelegramID         int64  `json:"telegram_id" binding:"required"`
	ReferrerTelegramID *int64 `json:"referrer_telegram_id,omitempty"`
}

// Register creates the account on first interaction, or returns the
// existing one. A referrer id from an invite link binds at most once.
func (h *AccountHandlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequest(c, ErrCodeInvalidRequest, MsgInvalidRequest)
		return
	}

	acc, err := h.accounts.RegisterOrGet(c.Request.Context(), req.TelegramID, req.ReferrerTelegramID)
	if err != nil {
		h.logger.Error("Registration failed",
			zap.Int64("telegram_id", req.TelegramID), zap.Error(err))
		sendDomainError(c, err)
		return
	}
	SendSuccess(c, acc)
}

type bindReferrerRequest struct {
	ReferrerTelegramID int64 `json:"referrer_telegram_id" binding:"required"`
}

// BindReferrer binds a referrer to an existing account
func (h *AccountHandlers) BindReferrer(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req bindReferrerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequest(c, ErrCodeInvalidRequest, MsgInvalidRequest)
		return
	}

	if err := h.accounts.BindReferrer(c.Request.Context(), accountID, req.ReferrerTelegramID); err != nil {
		sendDomainError(c, err)
		return
	}
	SendSuccess(c, gin.H{"status": "bound"})
}

// Overview returns balances and the active deposit count
func (h *AccountHandlers) Overview(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	overview, err := h.accounts.Overview(c.Request.Context(), accountID)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	SendSuccess(c, overview)
}

// ReferralStats returns the invited count and lifetime bonus totals
func (h *AccountHandlers) ReferralStats(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.accounts.ReferralStats(c.Request.Context(), accountID)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	SendSuccess(c, stats)
}
