package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/services/withdrawal"
)

// WithdrawalHandlers handles withdrawal request endpoints
type WithdrawalHandlers struct {
	withdrawals *withdrawal.Service
	logger      *zap.Logger
}

// NewWithdrawalHandlers creates new withdrawal handlers
func NewWithdrawalHandlers(withdrawals *withdrawal.Service, logger *zap.Logger) *WithdrawalHandlers {
	return &WithdrawalHandlers{withdrawals: withdrawals, logger: logger}
}

// Request creates a withdrawal request for whichever balance meets the
// minimum, zeroing that balance.
func (h *WithdrawalHandlers) Request(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	req, err := h.withdrawals.Request(c.Request.Context(), accountID)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	SendCreated(c, req)
}

// MarkProcessed records external settlement of a withdrawal request.
// Exposed for the operator tooling, not end users.
func (h *WithdrawalHandlers) MarkProcessed(c *gin.Context) {
	requestID, ok := parseIDParam(c, "request_id")
	if !ok {
		return
	}

	if err := h.withdrawals.MarkProcessed(c.Request.Context(), requestID); err != nil {
		sendDomainError(c, err)
		return
	}
	h.logger.Info("Withdrawal marked processed", zap.Int64("request_id", requestID))
	SendSuccess(c, gin.H{"status": "processed"})
}

// History returns an account's withdrawal requests, newest first
func (h *WithdrawalHandlers) History(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	requests, err := h.withdrawals.History(c.Request.Context(), accountID, limit, offset)
	if err != nil {
		h.logger.Error("Withdrawal history failed",
			zap.Int64("account_id", accountID), zap.Error(err))
		SendInternalError(c, ErrCodeInternalError, MsgInternalError)
		return
	}
	SendSuccess(c, gin.H{"withdrawals": requests, "limit": limit, "offset": offset})
}
