package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
	"github.com/tonforge/tonforge_service/internal/domain/services/deposit"
)

// DepositHandlers handles deposit intent endpoints
type DepositHandlers struct {
	deposits *deposit.Service
	logger   *zap.Logger
}

// NewDepositHandlers creates new deposit handlers
func NewDepositHandlers(deposits *deposit.Service, logger *zap.Logger) *DepositHandlers {
	return &DepositHandlers{deposits: deposits, logger: logger}
}

type createIntentRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required"`
}

// CreateIntent issues a deposit intent and returns the payment
// instruction: custodial address, amount and the memo label the transfer
// must carry.
func (h *DepositHandlers) CreateIntent(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequest(c, ErrCodeInvalidRequest, MsgInvalidRequest)
		return
	}
	if !req.Amount.IsPositive() {
		SendBadRequest(c, ErrCodeInvalidAmount, "Amount must be positive")
		return
	}

	instruction, err := h.deposits.CreateIntent(c.Request.Context(), accountID, req.Amount, entities.Currency(req.Currency))
	if err != nil {
		sendDomainError(c, err)
		return
	}
	SendCreated(c, instruction)
}

// GetIntent returns one deposit intent by id
func (h *DepositHandlers) GetIntent(c *gin.Context) {
	intentID, ok := parseIDParam(c, "intent_id")
	if !ok {
		return
	}

	intent, err := h.deposits.GetIntent(c.Request.Context(), intentID)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	SendSuccess(c, intent)
}

// History returns an account's deposit intents, newest first
func (h *DepositHandlers) History(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	intents, err := h.deposits.History(c.Request.Context(), accountID, limit, offset)
	if err != nil {
		h.logger.Error("Deposit history failed",
			zap.Int64("account_id", accountID), zap.Error(err))
		SendInternalError(c, ErrCodeInternalError, MsgInternalError)
		return
	}
	SendSuccess(c, gin.H{"deposits": intents, "limit": limit, "offset": offset})
}
