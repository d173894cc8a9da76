package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// Error codes as constants for consistent error responses across handlers
const (
	// Validation errors
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeInvalidID       = "INVALID_ID"
	ErrCodeInvalidCurrency = "INVALID_CURRENCY"
	ErrCodeInvalidAmount   = "INVALID_AMOUNT"

	// Resource errors
	ErrCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	ErrCodeIntentNotFound     = "INTENT_NOT_FOUND"
	ErrCodeWithdrawalNotFound = "WITHDRAWAL_NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"

	// Domain errors
	ErrCodeAccountBlocked     = "ACCOUNT_BLOCKED"
	ErrCodeBelowMinimum       = "BELOW_MINIMUM"
	ErrCodeWithdrawalPending  = "WITHDRAWAL_PENDING"
	ErrCodeSelfReferral       = "SELF_REFERRAL"
	ErrCodeReferralCycle      = "REFERRAL_CYCLE"
	ErrCodeReferrerAlreadySet = "REFERRER_ALREADY_SET"

	// Operation errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Error messages as constants for consistency
const (
	MsgInvalidRequest = "Invalid request payload"
	MsgInternalError  = "Internal server error"
)

// SendBadRequest sends a 400 Bad Request error
func SendBadRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, entities.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// SendNotFound sends a 404 Not Found error
func SendNotFound(c *gin.Context, code, message string) {
	c.JSON(http.StatusNotFound, entities.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// SendConflict sends a 409 Conflict error
func SendConflict(c *gin.Context, code, message string) {
	c.JSON(http.StatusConflict, entities.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// SendInternalError sends a 500 Internal Server Error
func SendInternalError(c *gin.Context, code, message string) {
	c.JSON(http.StatusInternalServerError, entities.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// SendSuccess sends a 200 OK response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendCreated sends a 201 Created response with data
func SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}
