package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// parseIDParam parses a positive int64 path parameter
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		SendBadRequest(c, ErrCodeInvalidID, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// pagination reads limit/offset query params with bounds
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// sendDomainError maps domain sentinels to HTTP responses; anything
// unrecognized is a 500.
func sendDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entities.ErrNotRegistered):
		SendNotFound(c, ErrCodeAccountNotFound, "Account not found")
	case errors.Is(err, entities.ErrAccountBlocked):
		SendConflict(c, ErrCodeAccountBlocked, "Account is blocked")
	case errors.Is(err, entities.ErrUnsupportedCurrency):
		SendBadRequest(c, ErrCodeInvalidCurrency, "Unsupported currency")
	case errors.Is(err, entities.ErrBelowMinimum):
		SendBadRequest(c, ErrCodeBelowMinimum, "Amount below configured minimum")
	case errors.Is(err, entities.ErrWithdrawalPending):
		SendConflict(c, ErrCodeWithdrawalPending, "An unprocessed withdrawal request already exists")
	case errors.Is(err, entities.ErrIntentNotFound):
		SendNotFound(c, ErrCodeIntentNotFound, "Deposit intent not found")
	case errors.Is(err, entities.ErrWithdrawalNotFound):
		SendNotFound(c, ErrCodeWithdrawalNotFound, "Withdrawal request not found")
	case errors.Is(err, entities.ErrSelfReferral):
		SendConflict(c, ErrCodeSelfReferral, "Account cannot refer itself")
	case errors.Is(err, entities.ErrReferralCycle):
		SendConflict(c, ErrCodeReferralCycle, "Referrer binding would create a cycle")
	case errors.Is(err, entities.ErrReferrerAlreadySet):
		SendConflict(c, ErrCodeReferrerAlreadySet, "Referrer is already set")
	default:
		SendInternalError(c, ErrCodeInternalError, MsgInternalError)
	}
}
