package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/api/handlers"
	"github.com/tonforge/tonforge_service/internal/api/middleware"
)

// Handlers groups the handler sets the router wires up
type Handlers struct {
	Core        *handlers.CoreHandlers
	Accounts    *handlers.AccountHandlers
	Deposits    *handlers.DepositHandlers
	Withdrawals *handlers.WithdrawalHandlers
}

// SetupRoutes configures all application routes
func SetupRoutes(h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestSizeLimit())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	// Operational endpoints (no auth, scraped and probed)
	router.GET("/health", h.Core.Health)
	router.GET("/live", h.Core.Live)
	router.GET("/metrics", h.Core.Metrics)

	v1 := router.Group("/api/v1")
	{
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", h.Accounts.Register)
			accounts.POST("/:id/referrer", h.Accounts.BindReferrer)
			accounts.GET("/:id/overview", h.Accounts.Overview)
			accounts.GET("/:id/referrals", h.Accounts.ReferralStats)

			accounts.POST("/:id/deposits", h.Deposits.CreateIntent)
			accounts.GET("/:id/deposits", h.Deposits.History)

			accounts.POST("/:id/withdrawals", h.Withdrawals.Request)
			accounts.GET("/:id/withdrawals", h.Withdrawals.History)
		}

		v1.GET("/deposits/:intent_id", h.Deposits.GetIntent)

		// Operator endpoint; settlement happens off-system and is
		// acknowledged here.
		v1.POST("/withdrawals/:request_id/processed", h.Withdrawals.MarkProcessed)
	}

	return router
}
