package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/infrastructure/cache"
	"github.com/tonforge/tonforge_service/internal/infrastructure/database"
)

// CoreHandlers serves the operational endpoints
type CoreHandlers struct {
	db        *sqlx.DB
	redis     cache.RedisClient
	logger    *zap.Logger
	startTime time.Time
}

// NewCoreHandlers creates new core handlers
func NewCoreHandlers(db *sqlx.DB, redis cache.RedisClient, logger *zap.Logger) *CoreHandlers {
	return &CoreHandlers{db: db, redis: redis, logger: logger, startTime: time.Now()}
}

// Health reports readiness of the storage dependencies
func (h *CoreHandlers) Health(c *gin.Context) {
	checks := gin.H{"database": "ok", "redis": "ok"}
	status := http.StatusOK

	if err := database.HealthCheck(h.db); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.redis.Ping(c.Request.Context()); err != nil {
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if status != http.StatusOK {
		h.logger.Warn("Health check failed", zap.Any("checks", checks))
	}

	c.JSON(status, gin.H{
		"status":         map[bool]string{true: "healthy", false: "unhealthy"}[status == http.StatusOK],
		"checks":         checks,
		"uptime_seconds": int(time.Since(h.startTime).Seconds()),
		"timestamp":      time.Now().UTC(),
	})
}

// Live is the liveness probe; it succeeds whenever the process serves
func (h *CoreHandlers) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Metrics exposes the Prometheus registry
func (h *CoreHandlers) Metrics(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}
