package graceful

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Stopper is a background component that can be asked to stop. Stop
// blocks until in-flight work finishes.
type Stopper interface {
	Stop()
}

// Closer is a resource with a final close step
type Closer interface {
	Close() error
}

type ShutdownManager struct {
	server   *http.Server
	stoppers []Stopper
	closers  []Closer
	logger   *zap.Logger
}

func NewShutdownManager(server *http.Server, logger *zap.Logger) *ShutdownManager {
	return &ShutdownManager{server: server, logger: logger}
}

// RegisterStopper registers a background worker to stop before the
// server drains. Workers stop in registration order.
func (sm *ShutdownManager) RegisterStopper(s Stopper) {
	sm.stoppers = append(sm.stoppers, s)
}

// RegisterCloser registers a resource to close after the server drains
func (sm *ShutdownManager) RegisterCloser(c Closer) {
	sm.closers = append(sm.closers, c)
}

// WaitForShutdown blocks until SIGINT or SIGTERM, then stops workers,
// drains the HTTP server and closes resources.
func (sm *ShutdownManager) WaitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sm.logger.Info("Shutting down gracefully...")

	// Workers first so no new writes reach storage during the drain.
	for _, s := range sm.stoppers {
		s.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sm.server.Shutdown(ctx); err != nil {
		sm.logger.Error("Server forced shutdown", zap.Error(err))
	}

	for _, c := range sm.closers {
		if err := c.Close(); err != nil {
			sm.logger.Warn("Resource close error", zap.Error(err))
		}
	}

	sm.logger.Info("Shutdown complete")
}
