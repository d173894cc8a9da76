package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// releaseScript deletes the lock key only if this holder still owns it, so
// an expired-and-reacquired lock is never released by the old holder.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RunLock is a cooperative, name-scoped, non-blocking mutual-exclusion
// primitive for batch jobs that must run on exactly one instance at a time.
// The TTL bounds how long a crashed holder can keep the job parked.
type RunLock struct {
	client RedisClient
	logger *zap.Logger
}

// NewRunLock creates a RunLock backed by the given Redis client
func NewRunLock(client RedisClient, logger *zap.Logger) *RunLock {
	return &RunLock{client: client, logger: logger}
}

// TryAcquire attempts to take the named lock without blocking. On success it
// returns a release func and true; if another holder owns the lock it
// returns false with no error.
func (l *RunLock) TryAcquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	key := "runlock:" + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl)
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %q: %w", name, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := l.client.Eval(ctx, releaseScript, []string{key}, token); err != nil {
			l.logger.Warn("Failed to release run lock; it will expire by TTL",
				zap.String("lock", name), zap.Error(err))
		}
	}
	return release, true, nil
}
