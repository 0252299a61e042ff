package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// WriteLockKey names the shared lock guarding the submission store.
const WriteLockKey = "course-registration:store-write"

type distributedLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, error)
	Release(ctx context.Context, key, token string) error
}

// WriteGuard serialises store writes within the process and, when a distributed lock is configured,
// across replicas.
type WriteGuard struct {
	mu     sync.Mutex
	lock   distributedLock
	ttl    time.Duration
	logger *zap.Logger
}

// NewWriteGuard constructs a guard. lock may be nil for single-process deployments.
func NewWriteGuard(lock distributedLock, ttl time.Duration, logger *zap.Logger) *WriteGuard {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WriteGuard{lock: lock, ttl: ttl, logger: logger}
}

// Do runs fn while holding the write lock.
func (g *WriteGuard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lock == nil {
		return fn(ctx)
	}
	acquireCtx, cancel := context.WithTimeout(ctx, g.ttl)
	defer cancel()
	token, err := g.lock.Acquire(acquireCtx, WriteLockKey, g.ttl)
	if err != nil {
		return err
	}
	defer func() {
		if err := g.lock.Release(context.Background(), WriteLockKey, token); err != nil {
			g.logger.Warn("failed to release write lock", zap.Error(err))
		}
	}()
	return fn(ctx)
}
