package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLockHeld is returned when the lock is still owned by someone else once the wait budget is spent.
var ErrLockHeld = errors.New("write lock held by another writer")

// releaseScript deletes the key only when it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// LockRepository implements a Redis mutual-exclusion lock shared by every API replica.
type LockRepository struct {
	client    *redis.Client
	logger    *zap.Logger
	retryWait time.Duration
}

// NewLockRepository constructs a lock repository. A nil client makes every call a no-op.
func NewLockRepository(client *redis.Client, logger *zap.Logger) *LockRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LockRepository{client: client, logger: logger, retryWait: 50 * time.Millisecond}
}

// Enabled reports whether a Redis client is configured.
func (r *LockRepository) Enabled() bool {
	return r != nil && r.client != nil
}

// Acquire takes the lock at key for at most ttl, polling until ctx is done. The returned token must be
// passed to Release.
func (r *LockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if !r.Enabled() {
		return "", nil
	}
	token := uuid.NewString()
	for {
		ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return "", fmt.Errorf("redis setnx %s: %w", key, err)
		}
		if ok {
			return token, nil
		}
		timer := time.NewTimer(r.retryWait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("%w: %v", ErrLockHeld, ctx.Err())
		case <-timer.C:
		}
	}
}

// Release frees the lock if token still owns it. An expired lock is logged, not treated as failure.
func (r *LockRepository) Release(ctx context.Context, key, token string) error {
	if !r.Enabled() || token == "" {
		return nil
	}
	n, err := releaseScript.Run(ctx, r.client, []string{key}, token).Int()
	if err != nil {
		return fmt.Errorf("redis release %s: %w", key, err)
	}
	if n == 0 {
		r.logger.Warn("write lock expired before release", zap.String("key", key))
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *LockRepository) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Close()
}
