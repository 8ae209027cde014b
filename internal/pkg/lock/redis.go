package lock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still carries our token, so an
// expired lock re-acquired by someone else is never released by us.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// RedisLocker is a SET NX PX lock shared by every API instance.
type RedisLocker struct {
	client   redis.Cmdable
	ttl      time.Duration
	prefix   string
	newToken func() string
}

func NewRedisLocker(client redis.Cmdable, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client:   client,
		ttl:      ttl,
		prefix:   "ems:lock:",
		newToken: func() string { return uuid.NewString() },
	}
}

func (r *RedisLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	fullKey := r.prefix + key
	token := r.newToken()

	ok, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
	if err != nil {
		return func() {}, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return func() {}, false, nil
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Release with a fresh context: the request context may already be done.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := r.client.Eval(releaseCtx, releaseScript, []string{fullKey}, token).Err(); err != nil {
				slog.Error("Failed to release lock", "key", key, "error", err)
			}
		})
	}, true, nil
}

func (r *RedisLocker) Held(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check lock %s: %w", key, err)
	}
	return n > 0, nil
}
