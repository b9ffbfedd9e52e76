package recurrence

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker grants at most one holder of a named lease at a time across
// every replica running the engine.
type Locker interface {
	// TryLock returns ok=false without error when another holder has the
	// lease. When ok is true the caller must call release.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

// LocalLocker always grants the lease. Use it with a single replica.
type LocalLocker struct{}

// TryLock implements Locker.
func (LocalLocker) TryLock(context.Context, string, time.Duration) (func(context.Context) error, bool, error) {
	return func(context.Context) error { return nil }, true, nil
}

// releaseScript deletes the lease only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker implements Locker with SET NX PX and a token-checked release.
type RedisLocker struct {
	rdb *redis.Client
}

// NewRedisLocker connects to addr and verifies the connection.
func NewRedisLocker(ctx context.Context, addr string) (*RedisLocker, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisLocker{rdb: rdb}, nil
}

// TryLock implements Locker.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return nil, false, fmt.Errorf("failed to generate lock token: %w", err)
	}
	token := hex.EncodeToString(b)

	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		return nil
	}
	return release, true, nil
}

// Close closes the Redis connection.
func (l *RedisLocker) Close() error {
	return l.rdb.Close()
}
