package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marketloop/authd/core"
	"github.com/marketloop/authd/ports"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the registry entry lifetime, matching the refresh token lifetime
const DefaultTTL = 7 * 24 * time.Hour

const keyPrefix = "refreshToken:"

// compareAndRevoke deletes the key only when it still holds the expected value,
// so a stale logout cannot revoke a session started by a later login.
var compareAndRevoke = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRegistry is a Redis implementation of the SessionRegistry interface
type RedisRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRegistry creates a new Redis-backed session registry
func NewRedisRegistry(client *redis.Client, ttl time.Duration) ports.SessionRegistry {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &RedisRegistry{client: client, ttl: ttl}
}

// Store upserts the refresh token for userID with the registry TTL
func (r *RedisRegistry) Store(ctx context.Context, userID, refreshToken string) error {
	if err := r.client.Set(ctx, keyPrefix+userID, refreshToken, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Lookup returns the active refresh token for userID
func (r *RedisRegistry) Lookup(ctx context.Context, userID string) (string, error) {
	value, err := r.client.Get(ctx, keyPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", core.ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to look up session: %w", err)
	}
	return value, nil
}

// Revoke deletes the entry for userID
func (r *RedisRegistry) Revoke(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// CompareAndRevoke atomically deletes the entry for userID if it equals expected
func (r *RedisRegistry) CompareAndRevoke(ctx context.Context, userID, expected string) error {
	deleted, err := compareAndRevoke.Run(ctx, r.client, []string{keyPrefix + userID}, expected).Int()
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if deleted == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}
