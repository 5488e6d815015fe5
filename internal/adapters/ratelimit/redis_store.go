package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uslugo/backend/internal/domain/providers"
	redisclient "github.com/uslugo/backend/internal/infrastructure/clients/redis"
)

// incrScript bumps the counter and starts the window atomically. PEXPIRE is
// only set on the first increment so the window never slides forward under
// sustained traffic. Returns the count and the remaining window in ms.
var incrScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisStore implements RateLimitStore on Redis. Counters are shared across
// instances so the limit holds fleet-wide.
type RedisStore struct {
	client *redisclient.Client
}

// NewRedisStore creates a Redis-backed rate limit store
func NewRedisStore(client *redisclient.Client) providers.RateLimitStore {
	return &RedisStore{client: client}
}

// Increment bumps the counter for key, starting a new window if none is
// active
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	result, err := incrScript.Run(ctx, s.client.Client(), []string{key}, window.Milliseconds()).Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if len(result) != 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected rate limit script reply: %v", result)
	}

	count, ok := result[0].(int64)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("unexpected rate limit count type: %T", result[0])
	}
	ttlMs, ok := result[1].(int64)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("unexpected rate limit ttl type: %T", result[1])
	}

	expiresAt := time.Now().Add(time.Duration(ttlMs) * time.Millisecond)
	return count, expiresAt, nil
}
