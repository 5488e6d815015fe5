package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uslugo/backend/internal/domain/providers"
	redisclient "github.com/uslugo/backend/internal/infrastructure/clients/redis"
)

func newTestStore(t *testing.T) (providers.RateLimitStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(redisclient.NewClientFromRedis(rdb)), mr
}

func TestRedisStoreCountsWithinWindow(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		count, expiresAt, err := store.Increment(ctx, "semantic:1.2.3.4", 10*time.Second)
		require.NoError(t, err)
		assert.Equal(t, i, count)
		assert.True(t, expiresAt.After(time.Now()))
	}
}

func TestRedisStoreWindowReset(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	count, _, err := store.Increment(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, _, err = store.Increment(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	mr.FastForward(11 * time.Second)

	count, _, err = store.Increment(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "expired window must reset wholesale")
}

func TestRedisStoreWindowDoesNotSlide(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.Increment(ctx, "k", 10*time.Second)
	require.NoError(t, err)

	mr.FastForward(6 * time.Second)

	// a second request must not extend the original window
	_, _, err = store.Increment(ctx, "k", 10*time.Second)
	require.NoError(t, err)

	mr.FastForward(5 * time.Second)

	count, _, err := store.Increment(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
