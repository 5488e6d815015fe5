package cache

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

func newTestAdapter(t *testing.T) (providers.CacheProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisAdapter(redisclient.NewClientFromRedis(rdb)), mr
}

func TestGetSetRoundtrip(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "suggest:v1:u1:10", []byte(`{"suggestions":[]}`), 180))

	got, err := adapter.Get(ctx, "suggest:v1:u1:10")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"suggestions":[]}`), got)

	exists, err := adapter.Exists(ctx, "suggest:v1:u1:10")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetMissingKey(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	_, err := adapter.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key not found")
}

func TestSetExpiry(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 60))

	mr.FastForward(61 * time.Second)

	_, err := adapter.Get(ctx, "k")
	require.Error(t, err)
}

func TestDeleteByPrefixSweepsNamespace(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "suggest:v1:u1:10", []byte("a"), 180))
	require.NoError(t, adapter.Set(ctx, "suggest:v1:anon:10", []byte("b"), 180))
	require.NoError(t, adapter.Set(ctx, "search:v1:abc", []byte("c"), 180))

	require.NoError(t, adapter.DeleteByPrefix(ctx, "suggest:"))

	for _, key := range []string{"suggest:v1:u1:10", "suggest:v1:anon:10"} {
		exists, err := adapter.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists, key)
	}

	exists, err := adapter.Exists(ctx, "search:v1:abc")
	require.NoError(t, err)
	assert.True(t, exists, "keys outside the prefix must survive the sweep")
}
