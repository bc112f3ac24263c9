package cache_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/catalogsearch/internal/adapters/cache"
	"github.com/zatekoja/catalogsearch/internal/domain/providers"
	redisclient "github.com/zatekoja/catalogsearch/internal/infrastructure/clients/redis"
	"github.com/zatekoja/catalogsearch/pkg/config"
	apperrors "github.com/zatekoja/catalogsearch/pkg/errors"
)

func newRedisAdapter(t *testing.T) (providers.CacheProvider, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := redisclient.NewClient(&config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return cache.NewRedisAdapter(client), mr
}

func newBadgerAdapter(t *testing.T) *cache.BadgerAdapter {
	t.Helper()

	adapter, err := cache.NewBadgerAdapter("")
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return adapter
}

// exerciseProvider checks the behaviour every cache backend shares
func exerciseProvider(t *testing.T, provider providers.CacheProvider) {
	ctx := context.Background()

	_, err := provider.Get(ctx, "search:missing")
	assert.ErrorIs(t, err, apperrors.ErrCacheMiss)

	require.NoError(t, provider.Set(ctx, "search:k", []byte(`{"searchId":"e1"}`), 60))

	got, err := provider.Get(ctx, "search:k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"searchId":"e1"}`), got)

	exists, err := provider.Exists(ctx, "search:k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, provider.Delete(ctx, "search:k"))

	exists, err = provider.Exists(ctx, "search:k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisAdapter(t *testing.T) {
	provider, _ := newRedisAdapter(t)
	exerciseProvider(t, provider)
}

func TestRedisAdapter_Expiry(t *testing.T) {
	provider, mr := newRedisAdapter(t)
	ctx := context.Background()

	require.NoError(t, provider.Set(ctx, "search:ttl", []byte("v"), 30))
	mr.FastForward(31 * time.Second)

	_, err := provider.Get(ctx, "search:ttl")
	assert.ErrorIs(t, err, apperrors.ErrCacheMiss)
}

func TestRedisAdapter_UnreachableIsCacheError(t *testing.T) {
	provider, mr := newRedisAdapter(t)
	mr.Close()

	_, err := provider.Get(context.Background(), "search:k")

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrCacheMiss)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeCache))
}

func TestBadgerAdapter(t *testing.T) {
	exerciseProvider(t, newBadgerAdapter(t))
}

func TestBadgerAdapter_ZeroExpiryKeepsValue(t *testing.T) {
	adapter := newBadgerAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "search:forever", []byte("v"), 0))

	got, err := adapter.Get(ctx, "search:forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestNoopAdapter(t *testing.T) {
	provider := cache.NewNoopAdapter()
	ctx := context.Background()

	require.NoError(t, provider.Set(ctx, "search:k", []byte("v"), 60))

	_, err := provider.Get(ctx, "search:k")
	assert.ErrorIs(t, err, apperrors.ErrCacheMiss)

	exists, err := provider.Exists(ctx, "search:k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewProvider(t *testing.T) {
	t.Run("badger in memory", func(t *testing.T) {
		cfg := &config.Config{Cache: config.CacheConfig{Backend: config.CacheBackendBadger}}

		provider, closeFn, err := cache.NewProvider(cfg)
		require.NoError(t, err)
		defer closeFn()

		assert.IsType(t, &cache.BadgerAdapter{}, provider)
	})

	t.Run("none", func(t *testing.T) {
		cfg := &config.Config{Cache: config.CacheConfig{Backend: config.CacheBackendNone}}

		provider, closeFn, err := cache.NewProvider(cfg)
		require.NoError(t, err)
		assert.NoError(t, closeFn())

		_, err = provider.Get(context.Background(), "search:k")
		assert.ErrorIs(t, err, apperrors.ErrCacheMiss)
	})

	t.Run("redis", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()
		port, err := strconv.Atoi(mr.Port())
		require.NoError(t, err)

		cfg := &config.Config{
			Cache: config.CacheConfig{Backend: config.CacheBackendRedis},
			Redis: config.RedisConfig{Host: mr.Host(), Port: port},
		}

		provider, closeFn, err := cache.NewProvider(cfg)
		require.NoError(t, err)
		defer closeFn()

		assert.IsType(t, &cache.RedisAdapter{}, provider)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := cache.NewProvider(&config.Config{Cache: config.CacheConfig{Backend: "memcached"}})
		assert.Error(t, err)
	})
}
