package services

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/zatekoja/catalogsearch/internal/domain/providers"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/observability"
)

const cacheWriteTimeout = 2 * time.Second

// CacheWriter stores search responses in the background. Writes never block
// the caller and failures are only logged.
type CacheWriter struct {
	cache providers.CacheProvider
	pool  *ants.Pool
	ttl   time.Duration
	wg    sync.WaitGroup
}

// NewCacheWriter creates a cache writer backed by a pool of workers
func NewCacheWriter(cache providers.CacheProvider, workers int, ttl time.Duration) (*CacheWriter, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &CacheWriter{cache: cache, pool: pool, ttl: ttl}, nil
}

// Submit schedules a write of value under key. When the pool is saturated
// the write is dropped.
func (w *CacheWriter) Submit(key string, value []byte) {
	logger := observability.GetLogger()

	w.wg.Add(1)
	err := w.pool.Submit(func() {
		defer w.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()

		if err := w.cache.Set(ctx, key, value, int(w.ttl.Seconds())); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to write search response to cache")
		}
	})
	if err != nil {
		w.wg.Done()
		logger.Warn().Err(err).Str("key", key).Msg("cache write dropped")
	}
}

// Close waits for pending writes and releases the workers
func (w *CacheWriter) Close() {
	w.wg.Wait()
	w.pool.Release()
}
