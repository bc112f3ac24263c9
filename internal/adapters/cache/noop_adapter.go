package cache

import (
	"context"

	"github.com/zatekoja/catalogsearch/internal/domain/providers"
	apperrors "github.com/zatekoja/catalogsearch/pkg/errors"
)

// NoopAdapter is used when caching is disabled: every lookup misses and
// writes are discarded.
type NoopAdapter struct{}

// NewNoopAdapter creates a cache that never stores anything
func NewNoopAdapter() providers.CacheProvider {
	return NoopAdapter{}
}

func (NoopAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, apperrors.ErrCacheMiss
}

func (NoopAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	return nil
}

func (NoopAdapter) Delete(ctx context.Context, key string) error {
	return nil
}

func (NoopAdapter) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}
