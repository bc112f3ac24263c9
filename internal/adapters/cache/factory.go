package cache

import (
	"fmt"

	"github.com/zatekoja/catalogsearch/internal/domain/providers"
	redisclient "github.com/zatekoja/catalogsearch/internal/infrastructure/clients/redis"
	"github.com/zatekoja/catalogsearch/pkg/config"
)

// NewProvider builds the cache backend named by cfg.Cache.Backend. The
// returned close func releases the backend's connections or files.
func NewProvider(cfg *config.Config) (providers.CacheProvider, func() error, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisAdapter(client), client.Close, nil
	case config.CacheBackendBadger:
		adapter, err := NewBadgerAdapter(cfg.Cache.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		return adapter, adapter.Close, nil
	case config.CacheBackendNone:
		return NewNoopAdapter(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
