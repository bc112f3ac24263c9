package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/rs/zerolog"
	"github.com/zatekoja/catalogsearch/internal/domain/providers"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/catalogsearch/pkg/errors"
)

// badgerLogger routes badger's internal logging through zerolog
type badgerLogger struct {
	logger *zerolog.Logger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (l *badgerLogger) Errorf(msg string, items ...interface{}) {
	l.logger.Error().Msg(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (l *badgerLogger) Warningf(msg string, items ...interface{}) {
	l.logger.Warn().Msg(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (l *badgerLogger) Infof(msg string, items ...interface{}) {
	l.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (l *badgerLogger) Debugf(msg string, items ...interface{}) {
	l.logger.Trace().Msg(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

// BadgerAdapter implements the CacheProvider interface on an embedded
// Badger store, for single-node deployments without Redis.
type BadgerAdapter struct {
	db *badger.DB
}

// NewBadgerAdapter opens a Badger cache at path. An empty path keeps the
// cache in memory.
func NewBadgerAdapter(path string) (*BadgerAdapter, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		opts = badger.DefaultOptions(path)
	}

	logger := observability.GetLogger().With().Str("component", "badger").Logger()
	opts.Logger = &badgerLogger{logger: &logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}

	return &BadgerAdapter{db: db}, nil
}

var _ providers.CacheProvider = (*BadgerAdapter)(nil)

// Get retrieves a value from cache
func (a *BadgerAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, apperrors.ErrCacheMiss
	}
	if err != nil {
		return nil, apperrors.NewCacheError("failed to get from cache", err)
	}
	return value, nil
}

// Set stores a value in cache with expiration
func (a *BadgerAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	entry := badger.NewEntry([]byte(key), value)
	if expirationSeconds > 0 {
		entry = entry.WithTTL(time.Duration(expirationSeconds) * time.Second)
	}

	if err := a.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	}); err != nil {
		return apperrors.NewCacheError("failed to set in cache", err)
	}
	return nil
}

// Delete removes a value from cache
func (a *BadgerAdapter) Delete(ctx context.Context, key string) error {
	if err := a.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	}); err != nil {
		return apperrors.NewCacheError("failed to delete from cache", err)
	}
	return nil
}

// Exists checks if a key exists in cache
func (a *BadgerAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.Get(ctx, key)
	if errors.Is(err, apperrors.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Close closes the underlying store
func (a *BadgerAdapter) Close() error {
	return a.db.Close()
}
