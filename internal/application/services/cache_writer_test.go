package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/catalogsearch/internal/application/services"
)

func TestCacheWriter(t *testing.T) {
	t.Run("writes with the configured ttl", func(t *testing.T) {
		cache := new(MockCacheProvider)
		writer, err := services.NewCacheWriter(cache, 4, 90*time.Second)
		require.NoError(t, err)

		cache.On("Set", mock.Anything, "search:a", []byte("A"), 90).Return(nil)
		cache.On("Set", mock.Anything, "search:b", []byte("B"), 90).Return(nil)

		writer.Submit("search:a", []byte("A"))
		writer.Submit("search:b", []byte("B"))
		writer.Close()

		cache.AssertExpectations(t)
	})

	t.Run("failures are swallowed", func(t *testing.T) {
		cache := new(MockCacheProvider)
		writer, err := services.NewCacheWriter(cache, 0, time.Minute)
		require.NoError(t, err)

		cache.On("Set", mock.Anything, "search:a", mock.Anything, 60).Return(errors.New("OOM"))

		writer.Submit("search:a", []byte("A"))
		writer.Close()

		cache.AssertExpectations(t)
	})
}
