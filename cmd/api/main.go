package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zatekoja/catalogsearch/internal/adapters/cache"
	"github.com/zatekoja/catalogsearch/internal/adapters/database"
	"github.com/zatekoja/catalogsearch/internal/api/handlers"
	"github.com/zatekoja/catalogsearch/internal/api/routes"
	"github.com/zatekoja/catalogsearch/internal/application/ranking"
	"github.com/zatekoja/catalogsearch/internal/application/services"
	"github.com/zatekoja/catalogsearch/internal/domain/providers"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/observability"
	"github.com/zatekoja/catalogsearch/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env, cfg.App.LogLevel)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(&cfg.Database); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	cacheProvider, closeCache, err := cache.NewProvider(cfg)
	if err != nil {
		// Search works without a cache
		logger.Warn().Err(err).Str("backend", cfg.Cache.Backend).Msg("cache unavailable, continuing without it")
		cacheProvider, closeCache = cache.NewNoopAdapter(), func() error { return nil }
	}
	defer closeCache()

	cacheWriter, err := services.NewCacheWriter(cacheProvider, cfg.Cache.Workers, cfg.Search.CacheTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create cache writer")
	}
	defer cacheWriter.Close()

	server := newServer(cfg, pgClient, cacheProvider, cacheWriter, metrics)

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}

// newServer wires the adapters, services and routes into an HTTP server
// listening on the configured address.
func newServer(
	cfg *config.Config,
	pgClient *postgres.Client,
	cacheProvider providers.CacheProvider,
	cacheWriter *services.CacheWriter,
	metrics *observability.Metrics,
) *http.Server {
	catalogAdapter := database.NewCatalogAdapter(pgClient)
	searchEventAdapter := database.NewSearchEventAdapter(pgClient)

	tokenizer := ranking.NewTokenizer(ranking.WithMinQueryLength(cfg.Search.MinQueryLength))
	searchService := services.NewSearchService(catalogAdapter, searchEventAdapter, tokenizer, cacheProvider, cacheWriter, metrics)
	visitService := services.NewVisitService(catalogAdapter, searchEventAdapter)

	router := routes.NewRouter(
		handlers.NewSearchHandler(searchService),
		handlers.NewCatalogHandler(visitService),
		pgClient,
		metrics,
		cfg.Server.AllowedOrigins,
	)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
