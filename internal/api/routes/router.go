package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/zatekoja/catalogsearch/internal/api/handlers"
	"github.com/zatekoja/catalogsearch/internal/api/middleware"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/observability"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler  *handlers.SearchHandler
	catalogHandler *handlers.CatalogHandler

	db             Pinger
	metrics        *observability.Metrics
	allowedOrigins []string
}

// NewRouter creates a new router. db may be nil, in which case /health
// only reports process liveness.
func NewRouter(
	searchHandler *handlers.SearchHandler,
	catalogHandler *handlers.CatalogHandler,
	db Pinger,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		searchHandler:  searchHandler,
		catalogHandler: catalogHandler,
		db:             db,
		metrics:        metrics,
		allowedOrigins: allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.health)

	r.mux.HandleFunc("GET /api/search", r.searchHandler.Search)

	r.mux.HandleFunc("GET /api/products/{id}", r.catalogHandler.GetProduct)
	r.mux.HandleFunc("GET /api/categories/{id}", r.catalogHandler.GetCategory)

	// Last wrapper runs first
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	if r.db != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if err := r.db.Ping(ctx); err != nil {
			observability.LoggerFromContext(req.Context()).Error().Err(err).Msg("health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
