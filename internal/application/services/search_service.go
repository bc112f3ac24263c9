package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/zatekoja/catalogsearch/internal/application/ranking"
	"github.com/zatekoja/catalogsearch/internal/domain/entities"
	"github.com/zatekoja/catalogsearch/internal/domain/providers"
	"github.com/zatekoja/catalogsearch/internal/domain/repositories"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/catalogsearch/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const searchCacheKeyPrefix = "search:"

// cacheSubmitter schedules best-effort cache writes
type cacheSubmitter interface {
	Submit(key string, value []byte)
}

// SearchService runs the catalog search pipeline: tokenize, query, score,
// record the search, boost by click history and merge.
type SearchService struct {
	catalog   repositories.CatalogRepository
	events    repositories.SearchEventRepository
	history   *ClickHistoryResolver
	tokenizer *ranking.Tokenizer
	cache     providers.CacheProvider
	writer    cacheSubmitter
	metrics   *observability.Metrics
}

// NewSearchService creates a new search service. cache and writer may be nil,
// in which case every lookup is a miss and nothing is written.
func NewSearchService(
	catalog repositories.CatalogRepository,
	events repositories.SearchEventRepository,
	tokenizer *ranking.Tokenizer,
	cache providers.CacheProvider,
	writer *CacheWriter,
	metrics *observability.Metrics,
) *SearchService {
	if tokenizer == nil {
		tokenizer = ranking.NewTokenizer()
	}
	s := &SearchService{
		catalog:   catalog,
		events:    events,
		history:   NewClickHistoryResolver(catalog),
		tokenizer: tokenizer,
		cache:     cache,
		metrics:   metrics,
	}
	// Keep the interface nil when no writer is configured.
	if writer != nil {
		s.writer = writer
	}
	return s
}

// scoredLists holds the score-ranked candidates of both kinds
type scoredLists struct {
	products   []*entities.Product
	categories []*entities.Category
}

// Search executes one search. It fails with a VALIDATION error for short
// queries and a STORAGE error when the catalog or event store fails.
func (s *SearchService) Search(ctx context.Context, req entities.SearchRequest) (*entities.SearchResponse, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "SearchService.Search")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	if err := s.tokenizer.Validate(req.Query); err != nil {
		observability.RecordSearch(ctx, s.metrics, "invalid_query", time.Since(start))
		return nil, err
	}

	term := ranking.Sanitize(req.Query)
	categoryID := ranking.NormalizeCategoryFilter(req.CategoryFilter)
	cacheKey := SearchCacheKey(term, categoryID)

	observability.SetSpanAttributes(span,
		attribute.String("search.term", term),
		attribute.String("search.category", categoryID),
	)

	if cached, ok := s.lookupCache(ctx, cacheKey); ok {
		logger.Debug().Str("key", cacheKey).Msg("search cache hit")
		observability.RecordSearch(ctx, s.metrics, "cache_hit", time.Since(start))
		return cached, nil
	}

	keywords := s.tokenizer.Tokenize(req.Query)

	scored, err := s.queryAndScore(ctx, keywords, categoryID)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordSearch(ctx, s.metrics, "storage_error", time.Since(start))
		logger.Error().Err(err).Str("term", term).Msg("catalog lookup failed")
		return nil, err
	}

	event, err := s.recordEvent(ctx, term, req.UserID)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordSearch(ctx, s.metrics, "storage_error", time.Since(start))
		logger.Error().Err(err).Str("term", term).Msg("failed to persist search event")
		return nil, err
	}

	resp, err := s.boostByHistory(ctx, term, scored)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordSearch(ctx, s.metrics, "storage_error", time.Since(start))
		logger.Error().Err(err).Str("term", term).Msg("click history lookup failed")
		return nil, err
	}
	resp.SearchID = event.ID

	s.storeCache(ctx, cacheKey, resp)

	observability.RecordSearch(ctx, s.metrics, "ok", time.Since(start))
	logger.Info().
		Str("search_id", resp.SearchID).
		Int("keywords", len(keywords)).
		Int("products", len(resp.Products)).
		Int("categories", len(resp.Categories)).
		Msg("search completed")

	return resp, nil
}

// SearchCacheKey derives the response cache key from the sanitized term and
// the normalized category filter. A cache hit returns the searchId of the
// search that filled the entry, so every caller within the TTL shares one
// event and only the first visit through it is attributed.
func SearchCacheKey(term, categoryID string) string {
	sum := sha256.Sum256([]byte(term + "\x00" + categoryID))
	return searchCacheKeyPrefix + hex.EncodeToString(sum[:])
}

// lookupCache returns a cached response. Any cache failure counts as a miss.
func (s *SearchService) lookupCache(ctx context.Context, key string) (*entities.SearchResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	ctx, span := observability.StartSpan(ctx, "SearchService.lookupCache")
	defer span.End()

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrCacheMiss) {
			cacheErr := apperrors.NewCacheError("cache lookup failed", err)
			observability.LoggerFromContext(ctx).Warn().Err(cacheErr).Str("key", key).Msg("treating cache error as miss")
		}
		observability.RecordCacheMiss(ctx, s.metrics)
		return nil, false
	}

	var resp entities.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		cacheErr := apperrors.NewCacheError("corrupt cached search response", err)
		observability.LoggerFromContext(ctx).Warn().Err(cacheErr).Str("key", key).Msg("treating cache error as miss")
		observability.RecordCacheMiss(ctx, s.metrics)
		return nil, false
	}

	observability.RecordCacheHit(ctx, s.metrics)
	return &resp, true
}

func (s *SearchService) storeCache(ctx context.Context, key string, resp *entities.SearchResponse) {
	if s.writer == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to encode search response for cache")
		return
	}
	s.writer.Submit(key, data)
}

// queryAndScore fetches and ranks products and categories concurrently.
// Either failure cancels the other lookup.
func (s *SearchService) queryAndScore(ctx context.Context, keywords []string, categoryID string) (*scoredLists, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.queryAndScore")
	defer span.End()

	out := &scoredLists{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		filter := ranking.BuildPredicate(entities.ItemKindProduct, keywords, categoryID)
		products, err := s.catalog.FindProducts(gctx, filter)
		if err != nil {
			return asStorageError("failed to query products", err)
		}
		out.products = ranking.Items(ranking.RankByScore(products, filter.Keywords))
		return nil
	})

	g.Go(func() error {
		filter := ranking.BuildPredicate(entities.ItemKindCategory, keywords, categoryID)
		categories, err := s.catalog.FindCategories(gctx, filter)
		if err != nil {
			return asStorageError("failed to query categories", err)
		}
		out.categories = ranking.Items(ranking.RankByScore(categories, filter.Keywords))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// recordEvent persists the search. The write survives cancellation of the
// request once issued.
func (s *SearchService) recordEvent(ctx context.Context, term, userID string) (*entities.SearchEvent, error) {
	ctx, span := observability.StartSpan(context.WithoutCancel(ctx), "SearchService.recordEvent")
	defer span.End()

	event := &entities.SearchEvent{SearchTerm: term}
	if userID != "" {
		event.UserID = &userID
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, asStorageError("failed to create search event", err)
	}
	return event, nil
}

// boostByHistory merges each kind's score-ranked list with the items previously
// visited from searches for exactly the same term.
func (s *SearchService) boostByHistory(ctx context.Context, term string, scored *scoredLists) (*entities.SearchResponse, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.boostByHistory")
	defer span.End()

	// A query of only punctuation sanitizes to "", which has no history of its own.
	var past []*entities.SearchEvent
	if term != "" {
		var err error
		past, err = s.events.FindByTerm(ctx, term)
		if err != nil {
			return nil, asStorageError("failed to load search history", err)
		}
	}

	resp := &entities.SearchResponse{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		clicked, err := s.history.ResolveProducts(gctx, past)
		if err != nil {
			return err
		}
		resp.Products = ranking.MergeByPopularity(clicked, scored.products)
		return nil
	})

	g.Go(func() error {
		clicked, err := s.history.ResolveCategories(gctx, past)
		if err != nil {
			return err
		}
		resp.Categories = ranking.MergeByPopularity(clicked, scored.categories)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}

// asStorageError keeps existing storage errors and wraps anything else
func asStorageError(message string, err error) error {
	if apperrors.IsType(err, apperrors.ErrorTypeStorage) {
		return err
	}
	return apperrors.NewStorageError(message, err)
}
