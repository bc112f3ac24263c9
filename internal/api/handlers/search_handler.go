package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/catalogsearch/internal/domain/entities"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/observability"
)

// UserIDHeader carries the optional caller identity recorded on search events
const UserIDHeader = "X-User-ID"

// SearchService defines the interface for catalog search
type SearchService interface {
	Search(ctx context.Context, req entities.SearchRequest) (*entities.SearchResponse, error)
}

// SearchHandler handles catalog search requests
type SearchHandler struct {
	service SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service SearchService) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// Search handles GET /api/search?q=&category=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := entities.SearchRequest{
		Query:          query.Get("q"),
		CategoryFilter: query.Get("category"),
		UserID:         strings.TrimSpace(r.Header.Get(UserIDHeader)),
	}

	ctx := observability.WithUserID(r.Context(), req.UserID)

	resp, err := h.service.Search(ctx, req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
