package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/catalogsearch/internal/domain/entities"
)

// VisitService defines the interface for viewing catalog items
type VisitService interface {
	ViewProduct(ctx context.Context, productID, searchID string) (*entities.Product, error)
	ViewCategory(ctx context.Context, categoryID, searchID string) (*entities.Category, error)
}

// CatalogHandler serves single products and categories. A search_id query
// parameter attributes the view to the search it came from.
type CatalogHandler struct {
	service VisitService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service VisitService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	product, err := h.service.ViewProduct(r.Context(), id, r.URL.Query().Get("search_id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

// GetCategory handles GET /api/categories/{id}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "category ID is required")
		return
	}

	category, err := h.service.ViewCategory(r.Context(), id, r.URL.Query().Get("search_id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, category)
}
