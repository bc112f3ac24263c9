package repositories

import (
	"context"
	"strings"

	"github.com/zatekoja/catalogsearch/internal/domain/entities"
)

// CatalogRepository defines read access to products and categories, plus the
// writes needed to seed a catalog.
type CatalogRepository interface {
	// FindProducts returns products matching the filter in the store's natural order
	FindProducts(ctx context.Context, filter CatalogFilter) ([]*entities.Product, error)

	// FindCategories returns categories matching the filter in the store's natural order
	FindCategories(ctx context.Context, filter CatalogFilter) ([]*entities.Category, error)

	// GetByID retrieves one item; a missing item yields a NOT_FOUND AppError
	GetByID(ctx context.Context, kind entities.ItemKind, id string) (entities.SearchableItem, error)

	// GetByIDs retrieves the items that exist among ids, in no particular order
	GetByIDs(ctx context.Context, kind entities.ItemKind, ids []string) ([]entities.SearchableItem, error)

	// UpsertProduct creates or replaces a product
	UpsertProduct(ctx context.Context, product *entities.Product) error

	// UpsertCategory creates or replaces a category
	UpsertCategory(ctx context.Context, category *entities.Category) error
}

// AllCategories is the category filter value meaning "no filter"
const AllCategories = "all"

// CatalogFilter is the matching predicate handed to the catalog store:
// an item matches when ANY keyword occurs case-insensitively as a substring
// of ANY of Fields. A non-empty CategoryID additionally restricts products
// to those listed under it and categories to that exact id.
type CatalogFilter struct {
	Kind       entities.ItemKind
	Keywords   []string
	Fields     []string
	CategoryID string
}

// Matches evaluates the filter against an in-memory item. Stores that can
// push the filter down must return the same set.
func (f CatalogFilter) Matches(item entities.SearchableItem) bool {
	if item == nil || item.ItemKind() != f.Kind {
		return false
	}

	if f.CategoryID != "" {
		switch v := item.(type) {
		case *entities.Product:
			if !v.HasCategory(f.CategoryID) {
				return false
			}
		case *entities.Category:
			if v.ID != f.CategoryID {
				return false
			}
		}
	}

	values := item.SearchFields()
	for _, kw := range f.Keywords {
		if kw == "" {
			continue
		}
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), kw) {
				return true
			}
		}
	}
	return false
}
