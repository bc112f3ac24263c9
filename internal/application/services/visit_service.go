package services

import (
	"context"

	"github.com/zatekoja/catalogsearch/internal/domain/entities"
	"github.com/zatekoja/catalogsearch/internal/domain/repositories"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/catalogsearch/pkg/errors"
)

// VisitService serves product and category views and attributes them to the
// search they came from.
type VisitService struct {
	catalog repositories.CatalogRepository
	events  repositories.SearchEventRepository
}

// NewVisitService creates a new visit service
func NewVisitService(catalog repositories.CatalogRepository, events repositories.SearchEventRepository) *VisitService {
	return &VisitService{catalog: catalog, events: events}
}

// ViewProduct returns a product and records it as visited on searchID
func (s *VisitService) ViewProduct(ctx context.Context, productID, searchID string) (*entities.Product, error) {
	item, err := s.view(ctx, entities.ItemKindProduct, productID, searchID)
	if err != nil {
		return nil, err
	}
	product, ok := item.(*entities.Product)
	if !ok {
		return nil, apperrors.NewInternalError("unexpected catalog item type", nil)
	}
	return product, nil
}

// ViewCategory returns a category and records it as visited on searchID
func (s *VisitService) ViewCategory(ctx context.Context, categoryID, searchID string) (*entities.Category, error) {
	item, err := s.view(ctx, entities.ItemKindCategory, categoryID, searchID)
	if err != nil {
		return nil, err
	}
	category, ok := item.(*entities.Category)
	if !ok {
		return nil, apperrors.NewInternalError("unexpected catalog item type", nil)
	}
	return category, nil
}

func (s *VisitService) view(ctx context.Context, kind entities.ItemKind, itemID, searchID string) (entities.SearchableItem, error) {
	ctx, span := observability.StartSpan(ctx, "VisitService.view")
	defer span.End()

	if itemID == "" {
		return nil, apperrors.NewValidationError("id is required")
	}

	item, err := s.catalog.GetByID(ctx, kind, itemID)
	if err != nil {
		observability.RecordError(span, err)
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, asStorageError("failed to load "+string(kind), err)
	}

	if searchID == "" {
		return item, nil
	}

	if err := s.attribute(ctx, kind, itemID, searchID); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return item, nil
}

// attribute sets the visited id on the search event unless one is already
// recorded for kind. Unknown search ids are ignored.
func (s *VisitService) attribute(ctx context.Context, kind entities.ItemKind, itemID, searchID string) error {
	logger := observability.LoggerFromContext(ctx)

	recorded, err := s.events.MarkVisited(context.WithoutCancel(ctx), searchID, kind, itemID)
	if err != nil {
		return asStorageError("failed to record visit", err)
	}

	event := logger.Debug().
		Str("search_id", searchID).
		Str("kind", string(kind)).
		Str("item_id", itemID)
	if !recorded {
		event.Msg("visit not attributed: unknown search or already visited")
		return nil
	}
	event.Msg("visit recorded")
	return nil
}
