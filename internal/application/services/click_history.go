package services

import (
	"context"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/zatekoja/catalogsearch/internal/domain/entities"
	"github.com/zatekoja/catalogsearch/internal/domain/repositories"
	apperrors "github.com/zatekoja/catalogsearch/pkg/errors"
)

// ClickHistoryResolver turns past search events into the items users visited
// from them.
type ClickHistoryResolver struct {
	catalog repositories.CatalogRepository
}

// NewClickHistoryResolver creates a new click history resolver
func NewClickHistoryResolver(catalog repositories.CatalogRepository) *ClickHistoryResolver {
	return &ClickHistoryResolver{catalog: catalog}
}

// Resolve returns one item per event carrying a visited id of the given kind,
// in event order. An id visited n times yields n entries. Ids that no longer
// resolve are skipped.
func (r *ClickHistoryResolver) Resolve(ctx context.Context, events []*entities.SearchEvent, kind entities.ItemKind) ([]entities.SearchableItem, error) {
	ids := make([]string, 0, len(events))
	unique := make(map[string]struct{})
	for _, event := range events {
		if event == nil {
			continue
		}
		if id, ok := event.VisitedID(kind); ok {
			ids = append(ids, id)
			unique[id] = struct{}{}
		}
	}

	items := make([]entities.SearchableItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	loader := r.newLoader(kind, len(unique))

	// Loads for a repeated id share one thunk, so the batch sees each id once.
	thunks := make([]dataloader.Thunk[entities.SearchableItem], len(ids))
	for i, id := range ids {
		thunks[i] = loader.Load(ctx, id)
	}

	for _, thunk := range thunks {
		item, err := thunk()
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, apperrors.NewStorageError("failed to resolve click history", err)
		}
		items = append(items, item)
	}

	return items, nil
}

// ResolveProducts resolves visited products for events
func (r *ClickHistoryResolver) ResolveProducts(ctx context.Context, events []*entities.SearchEvent) ([]*entities.Product, error) {
	items, err := r.Resolve(ctx, events, entities.ItemKindProduct)
	if err != nil {
		return nil, err
	}
	return narrow[*entities.Product](items), nil
}

// ResolveCategories resolves visited categories for events
func (r *ClickHistoryResolver) ResolveCategories(ctx context.Context, events []*entities.SearchEvent) ([]*entities.Category, error) {
	items, err := r.Resolve(ctx, events, entities.ItemKindCategory)
	if err != nil {
		return nil, err
	}
	return narrow[*entities.Category](items), nil
}

// newLoader builds a loader scoped to a single resolution. The batch fires as
// soon as every distinct id has been requested.
func (r *ClickHistoryResolver) newLoader(kind entities.ItemKind, distinct int) *dataloader.Loader[string, entities.SearchableItem] {
	batch := func(ctx context.Context, keys []string) []*dataloader.Result[entities.SearchableItem] {
		results := make([]*dataloader.Result[entities.SearchableItem], len(keys))
		found, err := r.catalog.GetByIDs(ctx, kind, keys)

		itemMap := make(map[string]entities.SearchableItem, len(found))
		if err == nil {
			for _, item := range found {
				if item != nil {
					itemMap[item.ItemID()] = item
				}
			}
		}

		for i, key := range keys {
			if err != nil {
				results[i] = &dataloader.Result[entities.SearchableItem]{Error: err}
			} else if item, ok := itemMap[key]; ok {
				results[i] = &dataloader.Result[entities.SearchableItem]{Data: item}
			} else {
				results[i] = &dataloader.Result[entities.SearchableItem]{
					Error: apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", kind, key)),
				}
			}
		}
		return results
	}

	return dataloader.NewBatchedLoader(batch,
		dataloader.WithBatchCapacity[string, entities.SearchableItem](distinct),
		dataloader.WithWait[string, entities.SearchableItem](time.Millisecond),
	)
}

func narrow[T entities.SearchableItem](items []entities.SearchableItem) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if v, ok := item.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
