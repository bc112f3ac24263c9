package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/catalogsearch/internal/domain/entities"
	"github.com/zatekoja/catalogsearch/internal/domain/repositories"
)

// Mocks

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) FindProducts(ctx context.Context, filter repositories.CatalogFilter) ([]*entities.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Product), args.Error(1)
}

func (m *MockCatalogRepository) FindCategories(ctx context.Context, filter repositories.CatalogFilter) ([]*entities.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Category), args.Error(1)
}

func (m *MockCatalogRepository) GetByID(ctx context.Context, kind entities.ItemKind, id string) (entities.SearchableItem, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.SearchableItem), args.Error(1)
}

func (m *MockCatalogRepository) GetByIDs(ctx context.Context, kind entities.ItemKind, ids []string) ([]entities.SearchableItem, error) {
	args := m.Called(ctx, kind, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.SearchableItem), args.Error(1)
}

func (m *MockCatalogRepository) UpsertProduct(ctx context.Context, product *entities.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCatalogRepository) UpsertCategory(ctx context.Context, category *entities.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

type MockSearchEventRepository struct {
	mock.Mock
}

func (m *MockSearchEventRepository) Create(ctx context.Context, event *entities.SearchEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockSearchEventRepository) FindByTerm(ctx context.Context, term string) ([]*entities.SearchEvent, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SearchEvent), args.Error(1)
}

func (m *MockSearchEventRepository) FindByID(ctx context.Context, id string) (*entities.SearchEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SearchEvent), args.Error(1)
}

func (m *MockSearchEventRepository) MarkVisited(ctx context.Context, id string, kind entities.ItemKind, itemID string) (bool, error) {
	args := m.Called(ctx, id, kind, itemID)
	return args.Bool(0), args.Error(1)
}

type MockCacheProvider struct {
	mock.Mock
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	args := m.Called(ctx, key, value, expirationSeconds)
	return args.Error(0)
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// Helpers

func strPtr(s string) *string {
	return &s
}

func productIDs(products []*entities.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func categoryIDs(categories []*entities.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.ID
	}
	return out
}

func kindFilter(kind entities.ItemKind) interface{} {
	return mock.MatchedBy(func(f repositories.CatalogFilter) bool {
		return f.Kind == kind
	})
}

// assignID mimics a store assigning an id on Create
func assignID(id string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(1).(*entities.SearchEvent).ID = id
	}
}
