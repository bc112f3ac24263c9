package database_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/catalogsearch/internal/adapters/database"
	"github.com/zatekoja/catalogsearch/internal/domain/entities"
	"github.com/zatekoja/catalogsearch/internal/domain/repositories"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/catalogsearch/pkg/errors"
)

var productRowColumns = []string{
	"id", "name", "slug", "categories", "manufacturer", "description",
	"part_number", "specification", "image_url", "rating", "price_min", "price_max", "created_at",
}

func setupMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return postgres.NewClientFromDB(mockDB), mock
}

func likeArgs(fields int, patterns ...string) []driver.Value {
	args := make([]driver.Value, 0, fields*len(patterns))
	for _, p := range patterns {
		for i := 0; i < fields; i++ {
			args = append(args, p)
		}
	}
	return args
}

func TestCatalogAdapter_FindProducts(t *testing.T) {
	t.Run("translates keywords into ILIKE disjunction", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewCatalogAdapter(client)
		now := time.Now().UTC()

		filter := repositories.CatalogFilter{
			Kind:       entities.ItemKindProduct,
			Keywords:   []string{"oil", "50%_off"},
			Fields:     entities.ProductSearchFields,
			CategoryID: "c1",
		}

		args := likeArgs(len(entities.ProductSearchFields), "%oil%", `%50\%\_off%`)
		args = append(args, "c1")

		mock.ExpectQuery(`SELECT .* FROM "products" WHERE .*"name" ILIKE \$1.*"specification" ILIKE \$12.*= ANY\("categories"\).* ORDER BY "created_at" ASC, "id" ASC`).
			WithArgs(args...).
			WillReturnRows(sqlmock.NewRows(productRowColumns).
				AddRow("p1", "Oil Filter", "oil-filter", "{c1,c2}", "Bosch", "Spin-on", "OF-1", "M20", "", 4, 10.5, 12.0, now).
				AddRow("p2", "Oil Pan", "oil-pan", "{c1}", "Mahle", "", "OP-2", "", "", 0, 30.0, 30.0, now))

		products, err := adapter.FindProducts(context.Background(), filter)

		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "p1", products[0].ID)
		assert.Equal(t, []string{"c1", "c2"}, products[0].Categories)
		assert.Equal(t, "OF-1", products[0].PartNumber)
		assert.Equal(t, 4, products[0].Rating)
		assert.Equal(t, "p2", products[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty keywords match nothing without querying", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewCatalogAdapter(client)

		products, err := adapter.FindProducts(context.Background(), repositories.CatalogFilter{
			Kind:   entities.ItemKindProduct,
			Fields: entities.ProductSearchFields,
		})

		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure is a storage error", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewCatalogAdapter(client)

		mock.ExpectQuery(`SELECT .* FROM "products"`).WillReturnError(errors.New("connection reset"))

		_, err := adapter.FindProducts(context.Background(), repositories.CatalogFilter{
			Kind:     entities.ItemKindProduct,
			Keywords: []string{"oil"},
			Fields:   entities.ProductSearchFields,
		})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
	})
}

func TestCatalogAdapter_FindCategories(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewCatalogAdapter(client)
	now := time.Now().UTC()

	args := likeArgs(len(entities.CategorySearchFields), "%brake%")
	args = append(args, "c9")

	mock.ExpectQuery(`SELECT .* FROM "categories" WHERE .*ILIKE.*"id" = \$4.* ORDER BY`).
		WithArgs(args...).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "description", "image_url", "created_at"}).
			AddRow("c9", "Brakes", "brakes", "Pads and discs", "", now))

	categories, err := adapter.FindCategories(context.Background(), repositories.CatalogFilter{
		Kind:       entities.ItemKindCategory,
		Keywords:   []string{"brake"},
		Fields:     entities.CategorySearchFields,
		CategoryID: "c9",
	})

	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Brakes", categories[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogAdapter_GetByID(t *testing.T) {
	t.Run("returns the category", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewCatalogAdapter(client)

		mock.ExpectQuery(`SELECT .* FROM "categories" WHERE \("id" IN \(\$1\)\)`).
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "description", "image_url", "created_at"}).
				AddRow("c1", "Filters", "filters", "", "", time.Now()))

		item, err := adapter.GetByID(context.Background(), entities.ItemKindCategory, "c1")

		require.NoError(t, err)
		assert.Equal(t, "c1", item.ItemID())
		assert.Equal(t, entities.ItemKindCategory, item.ItemKind())
	})

	t.Run("missing item is not found", func(t *testing.T) {
		client, mock := setupMockClient(t)
		adapter := database.NewCatalogAdapter(client)

		mock.ExpectQuery(`SELECT .* FROM "products" WHERE \("id" IN \(\$1\)\)`).
			WithArgs("gone").
			WillReturnRows(sqlmock.NewRows(productRowColumns))

		_, err := adapter.GetByID(context.Background(), entities.ItemKindProduct, "gone")

		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestCatalogAdapter_GetByIDs(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewCatalogAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "products" WHERE \("id" IN \(\$1, \$2\)\)`).
		WithArgs("p1", "p2").
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow("p2", "Air Filter", "", "{}", "", "", "", "", "", 0, 0.0, 0.0, time.Now()))

	items, err := adapter.GetByIDs(context.Background(), entities.ItemKindProduct, []string{"p1", "p2"})

	require.NoError(t, err)
	require.Len(t, items, 1)
	product, ok := items[0].(*entities.Product)
	require.True(t, ok)
	assert.Equal(t, "p2", product.ID)
	assert.Equal(t, []string{}, product.Categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogAdapter_UpsertProduct(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewCatalogAdapter(client)

	mock.ExpectExec(`INSERT INTO "products" .* ON CONFLICT \(id\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	product := &entities.Product{ID: "p1", Name: "Oil Filter", Categories: []string{"c1"}}
	err := adapter.UpsertProduct(context.Background(), product)

	require.NoError(t, err)
	assert.False(t, product.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogAdapter_UpsertCategory_Failure(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := database.NewCatalogAdapter(client)

	mock.ExpectExec(`INSERT INTO "categories"`).WillReturnError(errors.New("duplicate slug"))

	err := adapter.UpsertCategory(context.Background(), &entities.Category{ID: "c1", Name: "Filters"})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
}
