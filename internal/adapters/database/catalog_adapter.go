package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
	"github.com/zatekoja/catalogsearch/internal/domain/entities"
	"github.com/zatekoja/catalogsearch/internal/domain/repositories"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/catalogsearch/pkg/errors"
)

const (
	productsTable   = "products"
	categoriesTable = "categories"
)

var (
	productColumns = []interface{}{
		"id", "name", "slug", "categories", "manufacturer", "description",
		"part_number", "specification", "image_url", "rating", "price_min", "price_max", "created_at",
	}
	categoryColumns = []interface{}{
		"id", "name", "slug", "description", "image_url", "created_at",
	}
	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// productRow carries the text[] column that the entity keeps as a plain slice
type productRow struct {
	entities.Product
	Categories pq.StringArray `db:"categories"`
}

func (r *productRow) toEntity() *entities.Product {
	p := r.Product
	p.Categories = []string(r.Categories)
	if p.Categories == nil {
		p.Categories = []string{}
	}
	return &p
}

// CatalogAdapter implements CatalogRepository on PostgreSQL
type CatalogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCatalogAdapter creates a new catalog adapter
func NewCatalogAdapter(client *postgres.Client) repositories.CatalogRepository {
	return &CatalogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// FindProducts returns products matching the filter
func (a *CatalogAdapter) FindProducts(ctx context.Context, filter repositories.CatalogFilter) ([]*entities.Product, error) {
	match, ok := keywordExpression(filter)
	if !ok {
		return []*entities.Product{}, nil
	}

	ds := a.db.From(productsTable).Prepared(true).
		Select(productColumns...).
		Where(match)
	if filter.CategoryID != "" {
		ds = ds.Where(goqu.L(`? = ANY("categories")`, filter.CategoryID))
	}

	query, args, err := ds.Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build product query", err)
	}

	var rows []productRow
	if err := a.client.DBX().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.NewStorageError("failed to find products", err)
	}

	products := make([]*entities.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].toEntity())
	}
	return products, nil
}

// FindCategories returns categories matching the filter
func (a *CatalogAdapter) FindCategories(ctx context.Context, filter repositories.CatalogFilter) ([]*entities.Category, error) {
	match, ok := keywordExpression(filter)
	if !ok {
		return []*entities.Category{}, nil
	}

	ds := a.db.From(categoriesTable).Prepared(true).
		Select(categoryColumns...).
		Where(match)
	if filter.CategoryID != "" {
		ds = ds.Where(goqu.Ex{"id": filter.CategoryID})
	}

	query, args, err := ds.Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build category query", err)
	}

	categories := []*entities.Category{}
	if err := a.client.DBX().SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, apperrors.NewStorageError("failed to find categories", err)
	}
	return categories, nil
}

// GetByID retrieves a product or category by ID
func (a *CatalogAdapter) GetByID(ctx context.Context, kind entities.ItemKind, id string) (entities.SearchableItem, error) {
	items, err := a.GetByIDs(ctx, kind, []string{id})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s not found", kind))
	}
	return items[0], nil
}

// GetByIDs retrieves the products or categories that exist among ids
func (a *CatalogAdapter) GetByIDs(ctx context.Context, kind entities.ItemKind, ids []string) ([]entities.SearchableItem, error) {
	if len(ids) == 0 {
		return []entities.SearchableItem{}, nil
	}

	switch kind {
	case entities.ItemKindProduct:
		query, args, err := a.db.From(productsTable).Prepared(true).
			Select(productColumns...).
			Where(goqu.Ex{"id": ids}).
			ToSQL()
		if err != nil {
			return nil, apperrors.NewInternalError("failed to build query", err)
		}

		var rows []productRow
		if err := a.client.DBX().SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, apperrors.NewStorageError("failed to get products by ids", err)
		}

		items := make([]entities.SearchableItem, 0, len(rows))
		for i := range rows {
			items = append(items, rows[i].toEntity())
		}
		return items, nil

	case entities.ItemKindCategory:
		query, args, err := a.db.From(categoriesTable).Prepared(true).
			Select(categoryColumns...).
			Where(goqu.Ex{"id": ids}).
			ToSQL()
		if err != nil {
			return nil, apperrors.NewInternalError("failed to build query", err)
		}

		var categories []*entities.Category
		if err := a.client.DBX().SelectContext(ctx, &categories, query, args...); err != nil {
			return nil, apperrors.NewStorageError("failed to get categories by ids", err)
		}

		items := make([]entities.SearchableItem, 0, len(categories))
		for _, c := range categories {
			items = append(items, c)
		}
		return items, nil

	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown item kind %q", kind))
	}
}

// UpsertProduct creates or replaces a product
func (a *CatalogAdapter) UpsertProduct(ctx context.Context, product *entities.Product) error {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	categories := product.Categories
	if categories == nil {
		categories = []string{}
	}

	record := goqu.Record{
		"id":            product.ID,
		"name":          product.Name,
		"slug":          product.Slug,
		"categories":    pq.Array(categories),
		"manufacturer":  product.Manufacturer,
		"description":   product.Description,
		"part_number":   product.PartNumber,
		"specification": product.Specification,
		"image_url":     product.ImageURL,
		"rating":        product.Rating,
		"price_min":     product.PriceMin,
		"price_max":     product.PriceMax,
		"created_at":    product.CreatedAt,
	}

	return a.upsert(ctx, productsTable, record)
}

// UpsertCategory creates or replaces a category
func (a *CatalogAdapter) UpsertCategory(ctx context.Context, category *entities.Category) error {
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"id":          category.ID,
		"name":        category.Name,
		"slug":        category.Slug,
		"description": category.Description,
		"image_url":   category.ImageURL,
		"created_at":  category.CreatedAt,
	}

	return a.upsert(ctx, categoriesTable, record)
}

func (a *CatalogAdapter) upsert(ctx context.Context, table string, record goqu.Record) error {
	update := goqu.Record{}
	for col := range record {
		if col == "id" || col == "created_at" {
			continue
		}
		update[col] = goqu.L("EXCLUDED." + col)
	}

	query, args, err := a.db.Insert(table).Prepared(true).
		Rows(record).
		OnConflict(goqu.DoUpdate("id", update)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to upsert into %s", table), err)
	}
	return nil
}

// keywordExpression builds OR(keywords) of OR(fields) ILIKE '%kw%'. It
// reports false when no keyword is usable, meaning nothing can match.
func keywordExpression(filter repositories.CatalogFilter) (exp.Expression, bool) {
	fields := filter.Fields
	if len(fields) == 0 {
		fields = entities.SearchFieldNames(filter.Kind)
	}

	perKeyword := make([]exp.Expression, 0, len(filter.Keywords))
	for _, kw := range filter.Keywords {
		if kw == "" {
			continue
		}
		pattern := "%" + likeEscaper.Replace(kw) + "%"

		perField := make([]exp.Expression, 0, len(fields))
		for _, field := range fields {
			perField = append(perField, goqu.I(field).ILike(pattern))
		}
		perKeyword = append(perKeyword, goqu.Or(perField...))
	}

	if len(perKeyword) == 0 || len(fields) == 0 {
		return nil, false
	}
	return goqu.Or(perKeyword...), true
}
