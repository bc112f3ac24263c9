package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/zatekoja/catalogsearch/internal/domain/entities"
	"github.com/zatekoja/catalogsearch/internal/domain/repositories"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/catalogsearch/pkg/errors"
)

const searchEventsTable = "search_events"

var searchEventColumns = []interface{}{
	"id", "search_term", "user_id", "visited_product_id", "visited_category_id", "created_at",
}

type SearchEventAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

func NewSearchEventAdapter(client *postgres.Client) repositories.SearchEventRepository {
	return &SearchEventAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *SearchEventAdapter) Create(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query, args, err := a.db.Insert(searchEventsTable).Prepared(true).
		Rows(goqu.Record{
			"id":                  event.ID,
			"search_term":         event.SearchTerm,
			"user_id":             event.UserID,
			"visited_product_id":  event.VisitedProductID,
			"visited_category_id": event.VisitedCategoryID,
			"created_at":          event.CreatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewStorageError("failed to create search event", err)
	}

	return nil
}

// FindByTerm matches the stored term exactly, including case
func (a *SearchEventAdapter) FindByTerm(ctx context.Context, term string) ([]*entities.SearchEvent, error) {
	query, args, err := a.db.From(searchEventsTable).Prepared(true).
		Select(searchEventColumns...).
		Where(goqu.Ex{"search_term": term}).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	events := []*entities.SearchEvent{}
	if err := a.client.DBX().SelectContext(ctx, &events, query, args...); err != nil {
		return nil, apperrors.NewStorageError("failed to find search events", err)
	}

	return events, nil
}

func (a *SearchEventAdapter) FindByID(ctx context.Context, id string) (*entities.SearchEvent, error) {
	query, args, err := a.db.From(searchEventsTable).Prepared(true).
		Select(searchEventColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	event := &entities.SearchEvent{}
	if err := a.client.DBX().GetContext(ctx, event, query, args...); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewNotFoundError("search event not found")
		}
		return nil, apperrors.NewStorageError("failed to get search event", err)
	}

	return event, nil
}

// MarkVisited sets the visited id for kind only while it is still NULL, so
// concurrent visits never overwrite each other or the other kind's column.
// It reports false when the event is unknown or already attributed.
func (a *SearchEventAdapter) MarkVisited(ctx context.Context, id string, kind entities.ItemKind, itemID string) (bool, error) {
	column, err := visitedColumn(kind)
	if err != nil {
		return false, err
	}

	query, args, err := a.db.Update(searchEventsTable).Prepared(true).
		Set(goqu.Record{column: itemID}).
		Where(
			goqu.C("id").Eq(id),
			goqu.C(column).IsNull(),
		).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewStorageError("failed to record visit", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewStorageError("failed to read update result", err)
	}
	return rows > 0, nil
}

func visitedColumn(kind entities.ItemKind) (string, error) {
	switch kind {
	case entities.ItemKindProduct:
		return "visited_product_id", nil
	case entities.ItemKindCategory:
		return "visited_category_id", nil
	default:
		return "", apperrors.NewValidationError("unknown item kind " + string(kind))
	}
}

// isNoRows reports whether err means the row does not exist
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
