package repositories

import (
	"context"

	"github.com/zatekoja/catalogsearch/internal/domain/entities"
)

// SearchEventRepository persists executed searches and their click attribution
type SearchEventRepository interface {
	// Create stores a new event, assigning ID and CreatedAt when empty
	Create(ctx context.Context, event *entities.SearchEvent) error

	// FindByTerm returns events whose search term equals term exactly, oldest first
	FindByTerm(ctx context.Context, term string) ([]*entities.SearchEvent, error)

	// FindByID retrieves an event; a missing event yields a NOT_FOUND AppError
	FindByID(ctx context.Context, id string) (*entities.SearchEvent, error)

	// MarkVisited records itemID as the visited item of kind unless one is
	// already recorded. It reports whether the event was updated; false means
	// the event is unknown or already attributed for kind.
	MarkVisited(ctx context.Context, id string, kind entities.ItemKind, itemID string) (bool, error)
}
