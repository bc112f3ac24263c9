package entities

import (
	"time"
)

// SearchEvent records one executed search. The visited ids start nil and are
// set at most once each when the user opens a result.
type SearchEvent struct {
	ID                string    `json:"id" db:"id"`
	SearchTerm        string    `json:"searchTerm" db:"search_term"`
	UserID            *string   `json:"userId,omitempty" db:"user_id"`
	VisitedProductID  *string   `json:"visitedProductId,omitempty" db:"visited_product_id"`
	VisitedCategoryID *string   `json:"visitedCategoryId,omitempty" db:"visited_category_id"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// VisitedID returns the visited id recorded for kind, if any
func (e *SearchEvent) VisitedID(kind ItemKind) (string, bool) {
	var id *string
	switch kind {
	case ItemKindProduct:
		id = e.VisitedProductID
	case ItemKindCategory:
		id = e.VisitedCategoryID
	}
	if id == nil || *id == "" {
		return "", false
	}
	return *id, true
}

// MarkVisited sets the visited id for kind unless one is already recorded.
// It reports whether the event changed.
func (e *SearchEvent) MarkVisited(kind ItemKind, itemID string) bool {
	if _, ok := e.VisitedID(kind); ok {
		return false
	}
	switch kind {
	case ItemKindProduct:
		e.VisitedProductID = &itemID
	case ItemKindCategory:
		e.VisitedCategoryID = &itemID
	default:
		return false
	}
	return true
}

// SearchRequest is the input to the search pipeline
type SearchRequest struct {
	Query          string
	CategoryFilter string
	UserID         string
}

// SearchResponse is the ranked, deduplicated result of one search
type SearchResponse struct {
	SearchID   string      `json:"searchId"`
	Products   []*Product  `json:"products"`
	Categories []*Category `json:"categories"`
}
