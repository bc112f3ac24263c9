package entities

import (
	"time"
)

// ItemKind distinguishes the two searchable record types
type ItemKind string

const (
	ItemKindProduct  ItemKind = "product"
	ItemKindCategory ItemKind = "category"
)

// SearchableItem is a catalog record eligible for text matching.
// SearchFields returns the values of SearchFieldNames in the same order.
type SearchableItem interface {
	ItemID() string
	ItemKind() ItemKind
	SearchFields() []string
}

// Product represents a part in the catalog
type Product struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Slug          string    `json:"slug,omitempty" db:"slug"`
	Categories    []string  `json:"categories" db:"-"`
	Manufacturer  string    `json:"manufacturer" db:"manufacturer"`
	Description   string    `json:"description" db:"description"`
	PartNumber    string    `json:"partNumber" db:"part_number"`
	Specification string    `json:"specification" db:"specification"`
	ImageURL      string    `json:"imageURL,omitempty" db:"image_url"`
	Rating        int       `json:"rating" db:"rating"`
	PriceMin      float64   `json:"priceMin" db:"price_min"`
	PriceMax      float64   `json:"priceMax" db:"price_max"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// Category groups products
type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	ImageURL    string    `json:"imageURL" db:"image_url"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Column names inspected by keyword matching, in scoring order.
var (
	ProductSearchFields  = []string{"name", "description", "manufacturer", "image_url", "part_number", "specification"}
	CategorySearchFields = []string{"name", "description", "image_url"}
)

// SearchFieldNames returns the matchable columns for kind
func SearchFieldNames(kind ItemKind) []string {
	switch kind {
	case ItemKindProduct:
		return ProductSearchFields
	case ItemKindCategory:
		return CategorySearchFields
	default:
		return nil
	}
}

func (p *Product) ItemID() string     { return p.ID }
func (p *Product) ItemKind() ItemKind { return ItemKindProduct }

func (p *Product) SearchFields() []string {
	return []string{p.Name, p.Description, p.Manufacturer, p.ImageURL, p.PartNumber, p.Specification}
}

// HasCategory reports whether the product is listed under categoryID
func (p *Product) HasCategory(categoryID string) bool {
	for _, c := range p.Categories {
		if c == categoryID {
			return true
		}
	}
	return false
}

func (c *Category) ItemID() string     { return c.ID }
func (c *Category) ItemKind() ItemKind { return ItemKindCategory }

func (c *Category) SearchFields() []string {
	return []string{c.Name, c.Description, c.ImageURL}
}
