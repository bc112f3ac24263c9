package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/catalogsearch/internal/domain/entities"
)

func TestBuildPredicate_Products(t *testing.T) {
	f := BuildPredicate(entities.ItemKindProduct, []string{"Oil", "", " filter "}, "all")

	assert.Equal(t, entities.ItemKindProduct, f.Kind)
	assert.Equal(t, []string{"oil", "filter"}, f.Keywords)
	assert.Equal(t, entities.ProductSearchFields, f.Fields)
	assert.Empty(t, f.CategoryID)
}

func TestBuildPredicate_CategoryFilter(t *testing.T) {
	f := BuildPredicate(entities.ItemKindCategory, []string{"filter"}, " c42 ")

	assert.Equal(t, entities.CategorySearchFields, f.Fields)
	assert.Equal(t, "c42", f.CategoryID)
}

func TestBuildPredicate_MatchesIsDisjunction(t *testing.T) {
	f := BuildPredicate(entities.ItemKindProduct, []string{"brake", "bosch"}, "")

	onlyManufacturer := &entities.Product{ID: "p1", Name: "Wiper", Manufacturer: "BOSCH"}
	neither := &entities.Product{ID: "p2", Name: "Wiper", Manufacturer: "Valeo"}

	assert.True(t, f.Matches(onlyManufacturer))
	assert.False(t, f.Matches(neither))
}

func TestNormalizeCategoryFilter(t *testing.T) {
	assert.Equal(t, "", NormalizeCategoryFilter(""))
	assert.Equal(t, "", NormalizeCategoryFilter("ALL"))
	assert.Equal(t, "c1", NormalizeCategoryFilter("c1"))
}
