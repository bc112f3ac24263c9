package ranking

import (
	"strings"

	"github.com/zatekoja/catalogsearch/internal/domain/entities"
	"github.com/zatekoja/catalogsearch/internal/domain/repositories"
)

// BuildPredicate builds the catalog filter for one item kind. Keywords are
// OR-ed and each keyword is tried against every searchable field of kind.
// categoryFilter "" or "all" disables category restriction.
func BuildPredicate(kind entities.ItemKind, keywords []string, categoryFilter string) repositories.CatalogFilter {
	kws := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			kws = append(kws, kw)
		}
	}

	return repositories.CatalogFilter{
		Kind:       kind,
		Keywords:   kws,
		Fields:     entities.SearchFieldNames(kind),
		CategoryID: NormalizeCategoryFilter(categoryFilter),
	}
}

// NormalizeCategoryFilter maps the "no filter" spellings to ""
func NormalizeCategoryFilter(categoryFilter string) string {
	c := strings.TrimSpace(categoryFilter)
	if strings.EqualFold(c, repositories.AllCategories) {
		return ""
	}
	return c
}
