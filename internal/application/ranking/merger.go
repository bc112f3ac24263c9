package ranking

import (
	"sort"

	"github.com/zatekoja/catalogsearch/internal/domain/entities"
)

// MergeByPopularity combines click-resolved items with score-ranked items.
//
// The two lists are concatenated (clicked first), every id is counted, the
// concatenation is stably sorted by descending count and then deduplicated
// keeping the first occurrence. An item clicked in several past searches
// therefore outranks a fresh match, and on equal counts clicked items stay
// ahead because they come first in the concatenation.
func MergeByPopularity[T entities.SearchableItem](clicked, scored []T) []T {
	combined := make([]T, 0, len(clicked)+len(scored))
	combined = append(combined, clicked...)
	combined = append(combined, scored...)

	frequency := make(map[string]int, len(combined))
	for _, item := range combined {
		frequency[item.ItemID()]++
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return frequency[combined[i].ItemID()] > frequency[combined[j].ItemID()]
	})

	seen := make(map[string]struct{}, len(frequency))
	merged := make([]T, 0, len(frequency))
	for _, item := range combined {
		id := item.ItemID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, item)
	}
	return merged
}
