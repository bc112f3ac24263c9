package ranking

import (
	"sort"
	"strings"

	"github.com/zatekoja/catalogsearch/internal/domain/entities"
)

// ScoredItem pairs a candidate with its relevance score
type ScoredItem[T entities.SearchableItem] struct {
	Item  T
	Score int
}

// Score counts the distinct keywords found, case-insensitively, in at least
// one field. A keyword that hits several fields still counts once.
func Score(fields []string, keywords []string) int {
	lowered := make([]string, len(fields))
	for i, f := range fields {
		lowered[i] = strings.ToLower(f)
	}

	seen := make(map[string]struct{}, len(keywords))
	score := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}

		for _, f := range lowered {
			if strings.Contains(f, kw) {
				score++
				break
			}
		}
	}
	return score
}

// RankByScore scores every item and sorts by score descending. Ties keep
// the input order.
func RankByScore[T entities.SearchableItem](items []T, keywords []string) []ScoredItem[T] {
	scored := make([]ScoredItem[T], 0, len(items))
	for _, item := range items {
		scored = append(scored, ScoredItem[T]{
			Item:  item,
			Score: Score(item.SearchFields(), keywords),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Items drops the scores, keeping order
func Items[T entities.SearchableItem](scored []ScoredItem[T]) []T {
	out := make([]T, len(scored))
	for i, s := range scored {
		out[i] = s.Item
	}
	return out
}
