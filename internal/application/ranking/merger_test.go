package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/catalogsearch/internal/domain/entities"
)

func products(ids ...string) []*entities.Product {
	out := make([]*entities.Product, len(ids))
	for i, id := range ids {
		out[i] = &entities.Product{ID: id}
	}
	return out
}

func ids[T entities.SearchableItem](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ItemID()
	}
	return out
}

func TestMergeByPopularity_RepeatedClicksWin(t *testing.T) {
	clicked := products("p1", "p1")
	scored := products("p1", "p2")

	merged := MergeByPopularity(clicked, scored)

	assert.Equal(t, []string{"p1", "p2"}, ids(merged))
}

func TestMergeByPopularity_ClickedFrequencyOutranksScore(t *testing.T) {
	// p3 was clicked twice but scored lowest; p2 scored highest with no clicks
	clicked := products("p3", "p3")
	scored := products("p2", "p1", "p3")

	merged := MergeByPopularity(clicked, scored)

	assert.Equal(t, []string{"p3", "p2", "p1"}, ids(merged))
}

func TestMergeByPopularity_ClickedKeepsPriorityOnTies(t *testing.T) {
	// Both have frequency 1; clicked pX must precede score-ranked pA
	clicked := products("pX")
	scored := products("pA", "pB")

	merged := MergeByPopularity(clicked, scored)

	assert.Equal(t, []string{"pX", "pA", "pB"}, ids(merged))
}

func TestMergeByPopularity_PreservesScoreOrderWithoutClicks(t *testing.T) {
	merged := MergeByPopularity(nil, products("p3", "p1", "p2"))

	assert.Equal(t, []string{"p3", "p1", "p2"}, ids(merged))
}

func TestMergeByPopularity_EveryIDExactlyOnce(t *testing.T) {
	clicked := products("a", "b", "a", "c", "b", "a")
	scored := products("d", "a", "e", "c")

	merged := MergeByPopularity(clicked, scored)

	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, ids(merged))
	// a: 4, b: 2, c: 2, d: 1, e: 1
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(merged))
}

func TestMergeByPopularity_DoesNotMutateInputs(t *testing.T) {
	clicked := products("b")
	scored := products("a", "b")

	_ = MergeByPopularity(clicked, scored)

	assert.Equal(t, []string{"b"}, ids(clicked))
	assert.Equal(t, []string{"a", "b"}, ids(scored))
}

func TestMergeByPopularity_Empty(t *testing.T) {
	merged := MergeByPopularity[*entities.Category](nil, nil)

	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}
