package feed

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"geolist/internal/domain/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectMixedCategoryFirstOrdering(t *testing.T) {
	a := item("A", "x", "p")
	b := item("B", "y", "p")
	c := item("C", "x", "q")

	got := SelectMixed([]*content.Item{a, b, c}, 3)
	assert.Equal(t, []*content.Item{a, b, c}, got)
}

func TestSelectMixedPassesAreConcatenated(t *testing.T) {
	// c1 is only first of its location, n2 is first of a new category later
	// in the list. The category pass runs first, so n2 precedes c1.
	a := item("a", "seo", "usa")
	c1 := item("c1", "seo", "india")
	n2 := item("n2", "design", "usa")
	fill := item("fill", "seo", "usa")

	got := SelectMixed([]*content.Item{a, c1, n2, fill}, 4)
	assert.Equal(t, []string{"a", "n2", "c1", "fill"}, titlesOf(got))
}

func TestSelectMixedSpecScenario(t *testing.T) {
	items := []*content.Item{
		item("seo-usa-1", "seo", "usa"),
		item("seo-usa-2", "seo", "usa"),
		item("design-india-1", "design", "india"),
		item("design-india-2", "design", "india"),
		item("seo-india", "seo", "india"),
	}
	got := SelectMixed(items, 3)
	// Both countries are seen after the category pass, so the location pass
	// adds nothing and the fill pass takes the next unused item.
	assert.Equal(t, []string{"seo-usa-1", "design-india-1", "seo-usa-2"}, titlesOf(got))
}

func TestSelectMixedUniformInput(t *testing.T) {
	var items []*content.Item
	for i := 0; i < 5; i++ {
		items = append(items, item(fmt.Sprint(i), "seo", "usa"))
	}
	got := SelectMixed(items, 3)
	assert.Equal(t, []string{"0", "1", "2"}, titlesOf(got))
}

func TestSelectMixedMissingFields(t *testing.T) {
	// No category means "general"; no location is always admitted by the
	// location pass.
	bare1 := &content.Item{Title: "bare1"}
	bare2 := &content.Item{Title: "bare2"}
	located := item("located", "", "usa")

	got := SelectMixed([]*content.Item{bare1, located, bare2}, 2)
	assert.Equal(t, []string{"bare1", "located"}, titlesOf(got))

	got = SelectMixed([]*content.Item{bare1, bare2, located}, 3)
	assert.Equal(t, []string{"bare1", "bare2", "located"}, titlesOf(got))
}

func TestSelectMixedLocationPrefersCity(t *testing.T) {
	austin := &content.Item{Title: "austin", Category: content.SlugRef("a"), Country: content.SlugRef("usa"), City: content.SlugRef("austin")}
	denver := &content.Item{Title: "denver", Category: content.SlugRef("a"), Country: content.SlugRef("usa"), City: content.SlugRef("denver")}
	austin2 := &content.Item{Title: "austin2", Category: content.SlugRef("a"), Country: content.SlugRef("usa"), City: content.DetailedRef{Name: "Austin"}}

	got := SelectMixed([]*content.Item{austin, austin2, denver}, 2)
	assert.Equal(t, []string{"austin", "denver"}, titlesOf(got))
}

func TestSelectMixedEdgeCases(t *testing.T) {
	items := []*content.Item{item("a", "x", "p")}
	assert.Empty(t, SelectMixed(nil, 5))
	assert.NotNil(t, SelectMixed(nil, 5))
	assert.Empty(t, SelectMixed(items, 0))
	assert.Empty(t, SelectMixed(items, -1))
	assert.Equal(t, items, SelectMixed(items, 10))
}

func TestSelectMixedSkipsRepeatedPointers(t *testing.T) {
	a := item("a", "x", "p")
	b := item("b", "x", "p")
	got := SelectMixed([]*content.Item{a, a, nil, b}, 5)
	assert.Equal(t, []*content.Item{a, b}, got)
}

func TestSelectMixedInvariants(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	cats := []string{"seo", "design", "ads", ""}
	places := []string{"usa", "india", "uk", ""}

	for round := 0; round < 200; round++ {
		n := r.IntN(30)
		items := make([]*content.Item, n)
		for i := range items {
			items[i] = item(fmt.Sprint(i), cats[r.IntN(len(cats))], places[r.IntN(len(places))])
		}
		limit := r.IntN(15) - 2

		got := SelectMixed(items, limit)

		want := min(max(limit, 0), n)
		require.Len(t, got, want, "round %d", round)

		seen := make(map[*content.Item]bool)
		for _, it := range got {
			require.False(t, seen[it], "duplicate item in round %d", round)
			seen[it] = true
		}
	}
}

func TestSelectMixedDistinctInputReturnsPrefix(t *testing.T) {
	var items []*content.Item
	for i := 0; i < 12; i++ {
		items = append(items, item(fmt.Sprint(i), fmt.Sprint("cat", i), fmt.Sprint("loc", i)))
	}
	got := SelectMixed(items, 10)
	assert.Equal(t, items[:10], got)
}
