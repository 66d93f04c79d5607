package feed

import (
	"fmt"
	"testing"

	"geolist/internal/domain/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateKey(t *testing.T) {
	tests := map[string]string{
		"Best Plumbers in Austin":             "best plumbers",
		"Best Plumbers in Denver, CO":          "best plumbers",
		"Best Plumbers in Austin | Acme Guide": "best plumbers",
		"Top SEO Agencies in São Paulo":        "top seo agencies",
		"How To Pick A Roofer":                 "how to pick a roofer",
		"Plugin Reviews | Acme":                "plugin reviews",
		"  Spaced Title  ":                     "spaced title",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, TemplateKey(in))
		})
	}
}

func TestUniqueTemplatesFirstSeenWins(t *testing.T) {
	a := item("Best Plumbers in Austin", "plumbing", "usa")
	b := item("Best Plumbers in Denver", "plumbing", "usa")
	c := item("Best Roofers in Austin", "roofing", "usa")

	got := UniqueTemplates([]*content.Item{a, b, nil, c})
	assert.Equal(t, []*content.Item{a, c}, got)
}

func smartInput() []*content.Item {
	var items []*content.Item
	for i := 0; i < 10; i++ {
		cat := fmt.Sprint("cat", i)
		items = append(items,
			item(fmt.Sprintf("Guide %d in Austin", i), cat, "usa"),
			item(fmt.Sprintf("Guide %d in Denver", i), cat, "usa"),
			item(fmt.Sprintf("Extra %d", i), cat, "usa"),
		)
	}
	return items
}

func TestSmartDeterministicPrefix(t *testing.T) {
	items := smartInput()
	d := NewDeduper(0)

	first := d.Smart(items)
	second := d.Smart(items)
	require.Len(t, first, DefaultSmartCategories+DefaultSmartExtras)
	require.Len(t, second, DefaultSmartCategories+DefaultSmartExtras)

	wantPrefix := make([]string, 0, DefaultSmartCategories)
	for i := 0; i < DefaultSmartCategories; i++ {
		wantPrefix = append(wantPrefix, fmt.Sprintf("Guide %d in Austin", i))
	}
	assert.Equal(t, wantPrefix, titlesOf(first[:DefaultSmartCategories]))
	assert.Equal(t, wantPrefix, titlesOf(second[:DefaultSmartCategories]))

	// The extras come from the leftover unique templates; only membership is
	// stable across calls.
	leftovers := make(map[string]bool)
	for i := 0; i < 10; i++ {
		leftovers[fmt.Sprintf("Extra %d", i)] = true
		if i >= DefaultSmartCategories {
			leftovers[fmt.Sprintf("Guide %d in Austin", i)] = true
		}
	}
	seen := make(map[*content.Item]bool)
	for _, it := range first[DefaultSmartCategories:] {
		assert.True(t, leftovers[it.Title], "unexpected extra %q", it.Title)
		assert.False(t, seen[it])
		seen[it] = true
	}
	for _, it := range first {
		assert.NotContains(t, it.Title, "Denver")
	}
}

func TestSmartSeededIsReproducible(t *testing.T) {
	items := smartInput()
	a := NewDeduper(42).Smart(items)
	b := NewDeduper(42).Smart(items)
	assert.Equal(t, titlesOf(a), titlesOf(b))
}

func TestSmartSmallInput(t *testing.T) {
	one := item("Only One", "x", "usa")
	got := NewDeduper(1).Smart([]*content.Item{one})
	assert.Equal(t, []*content.Item{one}, got)

	empty := NewDeduper(1).Smart(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSmartFewCategoriesFillsFromSameCategory(t *testing.T) {
	items := []*content.Item{
		item("Alpha", "x", ""),
		item("Beta", "x", ""),
		item("Gamma", "x", ""),
	}
	got := NewDeduper(7).Smart(items)
	require.Len(t, got, 3)
	assert.Equal(t, "Alpha", got[0].Title)
	assert.ElementsMatch(t, []string{"Beta", "Gamma"}, titlesOf(got[1:]))
}
