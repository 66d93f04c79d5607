package normalize

import (
	"testing"

	"geolist/internal/domain/content"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	assert.Equal(t, "new-york", Slug("  New York "))
	assert.Equal(t, "web-design", Slug("Web\tDesign"))
	assert.Equal(t, "", Slug("   "))
	assert.Equal(t, "abc", Slug("ＡＢＣ"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "New York", Label("new-york"))
	assert.Equal(t, "USA", Label("USA"))
	assert.Equal(t, "São Paulo", Label("são-paulo"))
	assert.Equal(t, "", Label(""))
}

func TestGeoInfo(t *testing.T) {
	tests := []struct {
		name string
		in   content.Ref
		want content.GeoRef
	}{
		{"nil", nil, content.GeoRef{}},
		{"string", content.SlugRef("United States"), content.GeoRef{Slug: "united-states", Name: "United States"}},
		{"slug string", content.SlugRef("new-york"), content.GeoRef{Slug: "new-york", Name: "New York"}},
		{"object prefers slug", content.DetailedRef{Slug: "us", Name: "United States", Code: "us"}, content.GeoRef{Slug: "us", Name: "United States", Code: "us"}},
		{"object falls back to name", content.DetailedRef{Name: "Texas"}, content.GeoRef{Slug: "texas", Name: "Texas"}},
		{"object label from slug", content.DetailedRef{Slug: "rhode-island"}, content.GeoRef{Slug: "rhode-island", Name: "Rhode Island"}},
		{"code only", content.DetailedRef{Code: "FR"}, content.GeoRef{Code: "FR"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GeoInfo(tt.in))
		})
	}
}

func TestCategoryKey(t *testing.T) {
	assert.Equal(t, DefaultCategory, CategoryKey(&content.Item{}))
	assert.Equal(t, DefaultCategory, CategoryKey(nil))
	assert.Equal(t, "seo", CategoryKey(&content.Item{Category: content.SlugRef("SEO")}))
	assert.Equal(t, "web-design", CategoryKey(&content.Item{Category: content.DetailedRef{Name: "Web Design"}}))
}

func TestLocationKeyPrefersMostSpecific(t *testing.T) {
	it := &content.Item{
		Country: content.SlugRef("usa"),
		State:   content.DetailedRef{Name: "Texas"},
	}
	assert.Equal(t, "texas", LocationKey(it))

	it.City = content.SlugRef("Austin")
	assert.Equal(t, "austin", LocationKey(it))

	assert.Equal(t, "", LocationKey(&content.Item{}))
}
