package serve

import (
	"net/url"
	"testing"
	"time"

	"geolist/internal/domain/config"
	"geolist/internal/domain/site"
	"geolist/internal/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dims(spec feed.PageSpec) []feed.Dimension {
	out := make([]feed.Dimension, 0, len(spec.Facets))
	for _, f := range spec.Facets {
		out = append(out, f.Dimension)
	}
	return out
}

func TestSpecFacetsPerDepth(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	p, err := NewPages(cfg, nil)
	require.NoError(t, err)
	defer p.Close()
	sec, _ := cfg.Section("blog")

	tests := []struct {
		path string
		want []feed.Dimension
	}{
		{"/blog/", []feed.Dimension{feed.DimCategory, feed.DimCountry}},
		{"/blog/usa/", []feed.Dimension{feed.DimCategory, feed.DimState}},
		{"/blog/usa/texas/", []feed.Dimension{feed.DimCategory, feed.DimCity}},
		{"/blog/usa/texas/austin/", []feed.Dimension{feed.DimCategory}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			spec := p.Spec(site.ParseListing("", tt.path, nil), sec)
			assert.Equal(t, tt.want, dims(spec))
		})
	}
}

func TestSpecScopesAndFilters(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Sections[0].Limit = 4
	cfg.Sections[0].Mode = config.ModeSmart
	p, err := NewPages(cfg, nil)
	require.NoError(t, err)
	defer p.Close()

	r := site.ParseListing("", "/blog/usa/texas/", url.Values{"category": {"seo"}})
	spec := p.Spec(r, cfg.Sections[0])

	assert.Equal(t, feed.ModeSmart, spec.Mode)
	assert.Equal(t, 4, spec.Limit)
	assert.Equal(t, "/blogs", spec.Request.Endpoint)
	assert.Equal(t, []string{"blogs"}, spec.Request.CollectionKeys)
	assert.Equal(t, map[feed.Dimension]string{feed.DimCountry: "usa", feed.DimState: "texas"}, spec.Within)
	assert.Equal(t, map[feed.Dimension]string{feed.DimCategory: "seo"}, spec.Filters)
	assert.Equal(t, "seo", spec.Facets[0].Active)
}

func TestSpecNonGeoSection(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	p, err := NewPages(cfg, nil)
	require.NoError(t, err)
	defer p.Close()

	spec := p.Spec(site.ParseListing("", "/faq/", nil), cfg.Sections[1])
	assert.Equal(t, []feed.Dimension{feed.DimCategory}, dims(spec))
	assert.Nil(t, spec.Within)
	assert.Equal(t, feed.ModeMixed, spec.Mode)
	assert.Equal(t, cfg.Feed.DefaultLimit, spec.Limit)
}

func TestPagesWithCache(t *testing.T) {
	cfg := testConfig(t, upstream(t).URL)
	cfg.API.CachePath = t.TempDir() + "/cache.db"
	p, err := NewPages(cfg, nil)
	require.NoError(t, err)
	defer p.Close()

	page, sec, err := p.Build(t.Context(), site.ParseListing("", "/blog/", nil))
	require.NoError(t, err)
	assert.Equal(t, "blog", sec.Name)
	assert.Equal(t, 3, page.Total)

	n, err := p.Purge(time.Now().Add(24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
