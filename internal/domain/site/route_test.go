package site

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListing(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{"/", Route{Kind: RouteHome}},
		{"/blog/", Route{Kind: RouteListing, Section: "blog"}},
		{"/Blog/USA", Route{Kind: RouteListing, Section: "blog", Country: "usa"}},
		{"/blog/usa/texas/austin/", Route{Kind: RouteListing, Section: "blog", Country: "usa", State: "texas", City: "austin"}},
		{"/blog/usa/texas/austin/extra", Route{Kind: RouteNotFound}},
		{"/blog//texas", Route{Kind: RouteNotFound}},
		{"/blog/../etc", Route{Kind: RouteNotFound}},
		{"/blog/new%20york", Route{Kind: RouteListing, Section: "blog", Country: "new york"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseListing("", tt.path, nil))
		})
	}
}

func TestParseListingPrefixAndCategory(t *testing.T) {
	q := url.Values{"category": {" seo "}}
	r := ParseListing("/api/feed", "/api/feed/services/india", q)
	assert.Equal(t, RouteListing, r.Kind)
	assert.Equal(t, "services", r.Section)
	assert.Equal(t, "india", r.Country)
	assert.Equal(t, "seo", r.Category)
	assert.Equal(t, 1, r.Depth())
}

func TestRoutePathAndString(t *testing.T) {
	r := Route{Kind: RouteListing, Section: "blog", Country: "usa", State: "texas"}
	assert.Equal(t, "/blog/usa/texas", r.Path())
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "listing section=blog depth=2 path=/blog/usa/texas", r.String())
	assert.Equal(t, "/", Route{Kind: RouteHome}.Path())
}
