package feed

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"geolist/internal/domain/content"
	"geolist/internal/normalize"
)

// Dimension is the item field a facet groups by.
type Dimension string

const (
	DimCategory Dimension = "category"
	DimCountry  Dimension = "country"
	DimState    Dimension = "state"
	DimCity     Dimension = "city"
)

// Dimensions lists every dimension in page order.
var Dimensions = []Dimension{DimCategory, DimCountry, DimState, DimCity}

// ParseDimension accepts the lower-case dimension names.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("feed: unknown dimension %q", s)
}

// Label is the badge shown on inactive chips: "Category", "Country", ...
func (d Dimension) Label() string {
	return normalize.Label(string(d))
}

// Resolve extracts the normalized value of this dimension from an item.
func (d Dimension) Resolve(it *content.Item) content.GeoRef {
	if it == nil {
		return content.GeoRef{}
	}
	switch d {
	case DimCategory:
		return normalize.CategoryInfo(it.Category)
	case DimCountry:
		return normalize.GeoInfo(it.Country)
	case DimState:
		return normalize.GeoInfo(it.State)
	case DimCity:
		return normalize.GeoInfo(it.City)
	default:
		return content.GeoRef{}
	}
}

// ActiveBadge marks the chip of the currently applied filter.
const ActiveBadge = "Active"

// Bucket is one filter chip.
type Bucket struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Code     string `json:"code,omitempty"`
	Href     string `json:"href"`
	Count    int    `json:"count"`
	Badge    string `json:"badge"`
}

func (b Bucket) Active() bool {
	return b.Badge == ActiveBadge
}

// FacetOptions controls href and badge generation. A nil Href yields buckets
// with an empty href.
type FacetOptions struct {
	Active string
	Href   HrefBuilder
}

type tally struct {
	slug  string
	name  string
	code  string
	count int
}

// BuildFacets groups items by dim. Items without a resolvable value are left
// out of this dimension only. Buckets are sorted by count, descending; equal
// counts keep the order in which their slug was first seen.
func BuildFacets(items []*content.Item, dim Dimension, opts FacetOptions) []Bucket {
	index := make(map[string]int)
	var tallies []*tally
	for _, it := range items {
		g := dim.Resolve(it)
		if g.IsZero() {
			continue
		}
		i, ok := index[g.Slug]
		if !ok {
			i = len(tallies)
			index[g.Slug] = i
			tallies = append(tallies, &tally{slug: g.Slug})
		}
		t := tallies[i]
		t.count++
		if t.name == "" {
			t.name = g.Name
		}
		if t.code == "" {
			t.code = g.Code
		}
	}

	active := normalize.Slug(opts.Active)
	out := make([]Bucket, 0, len(tallies))
	for _, t := range tallies {
		b := Bucket{
			Slug:  t.slug,
			Title: t.name,
			Code:  t.code,
			Count: t.count,
			Badge: dim.Label(),
		}
		if b.Title == "" {
			b.Title = normalize.Label(t.slug)
		}
		if t.code != "" {
			b.Subtitle = strings.ToUpper(t.code)
		}
		isActive := active != "" && t.slug == active
		if isActive {
			b.Badge = ActiveBadge
		}
		if opts.Href != nil {
			b.Href = opts.Href.Href(t.slug, isActive)
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// HrefBuilder produces the link of a chip. active is true for the chip that
// matches the filter currently applied on the page.
type HrefBuilder interface {
	Href(slug string, active bool) string
}

// HrefFunc adapts a plain function to HrefBuilder.
type HrefFunc func(slug string, active bool) string

func (f HrefFunc) Href(slug string, active bool) string { return f(slug, active) }

// QueryToggle links chips through a query parameter on Base. Other query
// values are preserved. The active chip links back to Base without the
// parameter so clicking it clears the filter.
type QueryToggle struct {
	Base  string
	Param string
	Query url.Values
}

func (q QueryToggle) Href(slug string, active bool) string {
	vals := url.Values{}
	for k, vs := range q.Query {
		if k == q.Param {
			continue
		}
		vals[k] = append([]string(nil), vs...)
	}
	if !active {
		vals.Set(q.Param, slug)
	}
	if len(vals) == 0 {
		return q.Base
	}
	return q.Base + "?" + vals.Encode()
}

// PathSegment links chips to a nested page: Prefix/slug. Query values such
// as an applied category carry over.
type PathSegment struct {
	Prefix string
	Query  url.Values
}

func (p PathSegment) Href(slug string, active bool) string {
	href := strings.TrimSuffix(p.Prefix, "/") + "/" + url.PathEscape(slug)
	if len(p.Query) == 0 {
		return href
	}
	return href + "?" + p.Query.Encode()
}
