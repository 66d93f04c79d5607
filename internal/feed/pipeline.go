package feed

import (
	"context"
	"fmt"
	"strings"

	"geolist/internal/collect"
	"geolist/internal/domain/content"
	"geolist/internal/logging"
	"geolist/internal/normalize"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Mode picks the feed algorithm for a section.
type Mode string

const (
	ModeMixed Mode = "mixed"
	ModeSmart Mode = "smart"
)

// Scope picks which list facet counts are taken from. Listing pages have
// historically disagreed on this; ScopeFull counts the whole fetched list,
// ScopeSelected counts only what ends up in the feed.
type Scope string

const (
	ScopeFull     Scope = "full"
	ScopeSelected Scope = "selected"
)

func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeFull:
		return ScopeFull, nil
	case ScopeSelected:
		return ScopeSelected, nil
	default:
		return "", fmt.Errorf("feed: unknown facet scope %q", s)
	}
}

// Loader fetches the raw list for a page. Implementations must not fail:
// any upstream problem yields an empty slice.
type Loader interface {
	Load(ctx context.Context, req collect.Request) []*content.Item
}

// FacetSpec asks for one facet dimension on a page.
type FacetSpec struct {
	Dimension Dimension
	Active    string
	Href      HrefBuilder
}

// PageSpec describes one listing page render.
type PageSpec struct {
	Request collect.Request
	Mode    Mode
	Limit   int
	// Within narrows the fetched list to the page's own scope, e.g. the
	// country and state of a nested geo page. Facets and feed both see the
	// narrowed list.
	Within map[Dimension]string
	// Filters narrows only the feed, so the facet chips keep showing the
	// alternatives to an applied filter.
	Filters map[Dimension]string
	Facets  []FacetSpec
}

// Page is what the rendering layer receives.
type Page struct {
	Feed   []*content.Item        `json:"feed"`
	Facets map[Dimension][]Bucket `json:"facets"`
	Total  int                    `json:"total"`
}

// Builder wires the collector output into feed selection and facets.
type Builder struct {
	Loader  Loader
	Deduper *Deduper
	Scope   Scope
	Log     *zap.Logger
}

func NewBuilder(loader Loader, deduper *Deduper, scope Scope, log *zap.Logger) *Builder {
	if deduper == nil {
		deduper = NewDeduper(0)
	}
	if scope == "" {
		scope = ScopeFull
	}
	return &Builder{Loader: loader, Deduper: deduper, Scope: scope, Log: logging.OrNop(log).Named("feed")}
}

// Build renders one page's data. It never fails; a dead upstream produces an
// empty feed and no facets.
func (b *Builder) Build(ctx context.Context, spec PageSpec) Page {
	raw := ApplyFilters(b.Loader.Load(ctx, spec.Request), spec.Within)

	input := ApplyFilters(raw, spec.Filters)
	var feed []*content.Item
	switch spec.Mode {
	case ModeSmart:
		feed = b.Deduper.Smart(input)
	default:
		limit := spec.Limit
		if limit == 0 {
			limit = DefaultLimit
		}
		feed = SelectMixed(input, limit)
	}

	source := raw
	if b.Scope == ScopeSelected {
		source = feed
	}
	facets := make(map[Dimension][]Bucket, len(spec.Facets))
	for _, fs := range spec.Facets {
		buckets := BuildFacets(source, fs.Dimension, FacetOptions{Active: fs.Active, Href: fs.Href})
		if len(buckets) > 0 {
			facets[fs.Dimension] = buckets
		}
	}

	b.Log.Debug("page built",
		zap.String("endpoint", spec.Request.Endpoint),
		zap.Int("raw", len(raw)),
		zap.Int("feed", len(feed)),
		zap.Int("facets", len(facets)),
	)
	return Page{Feed: feed, Facets: facets, Total: len(raw)}
}

// ApplyFilters keeps the items matching every non-empty filter. With no
// filters it returns items unchanged.
func ApplyFilters(items []*content.Item, filters map[Dimension]string) []*content.Item {
	want := make(map[Dimension]string, len(filters))
	for dim, v := range filters {
		if slug := normalize.Slug(v); slug != "" {
			want[dim] = slug
		}
	}
	if len(want) == 0 {
		return items
	}
	return lo.Filter(items, func(it *content.Item, _ int) bool {
		for dim, slug := range want {
			if dim.Resolve(it).Slug != slug {
				return false
			}
		}
		return true
	})
}
