package render

import (
	"html/template"
	"strings"

	"geolist/internal/domain/content"
	"geolist/internal/feed"
	"geolist/internal/normalize"

	"github.com/samber/lo"
)

// SummaryRunes bounds Card.Summary.
const SummaryRunes = 160

// Cards maps a selected feed onto template cards. Excerpts are rendered as
// markdown; one that fails to render keeps only its plain summary.
func Cards(items []*content.Item, section string, md *MarkdownRenderer) []Card {
	return lo.Map(items, func(it *content.Item, _ int) Card {
		c := Card{
			Title:       it.Title,
			Href:        it.Link(section),
			Image:       it.Image,
			Category:    normalize.CategoryInfo(it.Category),
			Location:    Location(it),
			PublishedAt: it.PublishedAt,
		}
		if it.Excerpt == "" || md == nil {
			return c
		}
		res, err := md.Render([]byte(it.Excerpt))
		if err != nil {
			c.Summary = PlainText(it.Excerpt, SummaryRunes)
			return c
		}
		c.Excerpt = template.HTML(res.HTML)
		c.Summary = PlainText(string(res.HTML), SummaryRunes)
		return c
	})
}

// Location joins the item's geo names from most to least specific,
// e.g. "Austin, Texas, USA".
func Location(it *content.Item) string {
	refs := []content.Ref{it.City, it.State, it.Country}
	names := lo.FilterMap(refs, func(r content.Ref, _ int) (string, bool) {
		g := normalize.GeoInfo(r)
		return g.Name, !g.IsZero() && g.Name != ""
	})
	return strings.Join(lo.Uniq(names), ", ")
}

// FacetGroups orders a page's facets by dims, skipping empty ones.
func FacetGroups(facets map[feed.Dimension][]feed.Bucket, dims []feed.Dimension) []FacetGroup {
	return lo.FilterMap(dims, func(d feed.Dimension, _ int) (FacetGroup, bool) {
		b, ok := facets[d]
		if !ok || len(b) == 0 {
			return FacetGroup{}, false
		}
		return FacetGroup{Dimension: d, Label: d.Label(), Buckets: b}, true
	})
}
