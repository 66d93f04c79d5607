package app

import (
	"sort"

	"geolist/internal/collect"
	"geolist/internal/domain/config"
	"geolist/internal/domain/content"
	"geolist/internal/domain/site"
	"geolist/internal/normalize"
)

// SectionRequest is the upstream read behind every page of sec.
func SectionRequest(sec config.SectionConfig) collect.Request {
	return collect.Request{
		Endpoint:       sec.Endpoint,
		CollectionKeys: sec.CollectionKeys,
	}
}

// RouteBuilder enumerates the listing pages a section's items make
// reachable: the section root plus, for geo sections, one page per country,
// country/state and country/state/city seen in the items.
type RouteBuilder struct{}

func (RouteBuilder) ListingRoutes(sec config.SectionConfig, items []*content.Item) []site.Route {
	root := site.Route{Kind: site.RouteListing, Section: sec.Name}
	routes := []site.Route{root}
	if !sec.Geo {
		return routes
	}

	seen := map[string]struct{}{root.Path(): {}}
	add := func(r site.Route) {
		p := r.Path()
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		routes = append(routes, r)
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		country := normalize.GeoInfo(it.Country).Slug
		if country == "" {
			continue
		}
		r := root
		r.Country = country
		add(r)

		if r.State = normalize.GeoInfo(it.State).Slug; r.State == "" {
			continue
		}
		add(r)

		if r.City = normalize.GeoInfo(it.City).Slug; r.City == "" {
			continue
		}
		add(r)
	}

	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path() < routes[j].Path()
	})
	return routes
}
