package site

import (
	"fmt"
	"net/url"
	"strings"
)

type RouteKind string

const (
	RouteHome     RouteKind = "home"
	RouteListing  RouteKind = "listing"
	RouteNotFound RouteKind = "404"
)

// MaxGeoDepth is country / state / city.
const MaxGeoDepth = 3

// Route is a parsed listing URL: /{section}/{country}/{state}/{city}/ with
// an optional ?category= filter.
type Route struct {
	Kind     RouteKind
	Section  string
	Country  string
	State    string
	City     string
	Category string
	Query    url.Values
}

// ParseListing splits a request path into a Route. prefix is stripped first
// ("/api/feed" for the JSON surface, "" for pages). Segments past the city
// level, empty segments and dot segments produce RouteNotFound.
func ParseListing(prefix, path string, query url.Values) Route {
	path = strings.TrimPrefix(path, prefix)
	path = strings.Trim(path, "/")
	if path == "" {
		return Route{Kind: RouteHome, Query: query}
	}
	parts := strings.Split(path, "/")
	if len(parts) > 1+MaxGeoDepth {
		return Route{Kind: RouteNotFound}
	}
	for i, p := range parts {
		p, err := url.PathUnescape(p)
		if err != nil {
			return Route{Kind: RouteNotFound}
		}
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || p == "." || p == ".." {
			return Route{Kind: RouteNotFound}
		}
		parts[i] = p
	}

	r := Route{Kind: RouteListing, Section: parts[0], Query: query}
	geo := parts[1:]
	if len(geo) > 0 {
		r.Country = geo[0]
	}
	if len(geo) > 1 {
		r.State = geo[1]
	}
	if len(geo) > 2 {
		r.City = geo[2]
	}
	if query != nil {
		r.Category = strings.TrimSpace(query.Get("category"))
	}
	return r
}

// Depth is the number of geo segments: 0 for a section root, 3 for a city.
func (r Route) Depth() int {
	switch {
	case r.City != "":
		return 3
	case r.State != "":
		return 2
	case r.Country != "":
		return 1
	default:
		return 0
	}
}

// Path is the canonical URL path of the route, without query or trailing
// slash: /blog/usa/texas.
func (r Route) Path() string {
	segs := []string{r.Section, r.Country, r.State, r.City}
	var b strings.Builder
	for _, s := range segs {
		if s == "" {
			break
		}
		b.WriteString("/")
		b.WriteString(url.PathEscape(s))
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Section != "" {
		parts = append(parts, "section="+r.Section)
	}
	if d := r.Depth(); d > 0 {
		parts = append(parts, fmt.Sprintf("depth=%d", d))
	}
	if r.Category != "" {
		parts = append(parts, "category="+r.Category)
	}
	if p := r.Path(); p != "/" {
		parts = append(parts, "path="+p)
	}
	return strings.Join(parts, " ")
}
