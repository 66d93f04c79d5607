package render

import (
	"html/template"
	"time"

	"geolist/internal/domain/config"
	"geolist/internal/domain/content"
	"geolist/internal/feed"
)

// Card is one feed entry as the templates see it.
type Card struct {
	Title       string
	Href        string
	Image       string
	Excerpt     template.HTML
	Summary     string
	Category    content.GeoRef
	Location    string
	PublishedAt string
}

// FacetGroup is one row of filter chips.
type FacetGroup struct {
	Dimension feed.Dimension
	Label     string
	Buckets   []feed.Bucket
}

type Crumb struct {
	Title string
	Href  string
}

type ListingPage struct {
	Site        config.SiteConfig
	Section     config.SectionConfig
	Title       string
	SubTitle    string
	Path        string
	Category    string
	Breadcrumbs []Crumb
	Cards       []Card
	Facets      []FacetGroup
	Total       int
	Generated   time.Time
	RequestID   string
}

type SectionLink struct {
	Name  string
	Title string
	Href  string
}

type IndexPage struct {
	Site      config.SiteConfig
	Sections  []SectionLink
	Generated time.Time
	Title     string
}

type NotFoundPage struct {
	Site config.SiteConfig
	Path string
}
