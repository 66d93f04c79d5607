package feed

import (
	"geolist/internal/domain/content"
)

func item(title, cat, country string) *content.Item {
	it := &content.Item{Title: title}
	if cat != "" {
		it.Category = content.SlugRef(cat)
	}
	if country != "" {
		it.Country = content.SlugRef(country)
	}
	return it
}

func titlesOf(items []*content.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}
