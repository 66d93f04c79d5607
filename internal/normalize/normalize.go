// Package normalize turns the loosely typed category and location fields of
// content items into canonical slugs and display labels.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"geolist/internal/domain/content"

	"golang.org/x/text/unicode/norm"
)

// DefaultCategory is the bucket for items that carry no usable category.
const DefaultCategory = "general"

// Slug lower-cases s and joins its whitespace-separated words with hyphens.
// "  New York " becomes "new-york".
func Slug(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// Label renders a slug for display: hyphen- or space-separated words with an
// upper-cased first letter each. "new-york" becomes "New York". The rest of
// each word is left as is, so "USA" stays "USA".
func Label(s string) string {
	words := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// GeoInfo normalizes a country, state or city field.
func GeoInfo(ref content.Ref) content.GeoRef {
	switch v := ref.(type) {
	case content.SlugRef:
		s := string(v)
		slug := Slug(s)
		if slug == "" {
			return content.GeoRef{}
		}
		return content.GeoRef{Slug: slug, Name: Label(s)}
	case content.DetailedRef:
		src := v.Slug
		if strings.TrimSpace(src) == "" {
			src = v.Name
		}
		slug := Slug(src)
		if slug == "" {
			return content.GeoRef{Code: v.Code}
		}
		name := strings.TrimSpace(v.Name)
		if name == "" {
			name = Label(slug)
		}
		return content.GeoRef{Slug: slug, Name: name, Code: v.Code}
	default:
		return content.GeoRef{}
	}
}

// CategoryInfo normalizes a category field. Categories share the
// string-or-object shape of locations, so the rules are the same.
func CategoryInfo(ref content.Ref) content.GeoRef {
	g := GeoInfo(ref)
	g.Code = ""
	return g
}

// CategoryKey is the item's category slug, or DefaultCategory.
func CategoryKey(it *content.Item) string {
	if it == nil {
		return DefaultCategory
	}
	if slug := CategoryInfo(it.Category).Slug; slug != "" {
		return slug
	}
	return DefaultCategory
}

// LocationKey is the most specific location the item names: city, then
// state, then country. Empty when the item has none.
func LocationKey(it *content.Item) string {
	if it == nil {
		return ""
	}
	for _, ref := range []content.Ref{it.City, it.State, it.Country} {
		if slug := GeoInfo(ref).Slug; slug != "" {
			return slug
		}
	}
	return ""
}
