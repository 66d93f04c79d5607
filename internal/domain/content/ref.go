package content

import (
	"strings"
)

// Ref is a category or location value as the content API sends it: either a
// bare string or an object carrying slug/name/code. Only SlugRef and
// DetailedRef implement it.
type Ref interface {
	isRef()
}

// SlugRef is a plain string field, e.g. "united-states" or "Web Design".
type SlugRef string

func (SlugRef) isRef() {}

// DetailedRef is the object form. Any of the fields may be empty.
type DetailedRef struct {
	Slug string `json:"slug,omitempty"`
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

func (DetailedRef) isRef() {}

// GeoRef is the normalized view of a Ref. An empty Slug means the value could
// not be resolved (absent field, blank string, object without slug or name).
type GeoRef struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

func (g GeoRef) IsZero() bool {
	return g.Slug == ""
}

// RefFromValue converts a decoded JSON value into a Ref. Strings become
// SlugRef, objects become DetailedRef, anything else (numbers, arrays, null)
// yields nil.
func RefFromValue(v any) Ref {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return SlugRef(t)
	case map[string]any:
		d := DetailedRef{
			Slug: firstString(t, "slug"),
			Name: firstString(t, "name", "title", "label"),
			Code: firstString(t, "code", "iso", "iso2"),
		}
		if d == (DetailedRef{}) {
			return nil
		}
		return d
	case Ref:
		return t
	default:
		return nil
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}
