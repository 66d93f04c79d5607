package collect

import (
	"sort"

	"geolist/internal/domain/content"
)

// MaxDepth bounds how deep ExtractCollection looks for the item array.
const MaxDepth = 4

// Keys checked first, in this order, when the payload is an object.
var preferredKeys = []string{"data", "items", "results", "list"}

// ExtractCollection finds the item array in an API payload. The payload may
// be a bare array or an object with the array nested under data, items,
// results, list, one of domainKeys (e.g. "blogs"), or any other key, up to
// MaxDepth levels down. Arrays holding only non-objects are passed over.
// It never fails: when nothing is found the result is empty.
func ExtractCollection(raw any, domainKeys ...string) []*content.Item {
	if items, ok := raw.([]*content.Item); ok {
		out := make([]*content.Item, 0, len(items))
		for _, it := range items {
			if it != nil {
				out = append(out, it)
			}
		}
		return out
	}

	arr, ok := findArray(raw, domainKeys, 0)
	if !ok {
		return []*content.Item{}
	}
	out := make([]*content.Item, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, content.FromMap(m))
		}
	}
	return out
}

func findArray(v any, domainKeys []string, depth int) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		if isCollection(t) {
			return t, true
		}
	case map[string]any:
		if depth >= MaxDepth {
			return nil, false
		}
		for _, k := range orderedKeys(t, domainKeys) {
			if arr, ok := findArray(t[k], domainKeys, depth+1); ok {
				return arr, true
			}
		}
	}
	return nil, false
}

// isCollection accepts empty arrays and arrays with at least one object, so
// that {"tags": ["a"], "posts": [...]} resolves to posts.
func isCollection(arr []any) bool {
	if len(arr) == 0 {
		return true
	}
	for _, v := range arr {
		if _, ok := v.(map[string]any); ok {
			return true
		}
	}
	return false
}

func orderedKeys(m map[string]any, domainKeys []string) []string {
	keys := make([]string, 0, len(m))
	used := make(map[string]struct{}, len(m))
	add := func(k string) {
		if _, ok := m[k]; !ok {
			return
		}
		if _, ok := used[k]; ok {
			return
		}
		used[k] = struct{}{}
		keys = append(keys, k)
	}
	for _, k := range preferredKeys {
		add(k)
	}
	for _, k := range domainKeys {
		add(k)
	}
	rest := make([]string, 0, len(m))
	for k := range m {
		if _, ok := used[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
