// Package feed turns a raw content list into what a listing page shows: a
// short, varied feed and the facet chips used to filter it.
package feed

import (
	"geolist/internal/domain/content"
	"geolist/internal/normalize"
)

// DefaultLimit is the feed length used when a section does not set one.
const DefaultLimit = 10

// selection is the state threaded through the three passes of SelectMixed.
// admitted is keyed by pointer: items have no reliable id.
type selection struct {
	limit    int
	admitted map[*content.Item]struct{}
	out      []*content.Item
}

func newSelection(limit, capHint int) *selection {
	if capHint > limit {
		capHint = limit
	}
	return &selection{
		limit:    limit,
		admitted: make(map[*content.Item]struct{}, capHint),
		out:      make([]*content.Item, 0, capHint),
	}
}

func (s *selection) full() bool {
	return len(s.out) >= s.limit
}

func (s *selection) has(it *content.Item) bool {
	_, ok := s.admitted[it]
	return ok
}

func (s *selection) admit(it *content.Item) {
	s.admitted[it] = struct{}{}
	s.out = append(s.out, it)
}

// SelectMixed picks at most limit items from items, favouring variety.
//
// It makes three passes over items in order. The first admits the first item
// of every category. The second admits items whose location (city, else
// state, else country) has not been seen yet, counting the locations of items
// already admitted, and always admits items with no location. The third fills
// the remaining slots in input order. Passes are concatenated, so every
// first-of-category item precedes every first-of-location item.
func SelectMixed(items []*content.Item, limit int) []*content.Item {
	if limit <= 0 || len(items) == 0 {
		return []*content.Item{}
	}
	sel := newSelection(limit, len(items))
	categoryPass(sel, items)
	locationPass(sel, items)
	fillPass(sel, items)
	return sel.out
}

func categoryPass(sel *selection, items []*content.Item) {
	seen := make(map[string]struct{})
	for _, it := range items {
		if sel.full() {
			return
		}
		if it == nil || sel.has(it) {
			continue
		}
		cat := normalize.CategoryKey(it)
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		sel.admit(it)
	}
}

func locationPass(sel *selection, items []*content.Item) {
	seen := make(map[string]struct{}, len(sel.out))
	for _, it := range sel.out {
		if loc := normalize.LocationKey(it); loc != "" {
			seen[loc] = struct{}{}
		}
	}
	for _, it := range items {
		if sel.full() {
			return
		}
		if it == nil || sel.has(it) {
			continue
		}
		loc := normalize.LocationKey(it)
		if loc != "" {
			if _, ok := seen[loc]; ok {
				continue
			}
			seen[loc] = struct{}{}
		}
		sel.admit(it)
	}
}

func fillPass(sel *selection, items []*content.Item) {
	for _, it := range items {
		if sel.full() {
			return
		}
		if it == nil || sel.has(it) {
			continue
		}
		sel.admit(it)
	}
}
