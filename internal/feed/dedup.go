package feed

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"

	"geolist/internal/domain/content"
	"geolist/internal/normalize"
)

const (
	DefaultSmartCategories = 7
	DefaultSmartExtras     = 3
)

var (
	// "in <place words>" anywhere in the title: "best plumbers in austin, tx".
	placeSuffix = regexp.MustCompile(`(?i)\bin\s+[\p{L}\s,]+`)
	// Trailing brand suffix: "... | Acme".
	pipeSuffix = regexp.MustCompile(`\s*\|.*$`)
)

// TemplateKey reduces a title to its template by dropping the embedded place
// and any trailing "| suffix". "Best Plumbers in Austin | Acme" and
// "Best Plumbers in Denver" share the key "best plumbers".
func TemplateKey(title string) string {
	k := strings.ToLower(title)
	k = placeSuffix.ReplaceAllString(k, "")
	k = pipeSuffix.ReplaceAllString(k, "")
	return strings.TrimSpace(k)
}

// Deduper builds the feed for cross-geo pages, where the same templated page
// exists once per city. The trailing extras are drawn at random so repeated
// renders rotate through the long tail.
type Deduper struct {
	MaxCategories int
	Extras        int
	Rand          *rand.Rand

	mu sync.Mutex // guards Rand
}

// NewDeduper returns a Deduper with the default caps. A zero seed draws from
// the runtime source; any other seed makes the extras reproducible.
func NewDeduper(seed uint64) *Deduper {
	d := &Deduper{
		MaxCategories: DefaultSmartCategories,
		Extras:        DefaultSmartExtras,
	}
	if seed != 0 {
		d.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return d
}

// UniqueTemplates keeps the first item seen for each TemplateKey.
func UniqueTemplates(items []*content.Item) []*content.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]*content.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		key := TemplateKey(it.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Smart returns up to MaxCategories category representatives followed by up
// to Extras randomly chosen leftovers. The representatives are deterministic
// for a given input order; the extras are not unless Rand is seeded.
func (d *Deduper) Smart(items []*content.Item) []*content.Item {
	picks, rest := d.categoryPicks(UniqueTemplates(items))
	return append(picks, d.sample(rest)...)
}

func (d *Deduper) categoryPicks(unique []*content.Item) (picks, rest []*content.Item) {
	seen := make(map[string]struct{})
	picks = make([]*content.Item, 0, d.MaxCategories)
	for _, it := range unique {
		cat := normalize.CategoryKey(it)
		if _, ok := seen[cat]; ok || len(picks) >= d.MaxCategories {
			rest = append(rest, it)
			continue
		}
		seen[cat] = struct{}{}
		picks = append(picks, it)
	}
	return picks, rest
}

func (d *Deduper) sample(rest []*content.Item) []*content.Item {
	if d.Extras <= 0 || len(rest) == 0 {
		return nil
	}
	shuffled := make([]*content.Item, len(rest))
	copy(shuffled, rest)
	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if d.Rand != nil {
		d.mu.Lock()
		d.Rand.Shuffle(len(shuffled), swap)
		d.mu.Unlock()
	} else {
		rand.Shuffle(len(shuffled), swap)
	}
	if len(shuffled) > d.Extras {
		shuffled = shuffled[:d.Extras]
	}
	return shuffled
}
