package content

import (
	"encoding/json"
	"strings"
)

// Item is one listing entry returned by the content API: a blog post,
// service page, comparison, FAQ page and so on. There is no guaranteed
// identity field; callers compare items by pointer.
type Item struct {
	Title       string `json:"title"`
	Slug        string `json:"slug,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`

	Category Ref `json:"category,omitempty"`
	Country  Ref `json:"country,omitempty"`
	State    Ref `json:"state,omitempty"`
	City     Ref `json:"city,omitempty"`
}

// FromMap builds an Item from one decoded JSON object. Unknown keys are
// ignored and missing ones stay empty; it never fails.
func FromMap(m map[string]any) *Item {
	it := &Item{
		Title:       firstString(m, "title", "name", "heading"),
		Slug:        firstString(m, "slug"),
		Excerpt:     firstString(m, "excerpt", "description", "summary"),
		Image:       imageURL(m),
		URL:         firstString(m, "url", "href", "link"),
		PublishedAt: firstString(m, "publishedAt", "published_at", "date", "createdAt"),
		Category:    RefFromValue(m["category"]),
		Country:     RefFromValue(m["country"]),
		State:       RefFromValue(m["state"]),
		City:        RefFromValue(m["city"]),
	}
	it.Normalize()
	return it
}

func imageURL(m map[string]any) string {
	for _, k := range []string{"image", "imageUrl", "featuredImage", "cover"} {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case map[string]any:
			if s := firstString(v, "url", "src"); s != "" {
				return s
			}
		}
	}
	return ""
}

func (it *Item) Normalize() {
	it.Title = strings.TrimSpace(it.Title)
	it.Slug = strings.TrimSpace(it.Slug)
	it.Excerpt = strings.TrimSpace(it.Excerpt)
	it.URL = strings.TrimSpace(it.URL)
}

// Link is where a card for this item points: the explicit URL when the API
// sent one, otherwise /{section}/{slug}.
func (it *Item) Link(section string) string {
	if it.URL != "" {
		return it.URL
	}
	if it.Slug == "" {
		return "/" + strings.Trim(section, "/") + "/"
	}
	return "/" + strings.Trim(section, "/") + "/" + it.Slug
}

// UnmarshalJSON accepts the same heterogeneous shapes as FromMap.
func (it *Item) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*it = *FromMap(m)
	return nil
}
