package serve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"geolist/internal/app"
	"geolist/internal/collect"
	"geolist/internal/domain/config"
	"geolist/internal/domain/site"
	"geolist/internal/feed"
	"geolist/internal/logging"

	"go.uber.org/zap"
)

// ErrNotFound is returned for routes that name no configured section, or geo
// segments under a section that has none.
var ErrNotFound = errors.New("serve: no such page")

// geoLevels maps a route depth to the dimension its chips drill into.
var geoLevels = []feed.Dimension{feed.DimCountry, feed.DimState, feed.DimCity}

// Pages turns listing routes into built feed pages. It owns the upstream
// client and its cache.
type Pages struct {
	cfg     config.Config
	loader  *collect.Loader
	builder *feed.Builder
	cache   *collect.Cache
}

// NewPages wires collector, cache and feed builder from cfg.
func NewPages(cfg config.Config, log *zap.Logger) (*Pages, error) {
	log = logging.OrNop(log)

	scope, err := feed.ParseScope(cfg.Feed.FacetScope)
	if err != nil {
		return nil, err
	}

	var cache *collect.Cache
	if cfg.API.CachePath != "" {
		cache, err = collect.OpenCache(collect.CacheOptions{Path: cfg.API.CachePath})
		if err != nil {
			return nil, fmt.Errorf("serve: open cache: %w", err)
		}
	}

	client, err := collect.NewClient(collect.Options{
		BaseURL:       cfg.API.BaseURL,
		Token:         cfg.API.Token,
		Timeout:       cfg.API.Timeout,
		RatePerSecond: cfg.API.RatePerSecond,
		Burst:         cfg.API.Burst,
		Cache:         cache,
		CacheTTL:      cfg.API.CacheTTL,
		Log:           log,
	})
	if err != nil {
		_ = cache.Close()
		return nil, err
	}

	deduper := feed.NewDeduper(cfg.Feed.Seed)
	deduper.MaxCategories = cfg.Feed.SmartCategories
	deduper.Extras = cfg.Feed.SmartExtras

	loader := collect.NewLoader(client, log)
	return &Pages{
		cfg:     cfg,
		loader:  loader,
		builder: feed.NewBuilder(loader, deduper, scope, log),
		cache:   cache,
	}, nil
}

func (p *Pages) Close() error {
	return p.cache.Close()
}

// Warm loads every configured section and lists the pages each makes
// reachable.
func (p *Pages) Warm(ctx context.Context, workers int) []app.SectionResult {
	return app.Warm(ctx, p.loader, p.cfg.Sections, workers)
}

// Purge drops cache entries older than the configured TTL.
func (p *Pages) Purge(now time.Time) (int, error) {
	if p.cache == nil || p.cfg.API.CacheTTL <= 0 {
		return 0, nil
	}
	return p.cache.Purge(p.cfg.API.CacheTTL, now)
}

// Build resolves r to its section and builds the page.
func (p *Pages) Build(ctx context.Context, r site.Route) (feed.Page, config.SectionConfig, error) {
	if r.Kind != site.RouteListing {
		return feed.Page{}, config.SectionConfig{}, ErrNotFound
	}
	sec, ok := p.cfg.Section(r.Section)
	if !ok || (!sec.Geo && r.Depth() > 0) {
		return feed.Page{}, config.SectionConfig{}, ErrNotFound
	}
	return p.builder.Build(ctx, p.Spec(r, sec)), sec, nil
}

// Spec describes the page for r. Geo segments scope both facets and feed; a
// category query only narrows the feed. Every page offers category chips
// that toggle the query; geo sections also offer chips for the next level
// down.
func (p *Pages) Spec(r site.Route, sec config.SectionConfig) feed.PageSpec {
	spec := feed.PageSpec{
		Request: app.SectionRequest(sec),
		Mode:    feed.ModeMixed,
		Limit:   p.cfg.EffectiveLimit(sec),
	}
	if sec.Mode == config.ModeSmart {
		spec.Mode = feed.ModeSmart
	}

	within := map[feed.Dimension]string{}
	for dim, v := range map[feed.Dimension]string{
		feed.DimCountry: r.Country,
		feed.DimState:   r.State,
		feed.DimCity:    r.City,
	} {
		if v != "" {
			within[dim] = v
		}
	}
	if len(within) > 0 {
		spec.Within = within
	}
	if r.Category != "" {
		spec.Filters = map[feed.Dimension]string{feed.DimCategory: r.Category}
	}

	base := r.Path() + "/"
	spec.Facets = append(spec.Facets, feed.FacetSpec{
		Dimension: feed.DimCategory,
		Active:    r.Category,
		Href:      feed.QueryToggle{Base: base, Param: "category", Query: r.Query},
	})
	if sec.Geo && r.Depth() < len(geoLevels) {
		var carry url.Values
		if r.Category != "" {
			carry = url.Values{"category": {r.Category}}
		}
		spec.Facets = append(spec.Facets, feed.FacetSpec{
			Dimension: geoLevels[r.Depth()],
			Href:      feed.PathSegment{Prefix: r.Path(), Query: carry},
		})
	}
	return spec
}
