package app

import (
	"context"
	"runtime"
	"sync"

	"geolist/internal/domain/config"
	"geolist/internal/domain/site"
	"geolist/internal/feed"
)

// SectionResult reports what one section's collection made reachable.
type SectionResult struct {
	Section string
	Items   int
	Routes  []site.Route
}

// Warm loads every section through loader, at most workers at a time, and
// enumerates their listing pages. With a caching collector behind loader this
// primes the cache. Results keep the order of sections; sections skipped
// because ctx ended report zero items and no routes.
func Warm(ctx context.Context, loader feed.Loader, sections []config.SectionConfig, workers int) []SectionResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(sections))

	results := make([]SectionResult, len(sections))
	for i, sec := range sections {
		results[i].Section = sec.Name
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var rb RouteBuilder

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sec := sections[i]
				items := loader.Load(ctx, SectionRequest(sec))
				results[i].Items = len(items)
				results[i].Routes = rb.ListingRoutes(sec, items)
			}
		}()
	}

send:
	for i := range sections {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break send
		}
	}
	close(jobs)
	wg.Wait()
	return results
}
