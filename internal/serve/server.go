package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"geolist/internal/domain/config"
	"geolist/internal/domain/site"
	"geolist/internal/feed"
	"geolist/internal/logging"
	"geolist/internal/normalize"
	"geolist/internal/render"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// APIPrefix is where the JSON mirror of every listing page lives.
const APIPrefix = "/api/feed"

type Server struct {
	cfg   config.Config
	log   *zap.Logger
	pages *Pages
	md    *render.MarkdownRenderer
	tpl   *render.TemplateRenderer
	now   func() time.Time

	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, log *zap.Logger) (*Server, error) {
	log = logging.OrNop(log).Named("serve")

	tplDir := render.TemplateDir(cfg.Serve.ThemeDir, cfg.Serve.Theme)
	if err := render.CheckThemeTemplates(tplDir); err != nil {
		return nil, fmt.Errorf("serve: theme %s: %w", cfg.Serve.Theme, err)
	}
	tpl, err := render.NewTemplateRenderer(cfg.Serve.ThemeDir, cfg.Serve.Theme)
	if err != nil {
		return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
	}
	pages, err := NewPages(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("serve: %w", err)
	}

	return &Server{
		cfg:   cfg,
		log:   log,
		pages: pages,
		md:    render.NewMarkdownRenderer(),
		tpl:   tpl,
		now:   time.Now,
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	return s.pages.Close()
}

// Handler is the full route table wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc(APIPrefix+"/", s.handleAPI)
	mux.HandleFunc("/sitemap.xml", s.handleSitemap)

	staticDir := filepath.Join(s.cfg.Serve.ThemeDir, s.cfg.Serve.Theme, "static")
	fileServer := http.FileServer(http.Dir(staticDir))
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))
	mux.Handle("/favicon.ico", fileServer)

	return s.withRequestLog(mux)
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.cfg.Serve.Watch {
		if err := s.startWatch(ctx); err != nil {
			return err
		}
	}
	go s.purgeLoop(ctx)

	srv := &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", zap.String("addr", s.cfg.Serve.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) purgeLoop(ctx context.Context) {
	ttl := s.cfg.API.CacheTTL
	if s.pages.cache == nil || ttl <= 0 {
		return
	}
	t := time.NewTicker(ttl)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := s.pages.Purge(now)
			if err != nil {
				s.log.Warn("cache purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.log.Debug("cache purged", zap.Int("entries", n))
			}
		}
	}
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w
		err = w.Add(render.TemplateDir(s.cfg.Serve.ThemeDir, s.cfg.Serve.Theme))
		if err != nil {
			return
		}
		go s.watchLoop(ctx)
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info("watching templates for changes")
	debounce := time.NewTicker(time.Hour)
	debounce.Stop()

	trigger := func() {
		select {
		case <-debounce.C:
		default:
		}
		debounce.Reset(200 * time.Millisecond)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", zap.Error(err))
		case <-debounce.C:
			debounce.Stop()
			if err := s.tpl.Reload(); err != nil {
				s.log.Error("template reload failed", zap.Error(err))
				continue
			}
			s.log.Info("templates reloaded")
		}
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	route := site.ParseListing("", r.URL.Path, r.URL.Query())
	switch route.Kind {
	case site.RouteHome:
		s.handleIndex(w, r)
	case site.RouteListing:
		s.handleListing(w, r, route)
	default:
		s.handleNotFound(w, r)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	links := make([]render.SectionLink, 0, len(s.cfg.Sections))
	for _, sec := range s.cfg.Sections {
		links = append(links, render.SectionLink{
			Name:  sec.Name,
			Title: sectionTitle(sec),
			Href:  "/" + sec.Name + "/",
		})
	}
	page := render.IndexPage{
		Site:      s.cfg.Site,
		Sections:  links,
		Generated: s.now(),
		Title:     s.cfg.Site.Title,
	}
	htmlBytes, err := s.tpl.RenderIndex(r.Context(), page)
	if err != nil {
		s.renderFailed(w, r, "index", err)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request, route site.Route) {
	page, sec, err := s.pages.Build(r.Context(), route)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}

	lp := render.ListingPage{
		Site:        s.cfg.Site,
		Section:     sec,
		Title:       listingTitle(sec, route),
		Path:        route.Path() + "/",
		Category:    route.Category,
		Breadcrumbs: breadcrumbs(sec, route),
		Cards:       render.Cards(page.Feed, sec.Name, s.md),
		Facets:      render.FacetGroups(page.Facets, feed.Dimensions),
		Total:       page.Total,
		Generated:   s.now(),
		RequestID:   RequestID(r.Context()),
	}
	if route.Category != "" {
		lp.SubTitle = normalize.Label(route.Category)
	}

	htmlBytes, err := s.tpl.RenderListing(r.Context(), lp)
	if err != nil {
		s.renderFailed(w, r, "listing", err)
		return
	}
	writeHTML(w, htmlBytes)
}

// handleAPI serves /api/feed/{section}/... with the same routing as the HTML
// pages. Chip hrefs point at the HTML pages.
func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	route := site.ParseListing(APIPrefix, r.URL.Path, r.URL.Query())
	page, _, err := s.pages.Build(r.Context(), route)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	page := render.NotFoundPage{
		Site: s.cfg.Site,
		Path: r.URL.Path,
	}
	htmlBytes, err := s.tpl.RenderNotFound(r.Context(), page)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(htmlBytes)
}

func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, what string, err error) {
	s.log.Error("render failed",
		zap.String("page", what),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err),
	)
	http.Error(w, "render "+what+" error", http.StatusInternalServerError)
}

func sectionTitle(sec config.SectionConfig) string {
	if sec.Title != "" {
		return sec.Title
	}
	return normalize.Label(sec.Name)
}

// listingTitle is "Blog" on a section root and "Blog in Austin" below it.
func listingTitle(sec config.SectionConfig, r site.Route) string {
	title := sectionTitle(sec)
	for _, place := range []string{r.City, r.State, r.Country} {
		if place != "" {
			return title + " in " + normalize.Label(place)
		}
	}
	return title
}

func breadcrumbs(sec config.SectionConfig, r site.Route) []render.Crumb {
	crumbs := []render.Crumb{{Title: sectionTitle(sec), Href: "/" + sec.Name + "/"}}
	href := "/" + sec.Name
	for _, seg := range []string{r.Country, r.State, r.City} {
		if seg == "" {
			break
		}
		href += "/" + seg
		crumbs = append(crumbs, render.Crumb{Title: normalize.Label(seg), Href: href + "/"})
	}
	return crumbs
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
