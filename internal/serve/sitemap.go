package serve

import (
	"encoding/xml"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// sitemapWorkers bounds concurrent upstream reads for one sitemap request.
const sitemapWorkers = 4

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// handleSitemap lists every listing page reachable from the current upstream
// data. Locations are absolute when site.site_url is set.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	base := strings.TrimSuffix(s.cfg.Site.SiteURL, "/")
	set := urlSet{NS: sitemapNS}
	set.URLs = append(set.URLs, sitemapURL{Loc: base + "/"})
	for _, res := range s.pages.Warm(r.Context(), sitemapWorkers) {
		for _, route := range res.Routes {
			set.URLs = append(set.URLs, sitemapURL{Loc: base + route.Path() + "/"})
		}
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		s.log.Error("sitemap encode failed", zap.Error(err))
		http.Error(w, "sitemap error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}
