package serve

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"geolist/internal/domain/config"

	"github.com/stretchr/testify/require"
)

const blogsFixture = `{"success":true,"data":{"blogs":[
 {"title":"Austin SEO","slug":"austin-seo","excerpt":"Rank **higher**","category":"seo","country":"usa","state":"texas","city":"austin"},
 {"title":"Dallas Ads","slug":"dallas-ads","category":"ads","country":"usa","state":"texas","city":"dallas"},
 {"title":"Toronto SEO","slug":"toronto-seo","category":"seo","country":{"slug":"canada","name":"Canada","code":"ca"},"state":"ontario","city":"toronto"}
]}}`

var testTemplates = map[string]string{
	"index.tmpl":   `{{.Title}}|{{range .Sections}}{{.Title}}@{{.Href}};{{end}}`,
	"listing.tmpl": `{{.Title}}|{{range .Facets}}{{.Dimension}}:{{range .Buckets}}{{.Slug}}={{.Count}}@{{.Href}};{{end}}{{end}}|{{range .Cards}}{{.Title}};{{end}}|{{.Total}}`,
	"404.tmpl":     `not found: {{.Path}}`,
}

// upstream fakes the content API: /blogs answers with blogsFixture, anything
// else fails.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/blogs" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(blogsFixture))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "test", "templates")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, body := range testTemplates {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	cfg := config.Default()
	cfg.Site.Title = "Geo"
	cfg.API.BaseURL = baseURL
	cfg.Serve.ThemeDir = root
	cfg.Serve.Theme = "test"
	cfg.Sections = []config.SectionConfig{
		{Name: "blog", Title: "Blog", Endpoint: "/blogs", CollectionKeys: []string{"blogs"}, Geo: true},
		{Name: "faq", Endpoint: "/faq"},
	}
	return cfg
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(testConfig(t, upstream(t).URL), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}
