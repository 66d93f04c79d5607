package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Template files every theme must provide.
var RequiredTemplates = []string{
	"index.tmpl",
	"listing.tmpl",
	"404.tmpl",
}

var _ Renderer = (*TemplateRenderer)(nil)

type TemplateRenderer struct {
	pattern string

	mu  sync.RWMutex
	tpl *template.Template
}

func NewTemplateRenderer(themeDir, themeName string) (*TemplateRenderer, error) {
	r := &TemplateRenderer{
		pattern: filepath.Join(TemplateDir(themeDir, themeName), "*tmpl"),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// TemplateDir is where a theme keeps its templates.
func TemplateDir(themeDir, themeName string) string {
	return filepath.Join(themeDir, themeName, "templates")
}

// Reload parses the theme templates again. On error the previous set stays
// in use.
func (r *TemplateRenderer) Reload() error {
	tpl, err := template.New("").Funcs(templateFuncs()).ParseGlob(r.pattern)
	if err != nil {
		return fmt.Errorf("render: parse %s: %w", r.pattern, err)
	}
	r.mu.Lock()
	r.tpl = tpl
	r.mu.Unlock()
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(s string, layout string) string {
			for _, in := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
				if t, err := time.Parse(in, s); err == nil {
					return t.Format(layout)
				}
			}
			return s
		},
		"nowYear": func() int {
			return time.Now().Year()
		},
		"upper": strings.ToUpper,
		"add":   func(a, b int) int { return a + b },
		"sub":   func(a, b int) int { return a - b },
	}
}

func (r *TemplateRenderer) RenderIndex(ctx context.Context, page IndexPage) ([]byte, error) {
	return r.exec("index.tmpl", page)
}

func (r *TemplateRenderer) RenderListing(ctx context.Context, page ListingPage) ([]byte, error) {
	return r.exec("listing.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data any) ([]byte, error) {
	r.mu.RLock()
	t := r.tpl.Lookup(name)
	r.mu.RUnlock()
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func CheckThemeTemplates(dir string) error {
	for _, name := range RequiredTemplates {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}
