package config

import (
	domainerr "geolist/internal/domain/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	Site     SiteConfig      `yaml:"site"`
	API      APIConfig       `yaml:"api"`
	Feed     FeedConfig      `yaml:"feed"`
	Serve    ServeConfig     `yaml:"serve"`
	Log      LogConfig       `yaml:"log"`
	Sections []SectionConfig `yaml:"sections"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	SiteURL     string `yaml:"site_url"`
	Language    string `yaml:"language"`
	Description string `yaml:"description"`
}

type APIConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Token         string        `yaml:"token"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
	CachePath     string        `yaml:"cache_path"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

type FeedConfig struct {
	DefaultLimit    int    `yaml:"default_limit"`
	SmartCategories int    `yaml:"smart_categories"`
	SmartExtras     int    `yaml:"smart_extras"`
	FacetScope      string `yaml:"facet_scope"`
	// Seed fixes the random extras of smart sections; 0 means unseeded.
	Seed uint64 `yaml:"seed"`
}

type ServeConfig struct {
	Addr     string `yaml:"addr"`
	ThemeDir string `yaml:"theme_dir"`
	Theme    string `yaml:"theme"`
	Watch    bool   `yaml:"watch"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dev   bool   `yaml:"dev"`
}

type SectionMode string

const (
	ModeMixed SectionMode = "mixed"
	ModeSmart SectionMode = "smart"
)

// SectionConfig declares one listing family, e.g. blog or services, and the
// upstream endpoint it reads.
type SectionConfig struct {
	Name           string      `yaml:"name"`
	Title          string      `yaml:"title"`
	Endpoint       string      `yaml:"endpoint"`
	CollectionKeys []string    `yaml:"collection_keys"`
	Limit          int         `yaml:"limit"`
	Mode           SectionMode `yaml:"mode"`
	Geo            bool        `yaml:"geo"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Geolist",
			Language: "en",
		},
		API: APIConfig{
			Timeout:       10 * time.Second,
			RatePerSecond: 20,
			Burst:         5,
			CacheTTL:      5 * time.Minute,
		},
		Feed: FeedConfig{
			DefaultLimit:    10,
			SmartCategories: 7,
			SmartExtras:     3,
			FacetScope:      "full",
		},
		Serve: ServeConfig{
			Addr:     ":8080",
			ThemeDir: "themes",
			Theme:    "default",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if su := strings.TrimSpace(c.Site.SiteURL); su != "" && !isValidAbsURL(su) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}

	if strings.TrimSpace(c.API.BaseURL) == "" {
		ve.Add("api.base_url", "must not be empty")
	} else if !isValidAbsURL(c.API.BaseURL) {
		ve.Add("api.base_url", "must be a valid absolute URL")
	}
	if c.API.Timeout < 0 {
		ve.Add("api.timeout", "must not be negative")
	}
	if c.API.RatePerSecond < 0 {
		ve.Add("api.rate_per_second", "must not be negative")
	}
	if c.API.CacheTTL < 0 {
		ve.Add("api.cache_ttl", "must not be negative")
	}

	if c.Feed.DefaultLimit <= 0 {
		ve.Add("feed.default_limit", "must be positive")
	}
	if c.Feed.SmartCategories < 0 {
		ve.Add("feed.smart_categories", "must not be negative")
	}
	if c.Feed.SmartExtras < 0 {
		ve.Add("feed.smart_extras", "must not be negative")
	}
	switch c.Feed.FacetScope {
	case "", "full", "selected":
	default:
		ve.Add("feed.facet_scope", "must be 'full' or 'selected'")
	}

	if strings.TrimSpace(c.Serve.Addr) == "" {
		ve.Add("serve.addr", "must not be empty")
	}
	if strings.TrimSpace(c.Serve.ThemeDir) == "" {
		ve.Add("serve.theme_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Serve.Theme) == "" {
		ve.Add("serve.theme", "must not be empty")
	}

	if len(c.Sections) == 0 {
		ve.Add("sections", "at least one section is required")
	}
	seen := make(map[string]struct{}, len(c.Sections))
	for i, s := range c.Sections {
		field := "sections[" + s.Name + "]"
		if strings.TrimSpace(s.Name) == "" {
			ve.Addf("sections", "entry %d has no name", i)
			continue
		}
		if strings.Contains(s.Name, "/") || s.Name == "api" || s.Name == "static" {
			ve.Add(field+".name", "must be a single path segment other than 'api' or 'static'")
		}
		if _, dup := seen[s.Name]; dup {
			ve.Add(field+".name", "is declared twice")
		}
		seen[s.Name] = struct{}{}
		if strings.TrimSpace(s.Endpoint) == "" {
			ve.Add(field+".endpoint", "must not be empty")
		}
		if s.Limit < 0 {
			ve.Add(field+".limit", "must not be negative")
		}
		switch s.Mode {
		case "", ModeMixed, ModeSmart:
		default:
			ve.Add(field+".mode", "must be 'mixed' or 'smart'")
		}
	}

	return ve.Err()
}

// Section looks up a section by name.
func (c Config) Section(name string) (SectionConfig, bool) {
	for _, s := range c.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return SectionConfig{}, false
}

// EffectiveLimit is the section's feed length, falling back to the feed
// default.
func (c Config) EffectiveLimit(s SectionConfig) int {
	if s.Limit > 0 {
		return s.Limit
	}
	return c.Feed.DefaultLimit
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Environment variables that override file values.
const (
	EnvBaseURL   = "GEOLIST_API_BASE_URL"
	EnvToken     = "GEOLIST_API_TOKEN"
	EnvAddr      = "GEOLIST_ADDR"
	EnvCachePath = "GEOLIST_CACHE_PATH"
	EnvLogLevel  = "GEOLIST_LOG_LEVEL"
)

// ApplyEnv copies set environment variables over the loaded values. A .env
// file in the working directory is read first if present.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv(EnvBaseURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Serve.Addr = v
	}
	if v := os.Getenv(EnvCachePath); v != "" {
		c.API.CachePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Load reads path over Default, applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// fields present in the file override defaults, the rest stay
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file means "defaults plus
// environment".
func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
		data = nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
