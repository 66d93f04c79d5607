// Package collect reads listing collections from the upstream content API.
// Every read resolves to an Envelope; nothing here panics or returns an error
// to page code.
package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"geolist/internal/logging"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// maxBody caps how much of an upstream response is read.
const maxBody = 16 << 20

// Request names one collection read.
type Request struct {
	Endpoint string
	Query    url.Values
	// CollectionKeys are domain-specific keys the item array may sit under,
	// e.g. "blogs" or "services".
	CollectionKeys []string
}

// Key identifies the request for caching and call coalescing.
func (r Request) Key() string {
	if len(r.Query) == 0 {
		return r.Endpoint
	}
	return r.Endpoint + "?" + r.Query.Encode()
}

// Envelope is the uniform result of a read: either Success with Data (any
// decoded JSON value) or a failure message.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func failure(format string, args ...any) Envelope {
	return Envelope{Success: false, Error: fmt.Sprintf(format, args...)}
}

type Options struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	Cache         *Cache
	CacheTTL      time.Duration
	HTTPClient    *http.Client
	Log           *zap.Logger
}

// Client performs GET requests against the content API.
type Client struct {
	base    *url.URL
	token   string
	http    *http.Client
	limiter *rate.Limiter
	group   singleflight.Group
	cache   *Cache
	ttl     time.Duration
	log     *zap.Logger
	now     func() time.Time
}

func NewClient(opt Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(opt.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("collect: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("collect: base url %q must be http or https", opt.BaseURL)
	}

	hc := opt.HTTPClient
	if hc == nil {
		timeout := opt.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opt.RatePerSecond > 0 {
		limit = rate.Limit(opt.RatePerSecond)
	}
	burst := opt.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		base:    base,
		token:   opt.Token,
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
		cache:   opt.Cache,
		ttl:     opt.CacheTTL,
		log:     logging.OrNop(opt.Log).Named("collect"),
		now:     time.Now,
	}, nil
}

// Collect reads one collection. Transport errors, non-2xx statuses,
// undecodable bodies and bodies reporting success:false all come back as a
// failed Envelope.
func (c *Client) Collect(ctx context.Context, req Request) Envelope {
	key := req.Key()
	if body, ok := c.cache.Get(key, c.ttl, c.now()); ok {
		c.log.Debug("cache hit", zap.String("key", key))
		return parseEnvelope(body)
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		return c.fetch(ctx, req)
	})
	if err != nil {
		return failure("%v", err)
	}
	body := v.([]byte)
	env := parseEnvelope(body)
	if env.Success && !shared {
		if err := c.cache.Put(key, body, c.now()); err != nil {
			c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return env
}

func (c *Client) fetch(ctx context.Context, req Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	u := c.resolve(req)
	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("User-Agent", "geolist/1.0")
	if c.token != "" {
		hreq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := c.now()
	resp, err := c.http.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.Endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.Endpoint, err)
	}
	c.log.Debug("upstream read",
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("took", c.now().Sub(start)),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", req.Endpoint, resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("fetch %s: response is not JSON", req.Endpoint)
	}
	return body, nil
}

func (c *Client) resolve(req Request) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(req.Endpoint, "/")
	q := u.Query()
	for k, vs := range req.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// parseEnvelope interprets a JSON body. A body shaped like an envelope
// ({"success": bool, ...}) is taken at its word; anything else is the data.
func parseEnvelope(body []byte) Envelope {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return failure("decode: %v", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Envelope{Success: true, Data: v}
	}
	flag, ok := obj["success"].(bool)
	if !ok {
		return Envelope{Success: true, Data: v}
	}
	if !flag {
		msg, _ := obj["error"].(string)
		if msg == "" {
			msg, _ = obj["message"].(string)
		}
		if msg == "" {
			msg = "upstream reported failure"
		}
		return Envelope{Success: false, Error: msg}
	}
	if data, ok := obj["data"]; ok {
		return Envelope{Success: true, Data: data}
	}
	return Envelope{Success: true, Data: v}
}
