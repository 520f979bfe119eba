package remotestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"github.com/dalemusser/shopadmin/internal/app/system/timeouts"
	"github.com/dalemusser/shopadmin/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public upstream used when none is configured.
const DefaultBaseURL = "https://dummyjson.com"

// RequestIDHeader carries a per-request id to the upstream.
const RequestIDHeader = "X-Request-ID"

// Client talks to the upstream API over HTTP. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit paces outbound requests to perSecond with the given burst.
// A non-positive perSecond disables pacing.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}

	c := &Client{
		base: u,
		http: &http.Client{},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ API = (*Client)(nil)

// Users fetches one page of users.
func (c *Client) Users(ctx context.Context, q Query) (paging.Page[models.User], error) {
	return fetchPage[models.User](ctx, c, Users, q)
}

// Products fetches one page of products.
func (c *Client) Products(ctx context.Context, q Query) (paging.Page[models.Product], error) {
	return fetchPage[models.Product](ctx, c, Products, q)
}

// Carts fetches one page of carts.
func (c *Client) Carts(ctx context.Context, q Query) (paging.Page[models.Cart], error) {
	return fetchPage[models.Cart](ctx, c, Carts, q)
}

// Categories fetches the product category reference list.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, c.endpoint("/products/category-list", nil), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// Ping checks that the upstream answers at all.
func (c *Client) Ping(ctx context.Context) error {
	var discard json.RawMessage
	return c.getJSON(ctx, c.endpoint("/test", nil), &discard)
}

func fetchPage[T any](ctx context.Context, c *Client, collection string, q Query) (paging.Page[T], error) {
	if err := q.Validate(); err != nil {
		return paging.Empty[T](), err
	}
	u, err := c.pageURL(collection, q)
	if err != nil {
		return paging.Empty[T](), err
	}

	var env map[string]json.RawMessage
	if err := c.getJSON(ctx, u, &env); err != nil {
		return paging.Empty[T](), err
	}

	var items []T
	if raw, ok := env[collection]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return paging.Empty[T](), fmt.Errorf("decode %s: %w", collection, err)
		}
	}
	var total int
	if raw, ok := env["total"]; ok {
		if err := json.Unmarshal(raw, &total); err != nil {
			return paging.Empty[T](), fmt.Errorf("decode %s total: %w", collection, err)
		}
	}

	if items == nil {
		items = []T{}
	}
	items = paging.Clamp(items, q.PageSize)
	if total < len(items) {
		total = len(items)
	}
	return paging.Page[T]{Items: items, Total: total}, nil
}

// pageURL maps a Query onto the upstream's path shapes:
//
//	/{collection}/search?q=...
//	/products/category/{category}
//	/{collection}/filter?key=...&value=...
//	/{collection}
//
// each with limit and skip.
func (c *Client) pageURL(collection string, q Query) (string, error) {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.PageSize))
	v.Set("skip", strconv.Itoa(paging.Skip(q.Page, q.PageSize)))

	var path string
	switch {
	case q.Search != "":
		path = "/" + collection + "/search"
		v.Set("q", q.Search)
	case q.Category != "":
		if err := q.Check(collection); err != nil {
			return "", err
		}
		path = "/products/category/" + q.Category
	case q.FilterKey != "":
		path = "/" + collection + "/filter"
		v.Set("key", q.FilterKey)
		v.Set("value", q.FilterValue)
	default:
		path = "/" + collection
	}
	return c.endpoint(path, v), nil
}

func (c *Client) endpoint(path string, v url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if v != nil {
		u.RawQuery = v.Encode()
	}
	return u.String()
}

// getJSON issues a GET under the upstream deadline and decodes a 2xx body
// into out. Anything else is returned as an error.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Upstream(), c.log, "upstream GET")
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("GET %s: rate limit wait: %w", u, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	c.log.Debug("upstream request",
		zap.String("url", u),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &StatusError{StatusCode: resp.StatusCode, Method: http.MethodGet, URL: u}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", u, err)
	}
	return nil
}
