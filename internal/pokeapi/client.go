package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Fetcher defines the catalog reads used by the loader and the UI.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchList(ctx context.Context, limit, offset int) (ListPage, error)
	FetchPokemon(ctx context.Context, idOrName string) (Pokemon, error)
	FetchSpecies(ctx context.Context, idOrName string) (Species, error)
	FetchTypes(ctx context.Context) (TypeList, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// RequestObserver receives one call per completed request. code is zero
// when no response was received.
type RequestObserver interface {
	ObserveRequest(endpoint string, code int, elapsed time.Duration)
}

// Client talks to the PokeAPI REST service.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	observer  RequestObserver
	logger    *slog.Logger
}

const (
	DefaultBaseURL   = "https://pokeapi.co/api/v2"
	DefaultTimeout   = 10 * time.Second
	defaultUserAgent = "dex/0.1"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limiter.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithObserver reports request outcomes, typically to metrics.
func WithObserver(o RequestObserver) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the logger used for request failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a Client for baseURL. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchList retrieves one page of Pokemon summaries.
func (c *Client) FetchList(ctx context.Context, limit, offset int) (ListPage, error) {
	if c == nil {
		return ListPage{}, invalid("list", errNilClient)
	}
	if limit < 0 || offset < 0 {
		return ListPage{}, invalid("list", fmt.Errorf("limit and offset must be non-negative (got %d, %d)", limit, offset))
	}
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(offset))
	var payload ListPage
	if err := c.get(ctx, "list", "pokemon", values, &payload); err != nil {
		return ListPage{}, err
	}
	return payload, nil
}

// FetchPokemon retrieves a single Pokemon by numeric ID or name.
func (c *Client) FetchPokemon(ctx context.Context, idOrName string) (Pokemon, error) {
	if c == nil {
		return Pokemon{}, invalid("pokemon", errNilClient)
	}
	key, err := resourceKey(idOrName)
	if err != nil {
		return Pokemon{}, invalid("pokemon", err)
	}
	var payload Pokemon
	if err := c.get(ctx, "pokemon", "pokemon/"+key, nil, &payload); err != nil {
		return Pokemon{}, err
	}
	return payload, nil
}

// FetchSpecies retrieves supplementary species data by numeric ID or name.
func (c *Client) FetchSpecies(ctx context.Context, idOrName string) (Species, error) {
	if c == nil {
		return Species{}, invalid("species", errNilClient)
	}
	key, err := resourceKey(idOrName)
	if err != nil {
		return Species{}, invalid("species", err)
	}
	var payload Species
	if err := c.get(ctx, "species", "pokemon-species/"+key, nil, &payload); err != nil {
		return Species{}, err
	}
	return payload, nil
}

// FetchTypes retrieves the type taxonomy using the service's default page size.
func (c *Client) FetchTypes(ctx context.Context) (TypeList, error) {
	if c == nil {
		return TypeList{}, invalid("types", errNilClient)
	}
	var payload TypeList
	if err := c.get(ctx, "types", "type", nil, &payload); err != nil {
		return TypeList{}, err
	}
	return payload, nil
}

// FetchType retrieves a single type and the Pokemon that carry it.
func (c *Client) FetchType(ctx context.Context, name string) (TypeDetail, error) {
	if c == nil {
		return TypeDetail{}, invalid("type", errNilClient)
	}
	key, err := resourceKey(name)
	if err != nil {
		return TypeDetail{}, invalid("type", err)
	}
	var payload TypeDetail
	if err := c.get(ctx, "type", "type/"+key, nil, &payload); err != nil {
		return TypeDetail{}, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, dest any) error {
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel).String()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.fail(endpoint, reqURL, 0, fmt.Errorf("rate limiter: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return c.fail(endpoint, reqURL, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(endpoint, 0, time.Since(start))
		return c.fail(endpoint, reqURL, 0, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()
	c.observe(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(endpoint, reqURL, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return c.fail(endpoint, reqURL, 0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) fail(endpoint, reqURL string, status int, err error) error {
	te := &TransportError{Op: endpoint, URL: reqURL, StatusCode: status, Err: err}
	c.logger.Warn("pokeapi request failed", "endpoint", endpoint, "url", reqURL, "status", status, "error", err)
	return te
}

// invalid reports arguments rejected before any request is sent.
func invalid(endpoint string, err error) error {
	return &TransportError{Op: endpoint, Err: err}
}

func (c *Client) observe(endpoint string, code int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, code, elapsed)
	}
}

func resourceKey(idOrName string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(idOrName))
	if key == "" {
		return "", fmt.Errorf("id or name required")
	}
	if strings.Contains(key, "/") {
		return "", fmt.Errorf("invalid id or name %q", idOrName)
	}
	return key, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	// ResolveReference drops the last path element unless it ends in a slash.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
