package rest

import (
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/kbukum/jsonrest/httpclient"
	"github.com/kbukum/jsonrest/logger"
	"github.com/kbukum/jsonrest/version"
)

// Client dispatches requests to a JSON-over-REST service and holds its
// base URL, timeout, headers and credentials. It is safe for concurrent
// use; setters affect dispatches that start after they return.
type Client struct {
	transport httpclient.Transport
	log       *logger.Logger
	routes    *Routes
	userAgent string

	mu       sync.RWMutex
	baseURL  string
	timeout  time.Duration
	headers  map[string]string
	username string
	password string
	bearer   string
}

// Option configures a Client at construction.
type Option func(*Client)

// WithTransport replaces the default httpclient.Adapter.
func WithTransport(t httpclient.Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithLogger sets the logger used for dispatch diagnostics. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l.WithComponent("rest")
		}
	}
}

// WithRoutes sets a client-specific route table, consulted before DefaultRoutes.
func WithRoutes(r *Routes) Option {
	return func(c *Client) {
		c.routes = r
	}
}

// WithUserAgent overrides the default "jsonrest/<version>" User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		log:       logger.Nop(),
		userAgent: version.UserAgent(),
		baseURL:   cfg.BaseURL,
		timeout:   cfg.Timeout,
		headers:   canonicalHeaders(cfg.Headers),
		username:  cfg.Username,
		password:  cfg.Password,
		bearer:    cfg.BearerToken,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		adapter, err := httpclient.New(cfg.Transport)
		if err != nil {
			return nil, err
		}
		c.transport = adapter
	}
	if c.bearer != "" {
		c.warnIfExpired(c.bearer)
	}
	return c, nil
}

// NewWithBaseURL creates a Client with default settings for baseURL.
func NewWithBaseURL(baseURL string, opts ...Option) (*Client, error) {
	return New(Config{BaseURL: baseURL}, opts...)
}

// Transport returns the transport used by the client.
func (c *Client) Transport() httpclient.Transport {
	return c.transport
}

// BaseURL returns the base URL without trailing slashes.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL sets the base URL, trimming trailing slashes.
func (c *Client) SetBaseURL(u string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = trimBaseURL(u)
	return c
}

// Timeout returns the per-dispatch timeout.
func (c *Client) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

// SetTimeout sets the per-dispatch timeout. Zero or negative disables the
// client deadline; the caller's context still applies.
func (c *Client) SetTimeout(d time.Duration) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
	return c
}

// Header returns a custom header value. Names are case-insensitive.
func (c *Client) Header(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.headers[http.CanonicalHeaderKey(name)]
	return v, ok
}

// SetHeader sets a custom header sent with every request. It replaces any
// header with the same name in a different case.
func (c *Client) SetHeader(name, value string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[http.CanonicalHeaderKey(name)] = value
	return c
}

// DeleteHeader removes a custom header.
func (c *Client) DeleteHeader(name string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.headers, http.CanonicalHeaderKey(name))
	return c
}

// Headers returns a copy of the custom headers, keyed by canonical name.
func (c *Client) Headers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.headers)
}

// SetCredentials stores basic auth credentials. Both values are replaced together.
func (c *Client) SetCredentials(username, password string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username, c.password = username, password
	return c
}

// Credentials returns the basic auth credentials.
func (c *Client) Credentials() (username, password string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username, c.password
}

// SetBearerToken stores a bearer token. Basic credentials are kept; the
// token takes precedence while it is set.
func (c *Client) SetBearerToken(token string) *Client {
	c.mu.Lock()
	c.bearer = token
	c.mu.Unlock()
	c.warnIfExpired(token)
	return c
}

// BearerToken returns the bearer token.
func (c *Client) BearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bearer
}

// ClearAuth removes the bearer token and basic credentials.
func (c *Client) ClearAuth() *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearer, c.username, c.password = "", "", ""
	return c
}

// snapshot is the configuration a single dispatch works with.
type snapshot struct {
	baseURL string
	timeout time.Duration
	headers map[string]string
	auth    *httpclient.AuthConfig
}

func (c *Client) snapshot() snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return snapshot{
		baseURL: c.baseURL,
		timeout: c.timeout,
		headers: maps.Clone(c.headers),
		auth:    httpclient.ResolveAuth(c.bearer, c.username, c.password),
	}
}

func (c *Client) warnIfExpired(token string) {
	if token == "" {
		return
	}
	if exp, ok := TokenExpiry(token); ok && exp.Before(time.Now()) {
		c.log.Warn("bearer token is already expired", logger.Fields("expired_at", exp.UTC().Format(time.RFC3339)))
	}
}

// canonicalHeaders copies h with every name in canonical form.
func canonicalHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[http.CanonicalHeaderKey(k)] = v
	}
	return out
}
