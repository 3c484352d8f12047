// Package api is a typed client for the Lost & Found REST API.
//
// Every endpoint except Register and Login requires a bearer token. The token
// is read from the configured TokenSource before each call, so a logout is
// seen by the very next request.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "http://webprog2.f-host.site/"
	// DefaultTimeout is applied uniformly to every call.
	DefaultTimeout = 30 * time.Second
)

// TokenSource supplies the bearer token for authenticated calls.
// An empty token means no session; the Authorization header is then omitted.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to a TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

// Token implements TokenSource.
func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticToken is a fixed token, mostly useful in tests.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// Client is the Lost & Found API client.
//
//	client := api.NewClient(
//	    api.WithBaseURL("http://localhost:8080"),
//	    api.WithTokenSource(session.Tokens(store)),
//	)
//	reports, err := client.ListReports(ctx)
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	userAgent  string
	logger     *slog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for per-request debug logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new API client. Without WithTokenSource every call is
// sent unauthenticated.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		tokens:    StaticToken(""),
		userAgent: defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.baseURL = strings.TrimSuffix(c.baseURL, "/")
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tokens == nil {
		c.tokens = StaticToken("")
	}

	return c
}

// BaseURL returns the current base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}
