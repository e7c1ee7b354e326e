// Package fetch queries a suggestion endpoint over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"autocomplete/internal/domain"
	"autocomplete/internal/suggest"
)

// QueryParam is the parameter carrying the query text
const QueryParam = "q"

// maxBody caps the response size read from an endpoint
const maxBody = 4 << 20

// ErrInvalidBody is returned when the endpoint answers with something that is not JSON
var ErrInvalidBody = errors.New("invalid JSON response")

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// Fetcher retrieves the raw candidates for a query
type Fetcher interface {
	Fetch(ctx context.Context, endpoint, query string) ([]domain.Item, error)
}

// Client is the HTTP Fetcher
type Client struct {
	http    *http.Client
	base    *url.URL
	headers http.Header
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default cleanhttp client
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithBaseURL sets the origin relative endpoints are resolved against
func WithBaseURL(base *url.URL) Option {
	return func(cl *Client) { cl.base = base }
}

// WithHeader adds a header sent with every request
func WithHeader(key, value string) Option {
	return func(cl *Client) { cl.headers.Add(key, value) }
}

// WithLogger sets the client logger
func WithLogger(logger *zap.Logger) Option {
	return func(cl *Client) { cl.logger = logger }
}

// New creates a client. No timeout is imposed beyond the transport defaults.
func New(opts ...Option) *Client {
	c := &Client{
		http:    cleanhttp.DefaultClient(),
		headers: http.Header{"Accept": []string{"application/json"}},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildURL attaches query as the q parameter of endpoint, keeping existing parameters.
// A relative endpoint is resolved against base when base is set.
func BuildURL(base *url.URL, endpoint, query string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	params := u.Query()
	params.Add(QueryParam, query)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// Fetch performs GET endpoint?q=query and returns the parsed candidates.
// A body without a results array is zero results, not an error.
func (c *Client) Fetch(ctx context.Context, endpoint, query string) ([]domain.Item, error) {
	target, err := BuildURL(c.base, endpoint, query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &StatusError{Code: resp.StatusCode, URL: target}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidBody
	}

	items := suggest.ParseResults(body)
	c.logger.Debug("fetched suggestions",
		zap.String("url", target),
		zap.Int("count", len(items)))
	return items, nil
}
