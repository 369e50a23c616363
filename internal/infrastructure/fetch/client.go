// Package fetch provides a bounded HTTP client for downloading remote blobs
// such as product images referenced from import files.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrTooLarge is returned when the response body exceeds the configured limit
var ErrTooLarge = errors.New("response body too large")

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxBodySize = 20 << 20 // 20 MiB
)

// Client downloads remote resources with a per-request timeout and a hard
// cap on body size.
type Client struct {
	httpClient  *http.Client
	timeout     time.Duration
	maxBodySize int64
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMaxBodySize caps the accepted response body size in bytes
func WithMaxBodySize(n int64) Option {
	return func(c *Client) { c.maxBodySize = n }
}

// WithHTTPClient replaces the underlying transport
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a fetch client
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{},
		timeout:     defaultTimeout,
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads the resource at url. Non-2xx responses, timeouts and
// oversized bodies all return an error.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %q: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %q: read body: %w", url, err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("fetch %q: %w", url, ErrTooLarge)
	}
	return body, nil
}
