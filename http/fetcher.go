// Package http fetches documentation pages and sitemaps over plain HTTP.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/cdpchat"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 15 * time.Second

// DefaultMaxBodyBytes is the largest page Fetch accepts; bigger pages are EINVALID.
const DefaultMaxBodyBytes = 10 << 20

// UserAgent is sent with every request.
const UserAgent = "cdpchat/1.0 (+https://github.com/fwojciec/cdpchat)"

// Ensure Fetcher implements cdpchat.Fetcher at compile time.
var _ cdpchat.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages without executing JavaScript.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	maxBody int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodyBytes sets the largest body Fetch accepts.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBody = n
	}
}

// WithClient replaces the underlying HTTP client. The client's own timeout
// is overridden by WithTimeout.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{},
		timeout: DefaultFetchTimeout,
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	client := *f.client
	client.Timeout = f.timeout
	f.client = &client
	return f
}

// Fetch returns the body served at url. A 404 or 410 is ENOTFOUND; other
// failures are EUNAVAILABLE so callers may retry them.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := get(ctx, f.client, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, f.maxBody+1))
	if err != nil {
		return "", cdpchat.Errorf(cdpchat.EUNAVAILABLE, "reading %s: %v", url, err)
	}
	if int64(len(data)) > f.maxBody {
		return "", cdpchat.Errorf(cdpchat.EINVALID, "page %s is larger than %d bytes", url, f.maxBody)
	}
	return string(data), nil
}

// Close is a no-op; http.Client holds nothing that needs releasing.
func (f *Fetcher) Close() error {
	return nil
}

func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, cdpchat.Errorf(cdpchat.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, cdpchat.Errorf(cdpchat.EUNAVAILABLE, "fetching %s: %v", url, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		resp.Body.Close()
		return nil, cdpchat.Errorf(cdpchat.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	default:
		resp.Body.Close()
		return nil, cdpchat.Errorf(cdpchat.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}
}
