// Package http provides HTTP-based implementations of the post fetcher,
// asset fetcher, and feed discoverer.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/postarch/postarch"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 15 * time.Second

// defaultUserAgent identifies the archiver to remote services.
const defaultUserAgent = "postarch/1.0 (+https://github.com/postarch/postarch)"

// Compile-time interface verification.
var (
	_ postarch.Fetcher      = (*Fetcher)(nil)
	_ postarch.AssetFetcher = (*Fetcher)(nil)
)

// Fetcher retrieves post HTML and binary assets over HTTP. It classifies
// outcomes into transient failures (retryable) and permanent failures.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML document at the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, _, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchAsset downloads a binary asset and reports its content type.
func (f *Fetcher) FetchAsset(ctx context.Context, url string) ([]byte, string, error) {
	return f.get(ctx, url)
}

// Close releases resources. A no-op for the HTTP fetcher.
func (f *Fetcher) Close() error {
	return nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", postarch.Errorf(postarch.EPERMANENT, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		// Timeouts, DNS failures and connection resets are worth
		// retrying; context cancellation is not, but the retry loop
		// checks the context itself.
		return nil, "", postarch.Errorf(postarch.ETRANSIENT, "request failed for %s: %v", url, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, url); err != nil {
		return nil, "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", postarch.Errorf(postarch.ETRANSIENT, "reading body for %s: %v", url, err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// classifyStatus maps an HTTP status code to the fetch error taxonomy.
// 5xx, 408 and 429 are transient; every other non-2xx is permanent.
func classifyStatus(code int, url string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 500, code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return postarch.Errorf(postarch.ETRANSIENT, "HTTP %d for %s", code, url)
	default:
		return postarch.Errorf(postarch.EPERMANENT, "HTTP %d for %s", code, url)
	}
}
