package postarch

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the HTML document at the URL. Failures carry a
	// code: ETRANSIENT for timeouts, connection resets and 5xx class
	// responses (eligible for retry), EPERMANENT for 404/410-style
	// responses and malformed URLs (never retried).
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// AssetFetcher retrieves binary assets (images) referenced by posts.
type AssetFetcher interface {
	// FetchAsset downloads the asset and reports the response
	// content type, which may be needed to derive a file extension.
	FetchAsset(ctx context.Context, url string) (data []byte, contentType string, err error)
}
