package archive

import (
	"context"
	"time"

	"github.com/postarch/postarch"
)

// DefaultRetryDelays is the backoff schedule for transient fetch
// failures: one initial attempt plus one retry per delay.
var DefaultRetryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// fetchWithRetry fetches the URL, retrying only failures carrying the
// ETRANSIENT code. Permanent failures (404-class, malformed URLs) return
// immediately.
func fetchWithRetry(ctx context.Context, fetcher postarch.Fetcher, url string, delays []time.Duration) (string, error) {
	html, err := fetcher.Fetch(ctx, url)
	if err == nil || postarch.ErrorCode(err) != postarch.ETRANSIENT {
		return html, err
	}

	for _, delay := range delays {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}

		html, err = fetcher.Fetch(ctx, url)
		if err == nil || postarch.ErrorCode(err) != postarch.ETRANSIENT {
			return html, err
		}
	}
	return "", err
}
