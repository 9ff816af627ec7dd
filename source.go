package postarch

import (
	"context"
	"net/url"
)

// Source represents one publication being archived.
type Source struct {
	// ID identifies the source on disk and in the archive log.
	// Derived from the host of the root URL.
	ID string

	// URL is the publication's root address.
	URL string
}

// NewSource builds a Source from a root URL. The source ID is the
// slugified host, which doubles as the per-source output directory name.
func NewSource(rawURL string) (Source, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Source{}, Errorf(EINVALID, "invalid source URL %q", rawURL)
	}
	return Source{
		ID:  Slugify(u.Host),
		URL: rawURL,
	}, nil
}

// Discoverer enumerates the post URLs a source contains.
type Discoverer interface {
	// Discover returns candidate post references for the source,
	// deduplicated by canonical URL and in a deterministic order for a
	// given source state. Returns ESOURCE if the source cannot be
	// reached or parsed at all.
	Discover(ctx context.Context, src Source) ([]PostRef, error)
}

// HostLimiter provides per-host rate limiting for outbound requests.
type HostLimiter interface {
	// Wait blocks until the rate limit allows a request to the host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
