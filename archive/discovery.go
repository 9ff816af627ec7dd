package archive

import (
	"context"

	"github.com/postarch/postarch"
	"github.com/postarch/postarch/bloom"
)

// Compile-time interface verification.
var _ postarch.Discoverer = (*Discovery)(nil)

// expectedURLs sizes the dedup filter for a large publication history.
const expectedURLs = 100_000

// Discovery composes discovery strategies: the archive listing is the
// primary (it reaches the source's full history), the feed is the
// fallback for sources without a listing. Results from both are merged
// and deduplicated by canonical URL, primary order first.
type Discovery struct {
	Primary  postarch.Discoverer
	Fallback postarch.Discoverer
}

// Discover returns the union of both strategies' references. It fails
// with ESOURCE only when neither strategy can reach the source.
func (d *Discovery) Discover(ctx context.Context, src postarch.Source) ([]postarch.PostRef, error) {
	seen := bloom.NewFilter(expectedURLs, 0.01)
	var refs []postarch.PostRef

	primary, primaryErr := d.Primary.Discover(ctx, src)
	for _, ref := range primary {
		if !seen.Seen(ref.URL) {
			refs = append(refs, ref)
		}
	}

	// The listing found posts; the feed would only re-report the most
	// recent ones.
	if primaryErr == nil && len(refs) > 0 {
		return refs, nil
	}

	if d.Fallback == nil {
		return refs, primaryErr
	}

	fallback, fallbackErr := d.Fallback.Discover(ctx, src)
	for _, ref := range fallback {
		if !seen.Seen(ref.URL) {
			refs = append(refs, ref)
		}
	}

	if len(refs) > 0 {
		return refs, nil
	}
	if primaryErr != nil && fallbackErr != nil {
		return nil, postarch.Errorf(postarch.ESOURCE,
			"source %s unreachable: %s; feed fallback: %s",
			src.URL, postarch.ErrorMessage(primaryErr), postarch.ErrorMessage(fallbackErr))
	}
	return refs, nil
}
