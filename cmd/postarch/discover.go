package main

import (
	"fmt"

	"github.com/postarch/postarch"
	"github.com/postarch/postarch/archive"
	"github.com/postarch/postarch/goquery"
	posthttp "github.com/postarch/postarch/http"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	src, err := postarch.NewSource(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postarch.ErrorMessage(err))
		return err
	}

	fetcher := posthttp.NewFetcher()
	defer fetcher.Close()

	limiter := archive.NewHostLimiter(requestsPerSecond(c.Delay))
	discovery := &archive.Discovery{
		Primary: &goquery.ArchiveDiscoverer{
			Fetcher: fetcher,
			Limiter: limiter,
		},
		Fallback: posthttp.NewFeedDiscoverer(nil, limiter),
	}

	refs, err := discovery.Discover(deps.Ctx, src)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postarch.ErrorMessage(err))
		return err
	}

	for _, ref := range refs {
		fmt.Fprintln(deps.Stdout, ref.URL)
	}
	fmt.Fprintf(deps.Stderr, "%d posts\n", len(refs))

	return nil
}
