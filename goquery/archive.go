// Package goquery provides CSS-selector based HTML processing: archive
// listing discovery, content block parsing, and metadata scanning.
package goquery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/postarch/postarch"
)

// archiveSelectors are tried in order against an archive listing page.
// The first selector that yields links wins; the bare fallback catches
// layouts the semantic selectors don't know about.
var archiveSelectors = []string{
	`.portable-archive-post a[href*="/p/"], .post-preview a[href*="/p/"], a.pencraft[href*="/p/"]`,
	`a[href*="/p/"]`,
}

// DefaultMaxArchivePages bounds pagination so a misbehaving source
// cannot produce an endless crawl.
const DefaultMaxArchivePages = 500

// Compile-time interface verification.
var _ postarch.Discoverer = (*ArchiveDiscoverer)(nil)

// ArchiveDiscoverer enumerates post references by walking a source's
// paginated archive listing ({root}/archive?page=N). Unlike the feed it
// reaches the source's full history.
type ArchiveDiscoverer struct {
	Fetcher  postarch.Fetcher
	Limiter  postarch.HostLimiter
	MaxPages int
}

// Discover walks archive pages until one returns a permanent fetch
// error, yields no post links, or yields no links it hasn't seen.
// References are deduplicated by canonical URL, newest first as the
// archive lists them.
func (d *ArchiveDiscoverer) Discover(ctx context.Context, src postarch.Source) ([]postarch.PostRef, error) {
	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, postarch.Errorf(postarch.ESOURCE, "invalid source URL %q: %v", src.URL, err)
	}

	maxPages := d.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxArchivePages
	}

	var refs []postarch.PostRef
	seen := make(map[string]bool)

	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL := fmt.Sprintf("%s/archive?page=%d", strings.TrimRight(src.URL, "/"), page)

		if d.Limiter != nil {
			if err := d.Limiter.Wait(ctx, base.Host); err != nil {
				return nil, err
			}
		}

		html, err := d.Fetcher.Fetch(ctx, pageURL)
		if err != nil {
			// A 404 past the last page is the normal end of the
			// archive. On the first page nothing was reachable at all.
			if page > 1 {
				break
			}
			return nil, postarch.Errorf(postarch.ESOURCE, "archive listing unreachable for %s: %s", src.URL, postarch.ErrorMessage(err))
		}

		links, err := postLinks(html, base)
		if err != nil {
			return nil, postarch.Errorf(postarch.ESOURCE, "parsing archive page %s: %s", pageURL, postarch.ErrorMessage(err))
		}
		if len(links) == 0 {
			break
		}

		found := false
		for _, link := range links {
			if seen[link] {
				continue
			}
			seen[link] = true
			found = true
			refs = append(refs, postarch.PostRef{SourceID: src.ID, URL: link})
		}
		// A page of already-seen links means pagination wrapped around.
		if !found {
			break
		}
	}

	return refs, nil
}

// postLinks extracts canonical post URLs from one archive page,
// preserving document order.
func postLinks(html string, base *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, postarch.Errorf(postarch.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, selector := range archiveSelectors {
		var links []string
		pageSeen := make(map[string]bool)

		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			href, exists := sel.Attr("href")
			if !exists || href == "" {
				return
			}
			resolved := resolvePostURL(base, href)
			if resolved == "" || pageSeen[resolved] {
				return
			}
			pageSeen[resolved] = true
			links = append(links, resolved)
		})

		if len(links) > 0 {
			return links, nil
		}
	}

	return nil, nil
}

// resolvePostURL resolves href against the source root and returns the
// canonical URL, or "" when the link is not a same-host post link.
func resolvePostURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Host != base.Host {
		return ""
	}
	if !strings.Contains(resolved.Path, "/p/") {
		return ""
	}
	resolved.RawQuery = ""
	resolved.Fragment = ""
	return resolved.String()
}
