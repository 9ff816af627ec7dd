package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/beevik/etree"
	"github.com/postarch/postarch"
)

// Compile-time interface verification.
var _ postarch.Discoverer = (*FeedDiscoverer)(nil)

// FeedDiscoverer enumerates post references from a source's syndication
// feed at {root}/feed. Feeds typically carry only the most recent posts;
// the archive-listing discoverer covers the full history.
type FeedDiscoverer struct {
	client  *http.Client
	limiter postarch.HostLimiter
}

// NewFeedDiscoverer creates a new FeedDiscoverer. If client is nil, a
// client with DefaultFetchTimeout is used. A nil limiter disables rate
// limiting.
func NewFeedDiscoverer(client *http.Client, limiter postarch.HostLimiter) *FeedDiscoverer {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &FeedDiscoverer{client: client, limiter: limiter}
}

// Discover fetches and parses the source's feed. Both RSS 2.0 and Atom
// documents are accepted. References are deduplicated by canonical URL
// in feed order.
func (d *FeedDiscoverer) Discover(ctx context.Context, src postarch.Source) ([]postarch.PostRef, error) {
	feedURL := strings.TrimRight(src.URL, "/") + "/feed"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, postarch.Errorf(postarch.ESOURCE, "invalid feed URL %q: %v", feedURL, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, req.URL.Host); err != nil {
			return nil, err
		}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, postarch.Errorf(postarch.ESOURCE, "feed unreachable for %s: %v", src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, postarch.Errorf(postarch.ESOURCE, "feed returned HTTP %d for %s", resp.StatusCode, feedURL)
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, postarch.Errorf(postarch.ESOURCE, "parsing feed XML for %s: %v", feedURL, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, postarch.Errorf(postarch.ESOURCE, "empty feed for %s", feedURL)
	}

	switch root.Tag {
	case "rss":
		return d.parseRSS(root, src), nil
	case "feed":
		return d.parseAtom(root, src), nil
	default:
		return nil, postarch.Errorf(postarch.ESOURCE, "unrecognized feed root <%s> for %s", root.Tag, feedURL)
	}
}

// parseRSS extracts references from an <rss><channel> document.
func (d *FeedDiscoverer) parseRSS(root *etree.Element, src postarch.Source) []postarch.PostRef {
	channel := root.SelectElement("channel")
	if channel == nil {
		return nil
	}

	var refs []postarch.PostRef
	seen := make(map[string]bool)

	for _, item := range channel.SelectElements("item") {
		link := item.SelectElement("link")
		if link == nil {
			continue
		}
		canonical := CanonicalURL(strings.TrimSpace(link.Text()))
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true

		ref := postarch.PostRef{
			SourceID: src.ID,
			URL:      canonical,
		}
		if pub := item.SelectElement("pubDate"); pub != nil {
			ref.PublishedAt = parseFeedTime(pub.Text())
		}
		refs = append(refs, ref)
	}

	return refs
}

// parseAtom extracts references from a <feed> document.
func (d *FeedDiscoverer) parseAtom(root *etree.Element, src postarch.Source) []postarch.PostRef {
	var refs []postarch.PostRef
	seen := make(map[string]bool)

	for _, entry := range root.SelectElements("entry") {
		var href string
		for _, link := range entry.SelectElements("link") {
			rel := link.SelectAttrValue("rel", "alternate")
			if rel == "alternate" {
				href = link.SelectAttrValue("href", "")
				break
			}
		}
		canonical := CanonicalURL(strings.TrimSpace(href))
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true

		ref := postarch.PostRef{
			SourceID: src.ID,
			URL:      canonical,
		}
		if pub := entry.SelectElement("published"); pub != nil {
			ref.PublishedAt = parseFeedTime(pub.Text())
		} else if upd := entry.SelectElement("updated"); upd != nil {
			ref.PublishedAt = parseFeedTime(upd.Text())
		}
		refs = append(refs, ref)
	}

	return refs
}

// parseFeedTime parses the loose date formats feeds use (RFC1123,
// RFC3339 and friends). Returns nil when the value is unparseable.
func parseFeedTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// CanonicalURL strips the query and fragment from a URL. Post identity
// is the canonical URL, so tracking parameters must not split it.
func CanonicalURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
