package goquery

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/postarch/postarch"
)

// Compile-time interface verification.
var _ postarch.MetaScanner = (*MetaScanner)(nil)

// MetaScanner scavenges post metadata from raw HTML. It prefers JSON-LD
// (NewsArticle/Article) and falls back to the meta tags newsletter
// platforms commonly emit.
type MetaScanner struct{}

// NewMetaScanner creates a new MetaScanner.
func NewMetaScanner() *MetaScanner {
	return &MetaScanner{}
}

// Scan is best effort: fields that cannot be found stay zero.
func (s *MetaScanner) Scan(rawHTML string) (*postarch.PostMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, postarch.Errorf(postarch.EINVALID, "failed to parse HTML: %v", err)
	}

	meta := &postarch.PostMeta{}

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if applyJSONLD(sel.Text(), meta) {
			return false
		}
		return true
	})

	if meta.Author == "" {
		meta.Author = firstMetaContent(doc,
			`meta[property="article:author_name"]`,
			`meta[name="author"]`,
		)
	}

	if meta.PublishedAt == nil {
		raw := firstMetaContent(doc,
			`meta[property="article:published_time"]`,
			`meta[property="og:published_time"]`,
		)
		meta.PublishedAt = parseLooseTime(raw)
	}

	if len(meta.Tags) == 0 {
		doc.Find(`meta[property="article:tag"]`).Each(func(_ int, sel *goquery.Selection) {
			if tag := strings.TrimSpace(sel.AttrOr("content", "")); tag != "" {
				meta.Tags = append(meta.Tags, tag)
			}
		})
	}

	if meta.Title == "" {
		meta.Title = firstMetaContent(doc, `meta[property="og:title"]`)
	}

	return meta, nil
}

// jsonLD mirrors the subset of schema.org Article we care about.
// Author and keywords take several shapes in the wild, so they are
// decoded loosely.
type jsonLD struct {
	Type          string          `json:"@type"`
	Headline      string          `json:"headline"`
	DatePublished string          `json:"datePublished"`
	Author        json.RawMessage `json:"author"`
	Keywords      json.RawMessage `json:"keywords"`
}

// applyJSONLD fills meta from one ld+json script body. Returns true if
// an Article-typed object was found (scanning can stop).
func applyJSONLD(body string, meta *postarch.PostMeta) bool {
	var candidates []jsonLD

	var one jsonLD
	if err := json.Unmarshal([]byte(body), &one); err == nil {
		candidates = append(candidates, one)
	} else {
		var many []jsonLD
		if err := json.Unmarshal([]byte(body), &many); err != nil {
			return false
		}
		candidates = many
	}

	for _, c := range candidates {
		if c.Type != "NewsArticle" && c.Type != "Article" {
			continue
		}
		meta.Title = strings.TrimSpace(c.Headline)
		meta.Author = jsonLDAuthor(c.Author)
		meta.PublishedAt = parseLooseTime(c.DatePublished)
		meta.Tags = jsonLDKeywords(c.Keywords)
		return true
	}
	return false
}

func jsonLDAuthor(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var person struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &person); err == nil && person.Name != "" {
		return person.Name
	}
	var people []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &people); err == nil && len(people) > 0 {
		return people[0].Name
	}
	return ""
}

func jsonLDKeywords(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, t := range list {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	}
	var csv string
	if err := json.Unmarshal(raw, &csv); err == nil {
		for _, t := range strings.Split(csv, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

func firstMetaContent(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if content := strings.TrimSpace(doc.Find(selector).First().AttrOr("content", "")); content != "" {
			return content
		}
	}
	return ""
}

func parseLooseTime(s string) *time.Time {
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
