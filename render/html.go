// Package render provides the self-contained format renderers (plain
// HTML and JSON) plus the shared block serialization the markdown and
// typeset renderers build on.
package render

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/postarch/postarch"
	"gopkg.in/yaml.v3"
)

// Meta is the metadata header carried by every rendered format.
// Field order is the serialization order.
type Meta struct {
	Title         string   `yaml:"title" json:"title"`
	Author        string   `yaml:"author,omitempty" json:"author,omitempty"`
	PublishedDate string   `yaml:"published_date,omitempty" json:"published_date,omitempty"`
	Tags          []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	URL           string   `yaml:"url" json:"url"`
	ArchivedAt    string   `yaml:"archived_at" json:"archived_at"`
}

// NewMeta builds the metadata header for a post.
func NewMeta(post *postarch.ExtractedPost) Meta {
	m := Meta{
		Title:      post.Title,
		Author:     post.Author,
		Tags:       post.Tags,
		URL:        post.Ref.URL,
		ArchivedAt: post.FetchedAt.UTC().Format(time.RFC3339),
	}
	if post.PublishedAt != nil {
		m.PublishedDate = post.PublishedAt.Format("2006-01-02")
	}
	return m
}

// BlocksHTML serializes the post's blocks back to HTML, with image
// sources pointing at localized copies where available.
func BlocksHTML(post *postarch.ExtractedPost) string {
	var b strings.Builder
	for _, block := range post.Blocks {
		switch block.Kind {
		case postarch.BlockHeading:
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", block.Level, block.HTML, block.Level)
		case postarch.BlockParagraph:
			fmt.Fprintf(&b, "<p>%s</p>\n", block.HTML)
		case postarch.BlockImage:
			fmt.Fprintf(&b, "<img src=%q alt=%q />\n",
				html.EscapeString(ImageSrc(block)), html.EscapeString(block.Alt))
		case postarch.BlockOther:
			b.WriteString(block.HTML)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ImageSrc returns the reference a rendered document should use for an
// image block: the localized path when set, otherwise the original
// remote URL (the degraded fallback).
func ImageSrc(block postarch.Block) string {
	if block.LocalPath != "" {
		return block.LocalPath
	}
	return block.ImageURL
}

// Compile-time interface verification.
var _ postarch.Renderer = (*HTMLRenderer)(nil)

// HTMLRenderer renders a post as a plain HTML fragment with the
// metadata in a leading comment.
type HTMLRenderer struct{}

// NewHTMLRenderer creates a new HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Format returns postarch.FormatHTML.
func (r *HTMLRenderer) Format() postarch.Format {
	return postarch.FormatHTML
}

// Render serializes the post.
func (r *HTMLRenderer) Render(_ context.Context, post *postarch.ExtractedPost) ([]byte, error) {
	metaYAML, err := yaml.Marshal(NewMeta(post))
	if err != nil {
		return nil, postarch.Errorf(postarch.ERENDER, "marshaling metadata: %v", err)
	}

	var b strings.Builder
	b.WriteString("<!--\n")
	b.Write(metaYAML)
	b.WriteString("-->\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(post.Title))
	b.WriteString(BlocksHTML(post))

	return []byte(b.String()), nil
}
