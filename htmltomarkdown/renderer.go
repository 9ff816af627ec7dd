// Package htmltomarkdown renders posts as Markdown documents with YAML
// frontmatter, using html-to-markdown for the body conversion.
package htmltomarkdown

import (
	"context"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/postarch/postarch"
	"github.com/postarch/postarch/render"
	"gopkg.in/yaml.v3"
)

// Compile-time interface verification.
var _ postarch.Renderer = (*Renderer)(nil)

// Renderer renders a post as a Markdown document.
type Renderer struct {
	conv *converter.Converter
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Renderer{conv: conv}
}

// Format returns postarch.FormatMarkdown.
func (r *Renderer) Format() postarch.Format {
	return postarch.FormatMarkdown
}

// Render serializes the post: YAML frontmatter, a top-level heading,
// and the block content converted to Markdown.
func (r *Renderer) Render(_ context.Context, post *postarch.ExtractedPost) ([]byte, error) {
	body, err := r.conv.ConvertString(render.BlocksHTML(post))
	if err != nil {
		return nil, postarch.Errorf(postarch.ERENDER, "converting to markdown: %v", err)
	}

	frontmatter, err := yaml.Marshal(render.NewMeta(post))
	if err != nil {
		return nil, postarch.Errorf(postarch.ERENDER, "marshaling frontmatter: %v", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(frontmatter)
	b.WriteString("---\n\n")
	b.WriteString("# ")
	b.WriteString(post.Title)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")

	return []byte(b.String()), nil
}
