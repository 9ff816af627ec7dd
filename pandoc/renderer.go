// Package pandoc renders posts into typeset formats (PDF, EPUB) by
// invoking the external pandoc binary. The converter is treated as an
// opaque capability: a standalone HTML file goes in, document bytes come
// out, and any failure is scoped to the one format being rendered.
package pandoc

import (
	"context"
	"fmt"
	"html"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/postarch/postarch"
	"github.com/postarch/postarch/render"
)

// DefaultBinary is the converter executable looked up on PATH.
const DefaultBinary = "pandoc"

// Compile-time interface verification.
var _ postarch.Renderer = (*Renderer)(nil)

// Renderer renders one typeset format via pandoc.
//
// The intermediate HTML file is written inside the post's source
// directory so the localized asset paths (relative to that directory)
// resolve when pandoc embeds resources.
type Renderer struct {
	format postarch.Format
	store  postarch.Store
	binary string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBinary overrides the pandoc executable path.
func WithBinary(path string) Option {
	return func(r *Renderer) {
		r.binary = path
	}
}

// NewRenderer creates a Renderer for the given typeset format
// (postarch.FormatPDF or postarch.FormatEPUB).
func NewRenderer(format postarch.Format, store postarch.Store, opts ...Option) *Renderer {
	r := &Renderer{
		format: format,
		store:  store,
		binary: DefaultBinary,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Format returns the typeset format this renderer produces.
func (r *Renderer) Format() postarch.Format {
	return r.format
}

// Render converts the post. Returns ERENDER if the converter is not
// installed or the conversion fails; other formats for the same post are
// unaffected.
func (r *Renderer) Render(ctx context.Context, post *postarch.ExtractedPost) ([]byte, error) {
	if _, err := exec.LookPath(r.binary); err != nil {
		return nil, postarch.Errorf(postarch.ERENDER, "converter %q not installed", r.binary)
	}

	dir := r.store.SourceDir(post.Ref.SourceID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, postarch.Errorf(postarch.ERENDER, "preparing converter workspace: %v", err)
	}

	// Unique temp names keep concurrent posts from clobbering each other.
	stem := post.Slug + ".conv-" + uuid.NewString()[:8]
	inPath := filepath.Join(dir, stem+".html")
	outPath := filepath.Join(dir, stem+string(r.format.Ext()))

	if err := os.WriteFile(inPath, []byte(standaloneHTML(post)), 0644); err != nil {
		return nil, postarch.Errorf(postarch.ERENDER, "writing converter input: %v", err)
	}
	defer os.Remove(inPath)
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, r.binary, inPath,
		"-o", outPath,
		"--embed-resources",
		"--standalone",
	)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, postarch.Errorf(postarch.ERENDER, "%s conversion failed: %v: %s",
			r.format, err, strings.TrimSpace(string(out)))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, postarch.Errorf(postarch.ERENDER, "reading converter output: %v", err)
	}
	return data, nil
}

// standaloneHTML builds the full HTML document handed to pandoc, with
// title/author/date metadata in the head.
func standaloneHTML(post *postarch.ExtractedPost) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(post.Title))
	if post.Author != "" {
		fmt.Fprintf(&b, "<meta name=\"author\" content=%q>\n", html.EscapeString(post.Author))
	}
	if post.PublishedAt != nil {
		fmt.Fprintf(&b, "<meta name=\"date\" content=%q>\n", post.PublishedAt.Format("2006-01-02"))
	}
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(post.Title))
	b.WriteString(render.BlocksHTML(post))
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
