// Package trafilatura implements content extraction using
// go-trafilatura, an alternative to the readability heuristic.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/postarch/postarch"
	"golang.org/x/net/html"
)

// Ensure Extractor implements postarch.Extractor at compile time.
var _ postarch.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main post content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*postarch.ExtractResult, error) {
	if rawHTML == "" {
		return nil, postarch.Errorf(postarch.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, postarch.Errorf(postarch.EEXTRACT, "trafilatura failed: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(contentHTML) == "" {
		return nil, postarch.Errorf(postarch.EEXTRACT, "no main content found")
	}

	return &postarch.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
