// Package readability implements content extraction using the
// go-readability port of Mozilla's Readability heuristic.
package readability

import (
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/postarch/postarch"
)

// Ensure Extractor implements postarch.Extractor at compile time.
var _ postarch.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main post content from HTML.
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

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, postarch.Errorf(postarch.EEXTRACT, "readability failed: %v", err)
	}

	if strings.TrimSpace(article.Content) == "" {
		return nil, postarch.Errorf(postarch.EEXTRACT, "no main content found")
	}

	return &postarch.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
