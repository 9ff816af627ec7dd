package postarch

import (
	"strings"
	"time"
)

// PostRef identifies a single post discovered on a source.
// Identity is the canonical URL.
type PostRef struct {
	SourceID    string
	URL         string
	PublishedAt *time.Time
}

// Validate returns an error if the reference contains invalid fields.
func (r PostRef) Validate() error {
	if r.SourceID == "" {
		return Errorf(EINVALID, "post reference source ID required")
	}
	if r.URL == "" {
		return Errorf(EINVALID, "post reference URL required")
	}
	return nil
}

// RawPost holds the fetched HTML of a post before extraction.
// It only lives for the fetch-to-extract handoff.
type RawPost struct {
	Ref       PostRef
	HTML      string
	FetchedAt time.Time
}

// BlockKind discriminates the content block variants.
type BlockKind string

// Content block variants. The sequence of blocks is the document's
// reading order and is preserved through every pipeline stage.
const (
	BlockParagraph BlockKind = "paragraph"
	BlockHeading   BlockKind = "heading"
	BlockImage     BlockKind = "image"
	BlockOther     BlockKind = "other"
)

// Block is one unit of post content.
type Block struct {
	Kind BlockKind

	// Text is the plain text of a paragraph or heading.
	Text string

	// HTML is the block's inner markup for paragraphs and headings
	// (inline emphasis preserved) and the full outer markup for
	// BlockOther.
	HTML string

	// Level is the heading level (1-6) for BlockHeading.
	Level int

	// ImageURL is the original remote address for BlockImage.
	ImageURL string

	// LocalPath is the image's path relative to the post file once the
	// asset has been localized. Empty when localization was skipped or
	// failed; renderers then fall back to ImageURL.
	LocalPath string

	// Alt is the image's alternative text.
	Alt string
}

// PostMeta holds metadata scavenged from a post's raw HTML
// (JSON-LD or meta tags).
type PostMeta struct {
	Title       string
	Author      string
	PublishedAt *time.Time
	Tags        []string
}

// ExtractedPost is the canonical intermediate representation of a post.
// It is immutable once produced by the extraction stage; only the asset
// localizer replaces it (with a copy that has image paths filled in)
// before rendering begins.
type ExtractedPost struct {
	Ref         PostRef
	Title       string
	Slug        string
	Author      string
	Tags        []string
	PublishedAt *time.Time
	FetchedAt   time.Time
	Blocks      []Block
}

// Validate returns an error if the post contains invalid fields.
func (p *ExtractedPost) Validate() error {
	if err := p.Ref.Validate(); err != nil {
		return err
	}
	if p.Slug == "" {
		return Errorf(EINVALID, "post slug required")
	}
	if len(p.Blocks) == 0 {
		return Errorf(EINVALID, "post content blocks required")
	}
	return nil
}

// Clone returns a deep copy of the post. The localizer mutates the copy,
// never the original.
func (p *ExtractedPost) Clone() *ExtractedPost {
	out := *p
	out.Blocks = make([]Block, len(p.Blocks))
	copy(out.Blocks, p.Blocks)
	out.Tags = make([]string, len(p.Tags))
	copy(out.Tags, p.Tags)
	return &out
}

// FileDate returns the date used for the output filename prefix:
// the publish date when known, otherwise the fetch time.
func (p *ExtractedPost) FileDate() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.FetchedAt
}

// Filename returns the output filename for the post in the given format,
// e.g. "20230101_my-post.md".
func (p *ExtractedPost) Filename(format Format) string {
	return p.FileDate().Format("20060102") + "_" + p.Slug + format.Ext()
}

// Asset represents one localized binary referenced by post content.
// Identity is the original URL: the same image referenced by multiple
// posts is downloaded once per run and reused.
type Asset struct {
	OriginalURL string

	// Name is the stable derived filename (URL hash plus extension).
	Name string

	// LocalPath is the path relative to the source directory,
	// e.g. "assets/8f3c2a1b9d4e5f60.jpg".
	LocalPath string
}

// URLTail returns the last path segment of a URL, used as a slug
// fallback when a post has no usable title.
func URLTail(rawURL string) string {
	s := strings.TrimRight(rawURL, "/")
	if i := strings.LastIndex(s, "/"); i != -1 {
		s = s[i+1:]
	}
	if i := strings.IndexAny(s, "?#"); i != -1 {
		s = s[:i]
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
