package postarch

// ExtractResult holds the extracted main content of a post.
type ExtractResult struct {
	// Title is the post title as seen by the extraction heuristic.
	Title string

	// ContentHTML is the main article content as clean HTML.
	// Boilerplate (nav, footer, subscription widgets) has been removed.
	ContentHTML string
}

// Extractor extracts main content from raw HTML, removing boilerplate.
// The heuristic itself is a swappable capability; the pipeline depends
// only on this contract.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// Returns EEXTRACT when no plausible main content is found.
	Extract(rawHTML string) (*ExtractResult, error)
}

// BlockParser turns extracted content HTML into the ordered block
// sequence of the intermediate representation.
type BlockParser interface {
	// Parse preserves reading order: block i appeared before block i+1
	// in the source document.
	Parse(contentHTML string) ([]Block, error)
}

// MetaScanner scavenges post metadata from raw HTML.
type MetaScanner interface {
	// Scan is best effort: missing fields stay zero, only malformed
	// input is an error.
	Scan(rawHTML string) (*PostMeta, error)
}
