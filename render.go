package postarch

import (
	"context"
	"strings"
)

// Format identifies an output document format.
type Format string

// Supported output formats. The string value doubles as the file
// extension (without the dot).
const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
	FormatEPUB     Format = "epub"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatHTML, FormatJSON, FormatPDF, FormatEPUB}
}

// Ext returns the format's file extension, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case FormatMarkdown, FormatHTML, FormatJSON, FormatPDF, FormatEPUB:
		return true
	}
	return false
}

// ParseFormats parses a comma-separated format list (e.g. "md,json").
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		f := Format(part)
		if !f.Valid() {
			return nil, Errorf(EINVALID, "unknown format %q", part)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, Errorf(EINVALID, "no output formats specified")
	}
	return out, nil
}

// Renderer converts a localized post into one output format.
// Renderers for different formats are independent: one failing must not
// prevent the others from being attempted for the same post.
type Renderer interface {
	// Format returns the format this renderer produces.
	Format() Format

	// Render serializes the post. Failures carry the ERENDER code.
	// The context bounds external converter invocations.
	Render(ctx context.Context, post *ExtractedPost) ([]byte, error)
}
