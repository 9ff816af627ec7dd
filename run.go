package postarch

import "context"

// Failure describes one failed or degraded unit of work in a run.
type Failure struct {
	Ref     PostRef
	Format  Format // set for format-scoped failures, empty otherwise
	Code    string
	Message string
}

// RunSummary is the externally visible result of a run. Aggregation is
// commutative: parallel completion order does not affect the counts or
// the set of failures, only their ordering in the slices.
type RunSummary struct {
	Succeeded int
	Skipped   int
	Failed    int

	// Failures are post- or format-level errors.
	Failures []Failure

	// Warnings are degradations that did not fail the post
	// (e.g. an image that kept its remote URL).
	Warnings []Failure
}

// Merge folds another summary into s.
func (s *RunSummary) Merge(other RunSummary) {
	s.Succeeded += other.Succeeded
	s.Skipped += other.Skipped
	s.Failed += other.Failed
	s.Failures = append(s.Failures, other.Failures...)
	s.Warnings = append(s.Warnings, other.Warnings...)
}

// AssetLocalizer rewrites a post's image references to locally cached
// copies. A failed download degrades to the original remote URL and a
// warning; it never fails the post.
type AssetLocalizer interface {
	Localize(ctx context.Context, post *ExtractedPost) (*ExtractedPost, []Failure)
}
