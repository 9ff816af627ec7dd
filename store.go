package postarch

import (
	"context"
	"time"
)

// ArchiveRecord marks one (post, format) pair as archived.
// Records are created after a successful render and write; a re-run
// either skips the post (incremental mode) or overwrites the output and
// upserts the record.
type ArchiveRecord struct {
	ID          string
	SourceID    string
	URL         string
	Slug        string
	Title       string
	Format      Format
	Path        string
	ContentHash string
	ArchivedAt  time.Time
}

// Validate returns an error if the record contains invalid fields.
func (r *ArchiveRecord) Validate() error {
	if r.SourceID == "" {
		return Errorf(EINVALID, "archive record source ID required")
	}
	if r.URL == "" {
		return Errorf(EINVALID, "archive record URL required")
	}
	if !r.Format.Valid() {
		return Errorf(EINVALID, "archive record format invalid")
	}
	return nil
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	SourceID *string
	URL      *string
	Format   *Format

	Offset int
	Limit  int
}

// ArchiveService persists archive records and answers the incremental
// skip question. The skip check is keyed by canonical URL so it can run
// before the post is ever fetched.
type ArchiveService interface {
	// Archived reports whether the post is already archived in every
	// one of the given formats.
	Archived(ctx context.Context, ref PostRef, formats []Format) (bool, error)

	// Record upserts the record for the record's (source, URL, format).
	Record(ctx context.Context, rec *ArchiveRecord) error

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*ArchiveRecord, error)
}

// Store owns the on-disk output layout and is the sole writer of
// rendered documents and localized assets. All writes are atomic:
// a reader never observes a partially written file.
type Store interface {
	// WritePost writes a rendered document under the source directory
	// and returns the path written. Failures carry the ESTORE code.
	WritePost(ctx context.Context, sourceID, filename string, data []byte) (path string, err error)

	// WriteAsset writes a localized asset and returns its path relative
	// to the source directory (the form post content links it by).
	WriteAsset(ctx context.Context, sourceID, name string, data []byte) (relPath string, err error)

	// AssetPath reports whether the asset already exists on disk and,
	// if so, its path relative to the source directory.
	AssetPath(sourceID, name string) (relPath string, ok bool)

	// SourceDir returns the absolute directory posts for the source are
	// written to. External converters resolve relative asset paths
	// against it.
	SourceDir(sourceID string) string
}
