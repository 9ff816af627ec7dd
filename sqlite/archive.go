package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/postarch/postarch"
)

// Compile-time interface verification.
var _ postarch.ArchiveService = (*ArchiveService)(nil)

// ArchiveService implements postarch.ArchiveService using SQLite.
type ArchiveService struct {
	db *DB
}

// NewArchiveService creates a new ArchiveService.
func NewArchiveService(db *DB) *ArchiveService {
	return &ArchiveService{db: db}
}

// Archived reports whether the post is already archived in every one of
// the given formats. Keyed by canonical URL so the check runs before the
// post is fetched.
func (s *ArchiveService) Archived(ctx context.Context, ref postarch.PostRef, formats []postarch.Format) (bool, error) {
	if len(formats) == 0 {
		return false, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT format FROM archive_records
		WHERE source_id = ? AND url = ?
	`, ref.SourceID, ref.URL)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	present := make(map[postarch.Format]bool)
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return false, err
		}
		present[postarch.Format(f)] = true
	}
	if err := rows.Err(); err != nil {
		return false, err
	}

	for _, f := range formats {
		if !present[f] {
			return false, nil
		}
	}
	return true, nil
}

// Record upserts the archive record for (source, URL, format).
// Records are never mutated in place beyond this upsert: a re-run either
// skipped the post or rewrote the output and replaces the marker.
func (s *ArchiveService) Record(ctx context.Context, rec *postarch.ArchiveRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.ArchivedAt.IsZero() {
		rec.ArchivedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO archive_records (id, source_id, url, slug, title, format, path, content_hash, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id, url, format) DO UPDATE SET
			slug = excluded.slug,
			title = excluded.title,
			path = excluded.path,
			content_hash = excluded.content_hash,
			archived_at = excluded.archived_at
	`, rec.ID, rec.SourceID, rec.URL, rec.Slug, rec.Title, string(rec.Format),
		rec.Path, rec.ContentHash, rec.ArchivedAt.Format(time.RFC3339))

	return err
}

// FindRecords retrieves records matching the filter, newest first.
func (s *ArchiveService) FindRecords(ctx context.Context, filter postarch.RecordFilter) ([]*postarch.ArchiveRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_id, url, slug, title, format, path, content_hash, archived_at FROM archive_records WHERE 1=1")

	if filter.SourceID != nil {
		query.WriteString(" AND source_id = ?")
		args = append(args, *filter.SourceID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Format != nil {
		query.WriteString(" AND format = ?")
		args = append(args, string(*filter.Format))
	}

	query.WriteString(" ORDER BY archived_at DESC, url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*postarch.ArchiveRecord
	for rows.Next() {
		var rec postarch.ArchiveRecord
		var format, archivedAt string

		if err := rows.Scan(&rec.ID, &rec.SourceID, &rec.URL, &rec.Slug, &rec.Title,
			&format, &rec.Path, &rec.ContentHash, &archivedAt); err != nil {
			return nil, err
		}

		rec.Format = postarch.Format(format)
		rec.ArchivedAt, err = parseRFC3339(archivedAt, "archived_at")
		if err != nil {
			return nil, err
		}

		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}
