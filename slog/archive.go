package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/postarch/postarch"
)

// Ensure LoggingArchiveService implements postarch.ArchiveService.
var _ postarch.ArchiveService = (*LoggingArchiveService)(nil)

// LoggingArchiveService wraps an ArchiveService with logging.
type LoggingArchiveService struct {
	next   postarch.ArchiveService
	logger *slog.Logger
}

// NewLoggingArchiveService creates a new LoggingArchiveService.
func NewLoggingArchiveService(next postarch.ArchiveService, logger *slog.Logger) *LoggingArchiveService {
	return &LoggingArchiveService{next: next, logger: logger}
}

// Archived logs the skip check result and delegates.
func (s *LoggingArchiveService) Archived(ctx context.Context, ref postarch.PostRef, formats []postarch.Format) (archived bool, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("archived check",
			"url", ref.URL,
			"archived", archived,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Archived(ctx, ref, formats)
}

// Record logs the record being persisted and delegates.
func (s *LoggingArchiveService) Record(ctx context.Context, rec *postarch.ArchiveRecord) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("record",
			"url", rec.URL,
			"format", rec.Format,
			"path", rec.Path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Record(ctx, rec)
}

// FindRecords delegates to the wrapped service.
func (s *LoggingArchiveService) FindRecords(ctx context.Context, filter postarch.RecordFilter) ([]*postarch.ArchiveRecord, error) {
	return s.next.FindRecords(ctx, filter)
}
