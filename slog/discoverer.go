package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/postarch/postarch"
)

// Ensure LoggingDiscoverer implements postarch.Discoverer.
var _ postarch.Discoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a Discoverer with logging.
type LoggingDiscoverer struct {
	next   postarch.Discoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next postarch.Discoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// Discover logs the source and the number of references found, then
// delegates to the wrapped discoverer.
func (d *LoggingDiscoverer) Discover(ctx context.Context, src postarch.Source) (refs []postarch.PostRef, err error) {
	defer func(begin time.Time) {
		d.logger.Info("discover",
			"source", src.URL,
			"posts", len(refs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Discover(ctx, src)
}
