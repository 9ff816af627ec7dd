package mock

import (
	"context"

	"github.com/postarch/postarch"
)

var _ postarch.Discoverer = (*Discoverer)(nil)

// Discoverer is a mock implementation of postarch.Discoverer.
type Discoverer struct {
	DiscoverFn func(ctx context.Context, src postarch.Source) ([]postarch.PostRef, error)
}

func (d *Discoverer) Discover(ctx context.Context, src postarch.Source) ([]postarch.PostRef, error) {
	return d.DiscoverFn(ctx, src)
}

var _ postarch.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of postarch.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, host)
}
