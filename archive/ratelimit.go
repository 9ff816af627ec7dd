package archive

import (
	"context"
	"sync"

	"github.com/postarch/postarch"
	"golang.org/x/time/rate"
)

// Compile-time interface verification.
var _ postarch.HostLimiter = (*HostLimiter)(nil)

// HostLimiter enforces a per-host request rate. Every host gets its own
// token bucket so a slow publication does not throttle the others.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewHostLimiter creates a limiter allowing rps requests per second per
// host. rps <= 0 disables limiting.
func NewHostLimiter(rps float64) *HostLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the host's rate limit allows a request or the
// context is canceled.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.limiter(host).Wait(ctx)
}

func (l *HostLimiter) limiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(l.limit, 1)
		l.limiters[host] = lim
	}
	return lim
}
