package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/harvest"
	"golang.org/x/time/rate"
)

var _ harvest.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter keeps a token bucket per host. Hosts are compared
// case-insensitively.
type DomainLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithBurst lets up to n requests to a host go out back to back before
// pacing starts. Values below one are ignored.
func WithBurst(n int) LimiterOption {
	return func(d *DomainLimiter) {
		if n > 0 {
			d.burst = n
		}
	}
}

// NewDomainLimiter paces each host at rps requests per second. Zero or a
// negative rps means no pacing.
func NewDomainLimiter(rps float64, opts ...LimiterOption) *DomainLimiter {
	d := &DomainLimiter{
		limit:   rate.Inf,
		burst:   1,
		buckets: make(map[string]*rate.Limiter),
	}
	if rps > 0 {
		d.limit = rate.Limit(rps)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait returns once host has a free token, or with ctx's error.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.bucket(strings.ToLower(host)).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buckets[host]
	if !ok {
		b = rate.NewLimiter(d.limit, d.burst)
		d.buckets[host] = b
	}
	return b
}
