package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/yourusername/edgecast/internal/metrics"
)

// Decision is the outcome of a limiter check
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long until the oldest request in the window ages out.
	// Zero when Allowed.
	RetryAfter time.Duration
}

// Limiter rejects callers that exceed a request budget within a window.
// Rejection is immediate; callers retry later.
type Limiter interface {
	CheckLimit(ctx context.Context, identity string) (Decision, error)
}

// SlidingWindowLimiter keeps the request timestamps of each identity within the
// window and admits a request while fewer than max remain. Identities idle for
// a full window are forgotten.
type SlidingWindowLimiter struct {
	name    string
	max     int
	window  time.Duration
	mu      sync.Mutex
	windows *gocache.Cache
	now     func() time.Time
}

// NewSlidingWindowLimiter creates a limiter admitting max requests per window
func NewSlidingWindowLimiter(name string, max int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		name:    name,
		max:     max,
		window:  window,
		windows: gocache.New(window, window),
		now:     time.Now,
	}
}

// CheckLimit records a request for identity if the window has room
func (l *SlidingWindowLimiter) CheckLimit(ctx context.Context, identity string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	var stamps []time.Time
	if v, found := l.windows.Get(identity); found {
		stamps = v.([]time.Time)
	}

	// Drop requests that have aged out of the window
	kept := stamps[:0]
	for _, ts := range stamps {
		if now.Sub(ts) < l.window {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.max {
		l.windows.Set(identity, kept, l.window)
		metrics.RecordRateLimitRejection(l.name)
		// A budget of zero rejects with an empty window; wait a full window then.
		retry := l.window
		if len(kept) > 0 {
			retry = l.window - now.Sub(kept[0])
		}
		if retry < 0 {
			retry = 0
		}
		return Decision{Allowed: false, Remaining: 0, RetryAfter: retry}, nil
	}

	kept = append(kept, now)
	l.windows.Set(identity, kept, l.window)
	return Decision{Allowed: true, Remaining: l.max - len(kept)}, nil
}

// Len returns the number of requests currently counted for identity
func (l *SlidingWindowLimiter) Len(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, found := l.windows.Get(identity)
	if !found {
		return 0
	}
	now := l.now()
	count := 0
	for _, ts := range v.([]time.Time) {
		if now.Sub(ts) < l.window {
			count++
		}
	}
	return count
}
