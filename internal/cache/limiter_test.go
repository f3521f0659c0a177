package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(max int, window time.Duration) (*SlidingWindowLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewSlidingWindowLimiter("test", max, window)
	l.now = clock.Now
	return l, clock
}

func TestSlidingWindowLimiter(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		d, err := l.CheckLimit(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2-i, d.Remaining)
		clock.Advance(10 * time.Second)
	}

	d, err := l.CheckLimit(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	// first request was 30s ago
	assert.Equal(t, 30*time.Second, d.RetryAfter)

	// rejected requests are not counted
	assert.Equal(t, 3, l.Len("10.0.0.1"))

	// other identities have their own window
	d, err = l.CheckLimit(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	clock.Advance(30 * time.Second)
	d, err = l.CheckLimit(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "oldest request aged out of the window")
	assert.Equal(t, 0, d.Remaining)
}

func TestSlidingWindowLimiterZeroBudget(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(0, time.Minute)

	d, err := l.CheckLimit(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, time.Minute, d.RetryAfter)
	assert.Equal(t, 0, l.Len("10.0.0.1"))
}

func TestSlidingWindowLimiterConcurrent(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(50, time.Hour)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.CheckLimit(ctx, "shared")
			if err == nil && d.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowed.Load())
}
