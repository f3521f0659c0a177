package cache

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yourusername/edgecast/internal/metrics"
)

//go:embed scripts/sliding_window.lua
var slidingWindowLua string

// RedisLimiter is a SlidingWindowLimiter shared between processes, backed by a
// sorted set per identity and an atomic Lua script.
type RedisLimiter struct {
	name          string
	rdb           *redis.Client
	prefix        string
	max           int
	window        time.Duration
	slidingWindow *redis.Script
}

// NewRedisLimiter creates a limiter admitting max requests per window
func NewRedisLimiter(name string, rdb *redis.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		name:          name,
		rdb:           rdb,
		prefix:        prefix,
		max:           max,
		window:        window,
		slidingWindow: redis.NewScript(slidingWindowLua),
	}
}

func (l *RedisLimiter) key(identity string) string {
	return fmt.Sprintf("%s:ratelimit:%s:%s", l.prefix, l.name, identity)
}

// CheckLimit records a request for identity if the window has room
func (l *RedisLimiter) CheckLimit(ctx context.Context, identity string) (Decision, error) {
	now := time.Now().UnixMicro()

	result, err := l.slidingWindow.Run(
		ctx,
		l.rdb,
		[]string{l.key(identity)},
		now,
		l.window.Microseconds(),
		l.max,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("%w: redis rate limit %s: %w", ErrBackendUnavailable, identity, err)
	}
	if len(result) < 3 {
		return Decision{}, fmt.Errorf("%w: redis rate limit %s: unexpected result length %d", ErrBackendUnavailable, identity, len(result))
	}

	decision := Decision{
		Allowed:    result[0] == 1,
		Remaining:  int(result[1]),
		RetryAfter: time.Duration(result[2]) * time.Microsecond,
	}
	if !decision.Allowed {
		metrics.RecordRateLimitRejection(l.name)
	}
	return decision, nil
}

// Compile-time interface checks.
var (
	_ Limiter = (*SlidingWindowLimiter)(nil)
	_ Limiter = (*RedisLimiter)(nil)
	_ Store   = (*MemoryStore)(nil)
	_ Store   = (*RedisStore)(nil)
)
