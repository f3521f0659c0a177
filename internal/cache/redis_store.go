package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourusername/edgecast/internal/config"
)

// NewRedisClient creates a go-redis client and pings it
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: redis ping: %w", ErrBackendUnavailable, err)
	}
	return rdb, nil
}

// RedisStore is a Store shared between processes
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore creates a store whose keys live under prefix
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return "cache:" + key
	}
	return s.prefix + ":cache:" + key
}

// Get returns the value stored under key; a missing key is not an error
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: redis get %s: %w", ErrBackendUnavailable, key, err)
	}
	return data, true, nil
}

// Set stores value under key for ttl
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %w", ErrBackendUnavailable, key, err)
	}
	return nil
}

// Delete removes key
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: redis del %s: %w", ErrBackendUnavailable, key, err)
	}
	return nil
}
