package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is the byte-level backend of an AnalysisCache
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is a process-local Store. It never returns an error.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an in-memory store purging expired entries every
// cleanupInterval
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get returns the value stored under key
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, found := s.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	return data, ok, nil
}

// Set stores value under key for ttl
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.cache.Set(key, value, ttl)
	return nil
}

// Delete removes key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// ItemCount returns the number of items in the store, expired ones included
// until the next cleanup
func (s *MemoryStore) ItemCount() int {
	return s.cache.ItemCount()
}
