package cache

import (
	"context"
	"time"
)

// Cache is the derived-view store for computed availability. It is never
// authoritative: readers must tolerate misses and stale entries.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// NoopCache satisfies Cache without storing anything. Every read is a miss.
type NoopCache struct{}

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *NoopCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}
