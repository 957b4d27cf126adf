package cache

import (
	"context"
	"time"
)

// Cache is the read-through cache used for tracking views and dashboard
// stats. Order state itself is never cached; the store stays the single
// source of truth.
type Cache interface {
	// Get retrieves a value by key, or an error if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Close closes the cache connection.
	Close() error
}
