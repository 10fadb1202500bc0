package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key does not exist or has expired
var ErrCacheMiss = errors.New("cache: key not found")

// Cache defines the primitive operations for a key-value cache.
// T is the type of value stored in the cache.
type Cache[T any] interface {
	// Get retrieves a single value. Returns ErrCacheMiss if the key does
	// not exist or has expired.
	Get(ctx context.Context, key string) (T, error)

	// Set stores a single value with TTL
	Set(ctx context.Context, key string, value T, ttl time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// Close releases the backing resources
	Close() error

	// Health checks if the cache is reachable
	Health(ctx context.Context) error
}

// GetWithFetch is a cache-aside helper: on miss it calls fetchFunc, stores
// the result under key, and returns it. Fetch errors are returned verbatim;
// a failed Set is ignored because the fetched value is still usable.
func GetWithFetch[T any](
	ctx context.Context,
	c Cache[T],
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	value, err := c.Get(ctx, key)
	if err == nil {
		return value, nil
	}

	value, err = fetchFunc(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}

	_ = c.Set(ctx, key, value, ttl)
	return value, nil
}
