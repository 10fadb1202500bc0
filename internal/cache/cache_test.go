package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string](0)
	defer c.Close()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))

	got, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[int](0)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "key", 42, -time.Second))

	_, err := c.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string](0)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, c.Delete(ctx, "key"))

	_, err := c.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGetWithFetchMissThenHit(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string](0)
	defer c.Close()

	fetches := 0
	fetch := func(ctx context.Context, key string) (string, error) {
		fetches++
		return "fetched:" + key, nil
	}

	got, err := GetWithFetch(ctx, c, "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "fetched:k", got)
	assert.Equal(t, 1, fetches)

	// Second call is served from cache
	got, err = GetWithFetch(ctx, c, "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "fetched:k", got)
	assert.Equal(t, 1, fetches)
}

func TestGetWithFetchPropagatesFetchError(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string](0)
	defer c.Close()

	wantErr := errors.New("boom")
	_, err := GetWithFetch(ctx, c, "k", time.Minute, func(ctx context.Context, key string) (string, error) {
		return "", wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// Nothing was cached
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
