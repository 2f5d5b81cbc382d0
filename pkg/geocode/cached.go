package geocode

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Store is the cache surface CachedProvider needs; pkg/cache.RedisCache
// satisfies it.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CachedProvider is a read-through decorator: lookups are pure functions of
// their input, so results can be cached aggressively. Cache failures fall
// through to the inner provider silently.
type CachedProvider struct {
	inner Provider
	store Store
	ttl   time.Duration
}

func NewCachedProvider(inner Provider, store Store, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedProvider{inner: inner, store: store, ttl: ttl}
}

func (c *CachedProvider) Forward(ctx context.Context, query string) (*Place, error) {
	key := "geocode:fwd:" + strings.ToLower(strings.TrimSpace(query))
	return c.lookup(ctx, key, func() (*Place, error) {
		return c.inner.Forward(ctx, query)
	})
}

func (c *CachedProvider) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	key := fmt.Sprintf("geocode:rev:%.5f:%.5f", lat, lng)
	return c.lookup(ctx, key, func() (*Place, error) {
		return c.inner.Reverse(ctx, lat, lng)
	})
}

func (c *CachedProvider) lookup(ctx context.Context, key string, fetch func() (*Place, error)) (*Place, error) {
	if c.store != nil {
		var cached Place
		if err := c.store.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	place, err := fetch()
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		// Best effort; a full cache or broken connection must not fail the lookup.
		_ = c.store.Set(ctx, key, place, c.ttl)
	}
	return place, nil
}
