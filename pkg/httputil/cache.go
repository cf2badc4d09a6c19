package httputil

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/agentscape/pkg/cache"
)

// Cache stores JSON-encoded values in a [cache.Cache] under a key prefix.
//
// Use [Cache.Namespace] to create scoped views, avoiding collisions between
// different kinds of responses:
//
//	datasets := c.Namespace("dataset:")
//	logos := c.Namespace("logo:")
//	datasets.Set(ctx, url, resp) // key becomes "dataset:<url>"
type Cache struct {
	store  cache.Cache
	ttl    time.Duration
	prefix string
}

// NewCache wraps store. Entries expire after ttl; 0 means never. A nil store
// behaves like [cache.NullCache].
func NewCache(store cache.Cache, ttl time.Duration) *Cache {
	if store == nil {
		store = cache.NewNullCache()
	}
	return &Cache{store: store, ttl: ttl}
}

// TTL returns the time-to-live of new entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get loads key into v. It reports false on a miss; a decode failure is
// returned as an error and leaves v in an undefined state.
func (c *Cache) Get(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := c.store.Get(ctx, c.prefix+key)
	if err != nil || !ok {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set stores v under key.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.prefix+key, data, c.ttl)
}

// Namespace returns a view that prefixes every key with prefix. Views share
// the store and TTL; calls can be chained.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{store: c.store, ttl: c.ttl, prefix: c.prefix + prefix}
}
