// Package geocache provides a coordinate-addressed read-through cache for
// geographic API responses. Coordinates are rounded to 3 decimal places
// (~111 m grid) before key construction so that nearby queries share cache
// entries. Every operation is fail-soft: a missing or broken backing store
// degrades to "not found" rather than an error.
package geocache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Well-known cache namespaces. Each namespace carries its own TTL because
// the data it holds goes stale at a different rate.
const (
	NamespacePlaces       = "places"
	NamespaceTraffic      = "traffic"
	NamespaceScore        = "score"
	NamespaceIntelligence = "intelligence"
)

// Store is the backing key/value store. Implementations must be safe for
// concurrent use; every write is a full overwrite of the key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Cache wraps a Store with coordinate quantization and per-namespace TTLs.
// A Cache built over a nil Store is a guaranteed no-op: every Get misses
// and every Set and Invalidate silently succeeds.
type Cache struct {
	store      Store
	logger     *slog.Logger
	ttls       map[string]time.Duration
	defaultTTL time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithDefaultTTL overrides the TTL used for namespaces without an explicit policy.
func WithDefaultTTL(d time.Duration) Option {
	return func(c *Cache) { c.defaultTTL = d }
}

// WithNamespaceTTL overrides the TTL for a single namespace.
func WithNamespaceTTL(namespace string, d time.Duration) Option {
	return func(c *Cache) { c.ttls[namespace] = d }
}

// New creates a Cache. store may be nil, in which case the cache is disabled
// and the rest of the system runs correctly, just slower.
func New(store Store, logger *slog.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		store:      store,
		logger:     logger,
		defaultTTL: time.Hour,
		ttls: map[string]time.Duration{
			NamespacePlaces:       time.Hour,
			NamespaceTraffic:      10 * time.Minute,
			NamespaceScore:        30 * time.Minute,
			NamespaceIntelligence: 30 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a backing store is configured.
func (c *Cache) Enabled() bool { return c.store != nil }

// TTL returns the effective TTL for a namespace.
func (c *Cache) TTL(namespace string) time.Duration {
	if ttl, ok := c.ttls[namespace]; ok {
		return ttl
	}
	return c.defaultTTL
}

// Key builds the canonical cache key for a quantized coordinate.
// Two points within the same 0.001 degree grid cell always produce the
// same key; this trades exact-location fidelity for hit rate.
func (c *Cache) Key(namespace string, lat, lon float64, qualifier string) string {
	key := fmt.Sprintf("%s:%.3f:%.3f", namespace, lat, lon)
	if qualifier != "" {
		key += ":" + qualifier
	}
	return key
}

// Get returns the raw cached payload for a coordinate, or found=false on
// a miss, a disabled cache, or a store error.
func (c *Cache) Get(ctx context.Context, namespace string, lat, lon float64, qualifier string) ([]byte, bool) {
	if c.store == nil {
		return nil, false
	}
	key := c.Key(namespace, lat, lon, qualifier)
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	if raw == nil {
		c.logger.Debug("cache miss", "key", key)
		return nil, false
	}
	c.logger.Debug("cache hit", "key", key)
	return raw, true
}

// GetJSON unmarshals a cached payload into dest. A payload that fails to
// unmarshal is treated as a miss.
func (c *Cache) GetJSON(ctx context.Context, namespace string, lat, lon float64, qualifier string, dest any) bool {
	raw, found := c.Get(ctx, namespace, lat, lon, qualifier)
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("cache payload unmarshal failed", "namespace", namespace, "error", err)
		return false
	}
	return true
}

// Set serializes value and stores it with the namespace TTL, or with
// ttlOverride when given. Failures are logged and swallowed: caching is
// best-effort, never a hard dependency.
func (c *Cache) Set(ctx context.Context, namespace string, lat, lon float64, value any, qualifier string, ttlOverride ...time.Duration) {
	if c.store == nil {
		return
	}
	ttl := c.TTL(namespace)
	if len(ttlOverride) > 0 && ttlOverride[0] > 0 {
		ttl = ttlOverride[0]
	}
	key := c.Key(namespace, lat, lon, qualifier)
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache payload marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, raw, ttl); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	c.logger.Debug("cache set", "key", key, "ttl", ttl, "size", len(raw))
}

// Invalidate deletes a single cache entry. Same fail-soft contract as Set.
func (c *Cache) Invalidate(ctx context.Context, namespace string, lat, lon float64, qualifier string) {
	if c.store == nil {
		return
	}
	key := c.Key(namespace, lat, lon, qualifier)
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.Warn("cache invalidation failed", "key", key, "error", err)
	}
}
