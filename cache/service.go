package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Store is the key-value backend behind a Cache. Implementations must honor the
// per-entry TTL and must be safe for concurrent use.
type Store interface {
	// Get returns the stored value, whether the key was present, and any backend error.
	// Values may come back as []byte, string or an already decoded structure.
	Get(ctx context.Context, key string) (any, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPrefix scans the key space and removes every key starting with prefix.
	// It returns the number of removed keys.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}

// FetchFn is the function signature Fetch expects when reading from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// DefaultTTL is the entry lifetime used when neither the call nor the Cache set one.
const DefaultTTL = time.Hour

// Cache wraps a Store with the read-through and invalidation policy shared by
// every repository. Cache failures are logged and never returned to callers.
type Cache struct {
	store   Store
	ttl     time.Duration
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the default entry TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger used to report degraded cache operations.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics attaches lookup and invalidation counters.
func WithMetrics(m *Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// New creates a Cache over the given store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		ttl:    DefaultTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the default entry TTL.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Store exposes the underlying backend.
func (c *Cache) Store() Store {
	return c.store
}

// Fetch serves key from the cache, falling back to fetchFn on a miss, on a
// corrupt entry or when the cache backend fails. Successful fetches are written
// back with ttl (or the Cache default when ttl <= 0). Errors from fetchFn are
// returned unchanged and never cached.
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetchFn FetchFn[T]) (T, error) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		// the backend is unavailable: go straight to the source and leave the cache alone
		c.metrics.lookup(resultError)
		c.logger.Warn("cache get failed, reading from store",
			zap.String("key", key),
			zap.Error(err),
		)
		return fetchFn(ctx)
	}

	if found {
		if value, ok := decode[T](raw); ok {
			c.metrics.lookup(resultHit)
			return value, nil
		}
		c.metrics.lookup(resultCorrupt)
		c.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
	} else {
		c.metrics.lookup(resultMiss)
	}

	value, err := fetchFn(ctx)
	if err != nil {
		return value, err
	}

	c.put(ctx, key, value, ttl)
	return value, nil
}

func decode[T any](raw any) (T, bool) {
	var out T
	switch v := raw.(type) {
	case T:
		return v, true
	case []byte:
		if err := json.Unmarshal(v, &out); err != nil {
			return out, false
		}
		return out, true
	case string:
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return out, false
		}
		return out, true
	default:
		return out, false
	}
}

func (c *Cache) put(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value not serializable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, data, ttl); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes the given keys. Empty keys are ignored.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	keys = compact(keys)
	if len(keys) == 0 {
		return
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
		return
	}
	c.metrics.invalidated(kindKey, len(keys))
}

// InvalidatePrefix removes every key of each family. This is a key-space scan
// and is the expensive path; use it only for families without a closed key set.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefixes ...string) {
	for _, prefix := range compact(prefixes) {
		n, err := c.store.DeleteByPrefix(ctx, prefix)
		if err != nil {
			c.logger.Warn("cache prefix invalidation failed", zap.String("prefix", prefix), zap.Error(err))
			continue
		}
		c.metrics.invalidated(kindPrefix, n)
	}
}

func compact(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
