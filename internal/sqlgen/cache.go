package sqlgen

import (
	"time"

	"github.com/DanielChung520/AI-Box-sub009/internal/lru"
)

// Cache memoizes generated SQL text by a canonical cache key (normally the
// Query's fingerprint, computed by the caller), grounded on the original's
// SQLCache.
type Cache struct {
	inner *lru.Cache[string, string]
}

// NewCache builds a Cache bounded to capacity entries with the given TTL.
func NewCache(capacity int, ttl time.Duration) *Cache {
	return &Cache{inner: lru.New[string, string](capacity, ttl)}
}

func (c *Cache) Get(key string) (string, bool) { return c.inner.Get(key) }
func (c *Cache) Set(key, sql string)           { c.inner.Set(key, sql) }
func (c *Cache) Len() int                      { return c.inner.Len() }
