package executor

import (
	"time"

	"github.com/DanielChung520/AI-Box-sub009/internal/lru"
)

// ResultCache memoizes Result by canonical SQL text, grounded on the
// original's executor-level result LRU (default 50 entries, 10-minute TTL).
type ResultCache struct {
	inner *lru.Cache[string, *Result]
}

// NewResultCache builds a ResultCache bounded to capacity entries with the
// given TTL.
func NewResultCache(capacity int, ttl time.Duration) *ResultCache {
	return &ResultCache{inner: lru.New[string, *Result](capacity, ttl)}
}

func (c *ResultCache) Get(key string) (*Result, bool) { return c.inner.Get(key) }
func (c *ResultCache) Set(key string, r *Result)      { c.inner.Set(key, r) }
