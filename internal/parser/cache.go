package parser

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/DanielChung520/AI-Box-sub009/internal/lru"
)

// CacheLayer is the third cascade stage: an LRU keyed by an md5 hash of the
// NLQ text, matching the Python original's hashlib.md5-keyed cache.
type CacheLayer struct {
	inner *lru.Cache[string, ParsedIntent]
}

// NewCacheLayer builds a CacheLayer bounded to capacity entries with the
// given TTL (default 2h per the requirements).
func NewCacheLayer(capacity int, ttl time.Duration) *CacheLayer {
	return &CacheLayer{inner: lru.New[string, ParsedIntent](capacity, ttl)}
}

func hashNLQ(nlq string) string {
	sum := md5.Sum([]byte(nlq))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached ParsedIntent for nlq, with TokenUsage.CacheHit
// forced true so callers never need to remember to set it.
func (c *CacheLayer) Get(nlq string) (ParsedIntent, bool) {
	pi, ok := c.inner.Get(hashNLQ(nlq))
	if !ok {
		return ParsedIntent{}, false
	}
	pi.TokenUsage.CacheHit = true
	return pi, true
}

// Set stores pi under nlq's hash.
func (c *CacheLayer) Set(nlq string, pi ParsedIntent) {
	c.inner.Set(hashNLQ(nlq), pi)
}
