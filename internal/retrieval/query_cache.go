package retrieval

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// QueryCache memoizes retrieval results for repeated queries. Entries
// expire by TTL; capacity pressure evicts the least recently used.
// Cached results are shared; callers must not mutate them.
type QueryCache struct {
	lru *expirable.LRU[string, Result]
}

func NewQueryCache(capacity int, ttl time.Duration) *QueryCache {
	return &QueryCache{lru: expirable.NewLRU[string, Result](capacity, nil, ttl)}
}

func (c *QueryCache) Get(query string, k int) (Result, bool) {
	return c.lru.Get(cacheKey(query, k))
}

func (c *QueryCache) Set(query string, k int, result Result) {
	c.lru.Add(cacheKey(query, k), result)
}

func (c *QueryCache) Purge() {
	c.lru.Purge()
}

func cacheKey(query string, k int) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(normalized + ":" + strconv.Itoa(k)))
	return hex.EncodeToString(sum[:])
}
