// Package cache holds search pages for their time-to-live so repeated dork
// pages within a window cost no quota.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"echoforge/internal/app/core"
)

type entry struct {
	value    core.SearchPage
	storedAt time.Time
}

// ResponseCache is a TTL-bounded store keyed by a query fingerprint. All
// operations are serialized; it is shared by every query executor in a run.
type ResponseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry

	now func() time.Time
}

// New returns an empty cache whose entries expire after ttl.
func New(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Fingerprint derives the stable cache key for one paginated search call.
// Identical (query, start, num) tuples always map to the same key.
func Fingerprint(query string, start, num int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%d", query, start, num))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached page for key if it is younger than the TTL. Stale
// entries are evicted on the spot and reported as absent.
func (c *ResponseCache) Get(key string) (core.SearchPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return core.SearchPage{}, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return core.SearchPage{}, false
	}
	return e.value, true
}

// Set stores a page under key, replacing any prior entry.
func (c *ResponseCache) Set(key string, page core.SearchPage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: page, storedAt: c.now()}
}

// ClearExpired sweeps out every entry older than the TTL. Housekeeping only;
// Get already evicts lazily.
func (c *ResponseCache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live plus not-yet-swept entries.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
