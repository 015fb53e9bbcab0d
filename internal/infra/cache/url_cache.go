package cache

import (
	"sync"
	"time"
)

// entry is a cached download link with its expiry.
type entry struct {
	url      string
	expireAt time.Time
}

// URLCache is a thread-safe TTL cache for presigned download links, keyed by
// object key. Links are expensive to sign against remote backends and safe
// to reuse until shortly before they expire.
type URLCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewURLCache creates an empty cache.
func NewURLCache() *URLCache {
	return &URLCache{entries: make(map[string]entry)}
}

// Get returns the cached link for key if it has not expired.
func (c *URLCache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if found && time.Now().Before(e.expireAt) {
		return e.url, true
	}
	return "", false
}

// Set stores a link for key until expireAt.
func (c *URLCache) Set(key, url string, expireAt time.Time) {
	c.mu.Lock()
	c.entries[key] = entry{url: url, expireAt: expireAt}
	c.mu.Unlock()
}

// Sweep drops expired entries. Called periodically from a janitor goroutine.
func (c *URLCache) Sweep() {
	now := time.Now()
	c.mu.Lock()
	for key, e := range c.entries {
		if now.After(e.expireAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
