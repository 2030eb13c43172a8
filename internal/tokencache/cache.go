// Package tokencache stores short-lived bearer tokens per source with a
// write-time expiry buffer, so a token is treated as expired slightly
// before its real expiry and never used mid-request at the boundary.
package tokencache

import (
	"sync"
	"time"
)

// expiryBuffer is subtracted from the nominal TTL at write time.
const expiryBuffer = 60 * time.Second

type entry struct {
	token     string
	expiresAt time.Time
}

// Cache holds one bearer token per source name. It is shared across all
// concurrent queries; a single mutex guards the read-then-maybe-write
// pattern and last write wins. Expired entries are ignored on read and
// overwritten on the next successful auth; there is no eviction loop.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	nowFunc func() time.Time
}

// Option configures the Cache.
type Option func(*Cache)

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(c *Cache) {
		c.nowFunc = f
	}
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached token for source if one is present and not yet
// expired per the buffer applied at write time.
func (c *Cache) Get(source string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[source]
	if !ok || !c.nowFunc().Before(e.expiresAt) {
		return "", false
	}
	return e.token, true
}

// Set stores token for source with expiry now + ttl - 60s. A zero or
// short ttl yields an entry that is already expired; Get simply never
// returns it.
func (c *Cache) Set(source, token string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[source] = entry{
		token:     token,
		expiresAt: c.nowFunc().Add(ttl - expiryBuffer),
	}
}
