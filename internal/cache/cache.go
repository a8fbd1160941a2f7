package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Entry represents a cached generation result. Entries are never mutated
// after creation; staleness is decided against CreatedAt on every lookup.
type Entry struct {
	Value     string
	CreatedAt time.Time
}

// Cache is an in-memory TTL cache for sanitized generation results. It is
// scoped to the process: nothing is persisted, and eviction is purely lazy
// (a stale entry is removed by the Get that observes it). Safe for use from
// multiple in-flight generations.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration

	hits    atomic.Int64
	misses  atomic.Int64
	expired atomic.Int64

	now func() time.Time
}

// New creates a cache with the given TTL, fixed for the cache's lifetime.
// A non-positive TTL means entries never expire.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and fresh. A stale entry
// is evicted as a side effect and reported as a miss.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return "", false
	}

	if c.isExpired(entry.CreatedAt) {
		delete(c.entries, key)
		c.expired.Add(1)
		c.misses.Add(1)
		return "", false
	}

	c.hits.Add(1)
	return entry.Value, true
}

// Set inserts or overwrites the entry for key, stamping it with the current
// time. It always succeeds; concurrent writers race and the last one wins.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Value:     value,
		CreatedAt: c.now(),
	}
}

// isExpired checks if an entry created at the given time is past the TTL.
// Callers must hold c.mu.
func (c *Cache) isExpired(createdAt time.Time) bool {
	if c.ttl <= 0 {
		return false // No expiration
	}
	return c.now().Sub(createdAt) > c.ttl
}

// Len returns the number of entries currently held, stale ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries and returns how many were dropped.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.entries)
	c.entries = make(map[string]Entry)
	return removed
}

// Stats describes cache effectiveness for the current process.
type Stats struct {
	Entries int           `json:"entries"`
	Hits    int64         `json:"hits"`
	Misses  int64         `json:"misses"`
	Expired int64         `json:"expired"`
	TTL     time.Duration `json:"ttl"`
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	entries := len(c.entries)
	c.mu.Unlock()

	return Stats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Expired: c.expired.Load(),
		TTL:     c.ttl,
	}
}
