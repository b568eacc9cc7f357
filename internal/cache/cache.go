package cache

import (
	"fmt"
	"sync"
	"time"
)

// Clock supplies the current time; injectable for deterministic tests.
type Clock func() time.Time

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Cache memoizes fetched values under string keys for a fixed TTL.
// A failed refresh never overwrites a previously stored value: expired
// entries are kept and served as stale fallback until a fetch succeeds.
type Cache[T any] struct {
	ttl time.Duration
	now Clock

	mu      sync.Mutex
	entries map[string]entry[T]
	locks   map[string]*sync.Mutex
}

// New creates a cache with the given TTL. A nil clock uses time.Now.
func New[T any](ttl time.Duration, clock Clock) *Cache[T] {
	if clock == nil {
		clock = time.Now
	}
	return &Cache[T]{
		ttl:     ttl,
		now:     clock,
		entries: make(map[string]entry[T]),
		locks:   make(map[string]*sync.Mutex),
	}
}

// keyLock returns the per-key fetch lock, creating it on first use.
// Locks are never removed; the key space is bounded by the watchlist.
func (c *Cache[T]) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// GetOrFetch returns the cached value for key if it is still within the TTL
// window, invoking fetch otherwise. On fetch success the result replaces the
// entry atomically. On fetch failure the prior entry, if any, is returned
// unchanged (stale fallback); an error is returned only when there is
// nothing at all to serve.
//
// Concurrent calls for the same key coalesce: late arrivals block on the
// in-flight fetch and then hit the freshly stored entry instead of issuing
// a duplicate upstream call.
func (c *Cache[T]) GetOrFetch(key string, fetch func() (T, error)) (T, error) {
	kl := c.keyLock(key)
	kl.Lock()
	defer kl.Unlock()

	c.mu.Lock()
	e, ok := c.entries[key]
	fresh := ok && c.now().Sub(e.storedAt) < c.ttl
	c.mu.Unlock()
	if fresh {
		return e.value, nil
	}

	v, err := fetch()
	if err != nil {
		if ok {
			return e.value, nil
		}
		var zero T
		return zero, fmt.Errorf("fetch %q: %w", key, err)
	}

	c.mu.Lock()
	c.entries[key] = entry[T]{value: v, storedAt: c.now()}
	c.mu.Unlock()
	return v, nil
}

// Peek returns the entry for key regardless of freshness.
func (c *Cache[T]) Peek(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.value, ok
}

// Len returns the number of stored entries.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep evicts entries expired longer than grace ago and reports how many
// were removed. Recently expired entries survive so stale fallback keeps
// working across transient upstream outages.
func (c *Cache[T]) Sweep(grace time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-(c.ttl + grace))
	removed := 0
	for key, e := range c.entries {
		if e.storedAt.Before(cutoff) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
