package cache

import (
	"math"
	"sync"
	"time"
)

// NoExpiry stores an entry that never expires.
const NoExpiry time.Duration = math.MaxInt64

// Clock returns the current time. Tests substitute a fake one.
type Clock func() time.Time

type expiringOptions struct {
	now Clock
}

// ExpiringOption configures an Expiring cache.
type ExpiringOption func(*expiringOptions)

// WithClock replaces time.Now as the cache's time source.
func WithClock(now Clock) ExpiringOption {
	return func(o *expiringOptions) {
		if now != nil {
			o.now = now
		}
	}
}

type expiringEntry[V any] struct {
	value     V
	expiresAt time.Time
	forever   bool
}

func (e expiringEntry[V]) expired(now time.Time) bool {
	return !e.forever && !now.Before(e.expiresAt)
}

// Expiring is a cache whose entries live for a fixed duration after they
// are stored. Expired entries are removed when a Get finds them, or by Clean.
type Expiring[K comparable, V any] struct {
	mu         sync.Mutex
	stats      Stats
	items      map[K]expiringEntry[V]
	defaultTTL time.Duration
	now        Clock
}

// NewExpiring creates a cache whose entries default to defaultTTL.
// A non-positive default means Put without an explicit TTL stores nothing.
func NewExpiring[K comparable, V any](defaultTTL time.Duration, opts ...ExpiringOption) *Expiring[K, V] {
	o := expiringOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Expiring[K, V]{
		items:      make(map[K]expiringEntry[V]),
		defaultTTL: defaultTTL,
		now:        o.now,
	}
}

// DefaultTTL returns the TTL applied by Put.
func (c *Expiring[K, V]) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Put stores value with the cache's default TTL.
func (c *Expiring[K, V]) Put(key K, value V) {
	c.PutTTL(key, value, c.defaultTTL)
}

// PutTTL stores value for ttl. A ttl of zero or less stores nothing, which
// lets callers pass through a "do not cache" decision without branching.
func (c *Expiring[K, V]) PutTTL(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	e := expiringEntry[V]{value: value}
	if ttl == NoExpiry {
		e.forever = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !e.forever {
		e.expiresAt = c.now().Add(ttl)
	}
	c.items[key] = e
}

// Get returns the value for key if it has not expired. An expired entry is
// deleted on the way out.
func (c *Expiring[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	if e.expired(c.now()) {
		delete(c.items, key)
		c.stats.Expired++
		c.stats.Misses++
		return zero, false
	}
	c.stats.Hits++
	return e.value, true
}

// Contains reports whether key holds a live entry. It never deletes.
func (c *Expiring[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	return ok && !e.expired(c.now())
}

// TTL returns the remaining lifetime of key. Entries stored with NoExpiry
// report NoExpiry.
func (c *Expiring[K, V]) TTL(key K) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return 0, false
	}
	if e.forever {
		return NoExpiry, true
	}
	now := c.now()
	if e.expired(now) {
		return 0, false
	}
	return e.expiresAt.Sub(now), true
}

// Delete removes key, reporting whether it was present.
func (c *Expiring[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	delete(c.items, key)
	return ok
}

// Clean scans the whole table and removes expired entries, returning how
// many were dropped. It is O(n) and meant for periodic maintenance.
func (c *Expiring[K, V]) Clean() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
			removed++
		}
	}
	c.stats.Expired += uint64(removed)
	return removed
}

// Clear drops every entry.
func (c *Expiring[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]expiringEntry[V])
}

// Len returns the number of stored entries, including expired ones that
// have not been cleaned yet.
func (c *Expiring[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns a copy of the running counters.
func (c *Expiring[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
