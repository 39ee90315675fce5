package cache

import "sync"

// DefaultLRUSize is used when a non-positive capacity is requested.
const DefaultLRUSize = 1024

// root is the sentinel slot. root.next is the most recently used entry,
// root.prev is the next eviction candidate. An empty list points at itself.
const root int32 = 0

type lruEntry[K comparable, V any] struct {
	key   K
	value V
	prev  int32 // newer neighbour
	next  int32 // older neighbour
}

// LRU is a bounded cache with least-recently-used eviction.
// Entries live in a slab addressed by index. Freed slots are reused through
// a free list, so steady-state operation does not allocate.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	stats    Stats
	capacity int
	items    map[K]int32
	slab     []lruEntry[K, V]
	free     []int32
}

// NewLRU creates a cache holding at most capacity entries.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultLRUSize
	}
	c := &LRU[K, V]{capacity: capacity}
	c.reset()
	return c
}

func (c *LRU[K, V]) reset() {
	c.items = make(map[K]int32, c.capacity)
	c.slab = make([]lruEntry[K, V], 1, c.capacity+1)
	c.slab[root].prev = root
	c.slab[root].next = root
	c.free = c.free[:0]
}

func (c *LRU[K, V]) unlink(i int32) {
	e := &c.slab[i]
	c.slab[e.prev].next = e.next
	c.slab[e.next].prev = e.prev
}

func (c *LRU[K, V]) pushFront(i int32) {
	first := c.slab[root].next
	c.slab[i].prev = root
	c.slab[i].next = first
	c.slab[first].prev = i
	c.slab[root].next = i
}

func (c *LRU[K, V]) alloc(key K, value V) int32 {
	if n := len(c.free); n > 0 {
		i := c.free[n-1]
		c.free = c.free[:n-1]
		c.slab[i].key = key
		c.slab[i].value = value
		return i
	}
	c.slab = append(c.slab, lruEntry[K, V]{key: key, value: value})
	return int32(len(c.slab) - 1)
}

func (c *LRU[K, V]) remove(i int32) {
	c.unlink(i)
	delete(c.items, c.slab[i].key)
	c.slab[i] = lruEntry[K, V]{}
	c.free = append(c.free, i)
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.unlink(i)
	c.pushFront(i)
	c.stats.Hits++
	return c.slab[i].value, true
}

// Peek returns the value for key without changing its recency.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.items[key]; ok {
		return c.slab[i].value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is cached without changing its recency.
func (c *LRU[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Put stores value under key as the most recently used entry. When the
// cache is full the least recently used entry is evicted first.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.items[key]; ok {
		c.slab[i].value = value
		c.unlink(i)
		c.pushFront(i)
		return
	}

	if len(c.items) >= c.capacity {
		if oldest := c.slab[root].prev; oldest != root {
			c.remove(oldest)
			c.stats.Evictions++
		}
	}

	i := c.alloc(key, value)
	c.pushFront(i)
	c.items[key] = i
}

// Delete removes key, reporting whether it was present.
func (c *LRU[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.items[key]
	if !ok {
		return false
	}
	c.remove(i)
	return true
}

// Clear drops every entry.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Cap returns the maximum number of entries.
func (c *LRU[K, V]) Cap() int {
	return c.capacity
}

// Dump returns the keys from most to least recently used.
// It does not change the recency order.
func (c *LRU[K, V]) Dump() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, len(c.items))
	for i := c.slab[root].next; i != root; i = c.slab[i].next {
		keys = append(keys, c.slab[i].key)
	}
	return keys
}

// Stats returns a copy of the running counters.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
