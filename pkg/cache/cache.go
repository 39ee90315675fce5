/*
Package cache provides the in-memory caches used to memoize expensive lookups.

Two disciplines are available:

	lru := cache.NewLRU[string, []byte](100)
	exp := cache.NewExpiring[string, []byte](10 * 24 * time.Hour)

LRU is bounded by entry count and evicts the least recently used entry when
full. Expiring has no size bound; entries become invisible once their TTL has
passed and are removed lazily on access, or in bulk by Clean.

Every cache guards its state with its own mutex, so a handle can be shared
between goroutines. Caches never call each other while holding a lock.
*/
package cache

// Cache is the surface both disciplines expose to collaborators.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Put(key K, value V)
	Clear()
	Len() int
}

// Stats holds running counters for a cache.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Expired   uint64
}

// Map flattens the counters for display alongside other stats maps.
func (s Stats) Map() map[string]int {
	return map[string]int{
		"hits":      int(s.Hits),
		"misses":    int(s.Misses),
		"evictions": int(s.Evictions),
		"expired":   int(s.Expired),
	}
}
