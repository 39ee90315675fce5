package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/bastiangx/reelserve/pkg/cache"
	"github.com/bastiangx/reelserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Keyer is implemented by sources that can name themselves for caching.
type Keyer interface {
	Key() string
}

// Cached memoizes a source's fetches in an expiring cache shared with
// other sources. Failed or empty fetches are never stored.
type Cached struct {
	src   suggest.Source
	key   string
	store *cache.Expiring[string, []suggest.Record]
	ttl   time.Duration
}

// NewCached wraps src. A ttl of zero or less disables storing, so every
// Fetch goes to src.
func NewCached(src suggest.Source, store *cache.Expiring[string, []suggest.Record], ttl time.Duration) *Cached {
	key := fmt.Sprintf("%T", src)
	if k, ok := src.(Keyer); ok {
		key = k.Key()
	}
	return &Cached{src: src, key: key, store: store, ttl: ttl}
}

// Key returns the cache key used for the wrapped source.
func (c *Cached) Key() string {
	return c.key
}

// Fetch returns cached records when present, otherwise fetches and stores.
func (c *Cached) Fetch(ctx context.Context) ([]suggest.Record, error) {
	if records, ok := c.store.Get(c.key); ok {
		log.Debugf("Using cached records for %s", c.key)
		return records, nil
	}

	records, err := c.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		c.store.PutTTL(c.key, records, c.ttl)
	}
	return records, nil
}

// Invalidate drops the cached records so the next Fetch reaches the source.
func (c *Cached) Invalidate() {
	c.store.Delete(c.key)
}

// Static serves a fixed record list.
type Static []suggest.Record

// Fetch returns a copy of the records.
func (s Static) Fetch(ctx context.Context) ([]suggest.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]suggest.Record(nil), s...), nil
}
