package suggest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// ErrEmptyFeed is returned when a rebuild has nothing to index. The
// previously published snapshot stays in place.
var ErrEmptyFeed = errors.New("feed returned no indexable records")

// Index serves prefix queries over titles and locations.
//
// Reads load the current snapshot once and never lock. Rebuild assembles a
// complete new snapshot and publishes it with a single pointer swap, so a
// query sees either the old dataset or the new one, never a mix.
type Index struct {
	current  atomic.Pointer[Snapshot]
	mu       sync.Mutex // one rebuild at a time
	rebuilds atomic.Int64
	now      func() time.Time
}

// NewIndex returns an index serving an empty snapshot.
func NewIndex() *Index {
	ix := &Index{now: time.Now}
	ix.current.Store(emptySnapshot())
	return ix
}

// Snapshot returns the currently published snapshot.
func (ix *Index) Snapshot() *Snapshot {
	return ix.current.Load()
}

// Ready reports whether a rebuild has ever succeeded.
func (ix *Index) Ready() bool {
	return ix.rebuilds.Load() > 0
}

// Rebuild indexes records and publishes the result. If records produce no
// keys at all, ErrEmptyFeed is returned and nothing is published.
func (ix *Index) Rebuild(records []Record) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.rebuildLocked(records)
}

func (ix *Index) rebuildLocked(records []Record) error {
	if len(records) == 0 {
		return ErrEmptyFeed
	}

	start := time.Now()
	next := buildSnapshot(records, ix.now())
	if next.empty() {
		return ErrEmptyFeed
	}

	ix.current.Store(next)
	ix.rebuilds.Add(1)

	titles, locations := next.Keys()
	log.Debugf("Published snapshot: records=[%d] titles=[%d] locations=[%d] took=[%v]",
		len(records), titles, locations, time.Since(start))
	return nil
}

// RebuildFrom fetches records from src and rebuilds from them. A failed or
// empty fetch leaves the current snapshot untouched.
func (ix *Index) RebuildFrom(ctx context.Context, src Source) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	records, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch records: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return ix.rebuildLocked(records)
}

// Query returns the title and location matches for prefix from one snapshot.
func (ix *Index) Query(prefix string) Matches {
	return ix.current.Load().Query(prefix)
}

// Suggest returns the merged suggestions for prefix.
func (ix *Index) Suggest(prefix string) []Suggestion {
	m := ix.Query(prefix)
	return Merge(m.Titles, m.Locations)
}

// Stats returns statistics about the published snapshot.
func (ix *Index) Stats() map[string]int {
	s := ix.current.Load()
	titles, locations := s.Keys()
	return map[string]int{
		"records":       s.Records(),
		"titleKeys":     titles,
		"locationKeys":  locations,
		"titleNodes":    s.titles.Nodes(),
		"locationNodes": s.locations.Nodes(),
		"rebuilds":      int(ix.rebuilds.Load()),
	}
}
