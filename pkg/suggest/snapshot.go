package suggest

import (
	"sort"
	"time"

	"github.com/bastiangx/reelserve/internal/utils"
	"github.com/bastiangx/reelserve/pkg/tst"
)

// Matches holds the display strings matching a prefix, each list ordered
// by its normalized key.
type Matches struct {
	Titles    []string
	Locations []string
}

// Snapshot is one immutable build of the dataset. It is never modified after
// buildSnapshot returns, so any number of queries may read it at once.
type Snapshot struct {
	titles          *tst.Tree
	locations       *tst.Tree
	titleDisplay    map[string]string
	locationDisplay map[string]string

	records int
	builtAt time.Time
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		titles:          tst.New(),
		locations:       tst.New(),
		titleDisplay:    map[string]string{},
		locationDisplay: map[string]string{},
	}
}

// buildSnapshot folds every title and location into its display table and
// then loads each table's keys into a fresh tree.
func buildSnapshot(records []Record, now time.Time) *Snapshot {
	s := &Snapshot{
		titles:          tst.New(),
		locations:       tst.New(),
		titleDisplay:    make(map[string]string, len(records)),
		locationDisplay: make(map[string]string, len(records)),
		records:         len(records),
		builtAt:         now,
	}
	for _, r := range records {
		addKeys(s.titleDisplay, r.Title)
		addKeys(s.locationDisplay, r.Location)
	}
	for key := range s.titleDisplay {
		s.titles.Insert(key)
	}
	for key := range s.locationDisplay {
		s.locations.Insert(key)
	}
	return s
}

// addKeys maps the folded form of raw, and its article-stripped form when it
// has one, to raw. A later record sharing a key wins.
func addKeys(display map[string]string, raw string) {
	if raw == "" {
		return
	}
	key := utils.Fold(raw)
	if key == "" {
		return
	}
	display[key] = raw
	if rest, ok := utils.StripArticle(key); ok {
		display[rest] = raw
	}
}

// Query matches prefix against both trees.
func (s *Snapshot) Query(prefix string) Matches {
	key := utils.Fold(prefix)
	if key == "" {
		return Matches{}
	}
	return Matches{
		Titles:    lookup(s.titles, s.titleDisplay, key),
		Locations: lookup(s.locations, s.locationDisplay, key),
	}
}

func lookup(tree *tst.Tree, display map[string]string, key string) []string {
	keys := tree.PrefixSearch(key)
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	filter := utils.NewDisplayFilter(len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		d, ok := display[k]
		if !ok || !filter.ShouldInclude(d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Records returns how many feed records the snapshot was built from.
func (s *Snapshot) Records() int {
	return s.records
}

// BuiltAt returns when the snapshot was built. It is zero for the initial
// empty snapshot.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Keys returns the number of distinct title and location keys.
func (s *Snapshot) Keys() (titles, locations int) {
	return s.titles.Len(), s.locations.Len()
}

func (s *Snapshot) empty() bool {
	return s.titles.Len() == 0 && s.locations.Len() == 0
}
