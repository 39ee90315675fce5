package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sfRecords = []Record{
	{Title: "Vertigo", Location: "Fort Point"},
	{Title: "Vertigo", Location: "Mission Dolores"},
	{Title: "A Jitney Elopement", Location: "20th and Folsom Streets"},
	{Title: "The Rock", Location: "Alcatraz Island"},
	{Title: "Pal Joey", Location: "Coit Tower"},
	{Title: "Pal Joey", Location: "Palace of Fine Arts"},
	{Title: "Bullitt", Location: "2417 Franklin Street"},
	{Title: "The Thing", Location: ""},
	{Title: "", Location: "The Embarcadero"},
}

type stubSource struct {
	records []Record
	err     error
	calls   int
}

func (s *stubSource) Fetch(context.Context) ([]Record, error) {
	s.calls++
	return s.records, s.err
}

func newTestIndex(t *testing.T, records []Record) *Index {
	t.Helper()
	ix := NewIndex()
	require.NoError(t, ix.Rebuild(records))
	return ix
}

func TestQueryCaseInsensitive(t *testing.T) {
	ix := newTestIndex(t, sfRecords)

	for _, q := range []string{"v", "V", "vert", "Vert", "vertigo", "Vertigo", "VERTIGO"} {
		m := ix.Query(q)
		assert.Contains(t, m.Titles, "Vertigo", "query %q", q)
	}

	for _, q := range []string{"zzz", "Vertifrimbulmongers", "Vertigofrimbulmongers"} {
		m := ix.Query(q)
		assert.Empty(t, m.Titles, "query %q", q)
		assert.Empty(t, m.Locations, "query %q", q)
	}
}

func TestQueryFinalSigma(t *testing.T) {
	ix := newTestIndex(t, []Record{{Title: "ΟΔΟΣΑ", Location: "Οδός Αθηνάς"}})

	for _, q := range []string{"Ο", "ΟΔΟΣ", "οδοσ", "οδος", "ΟΔΟΣΑ"} {
		assert.Equal(t, []string{"ΟΔΟΣΑ"}, ix.Query(q).Titles, "query %q", q)
	}
	for _, q := range []string{"Οδός", "οδόσ", "ΟΔΌΣ ΑΘ"} {
		assert.Equal(t, []string{"Οδός Αθηνάς"}, ix.Query(q).Locations, "query %q", q)
	}
}

func TestQueryInvalidUTF8(t *testing.T) {
	ix := newTestIndex(t, []Record{{Title: "Ba\xffd Day"}, {Title: "Bad Boys"}})

	assert.Equal(t, []string{"Bad Boys", "Ba\xffd Day"}, ix.Query("ba").Titles)
	assert.Equal(t, []string{"Ba\xffd Day"}, ix.Query("ba\xff").Titles)
	assert.Equal(t, []string{"Ba\xffd Day"}, ix.Query("ba\ufffd").Titles)
}

func TestQueryStripsArticles(t *testing.T) {
	ix := newTestIndex(t, sfRecords)

	assert.Equal(t, []string{"A Jitney Elopement"}, ix.Query("jit").Titles)
	assert.Equal(t, []string{"A Jitney Elopement"}, ix.Query("Jitney").Titles)
	assert.Equal(t, []string{"A Jitney Elopement"}, ix.Query("a jit").Titles)
	assert.Equal(t, []string{"The Rock"}, ix.Query("rock").Titles)
	assert.Equal(t, []string{"The Embarcadero"}, ix.Query("emb").Locations)
}

func TestQueryReportsDisplayOnce(t *testing.T) {
	ix := newTestIndex(t, sfRecords)

	// "the thing" and "thing" both start with "th"
	m := ix.Query("th")
	assert.Equal(t, []string{"The Rock", "The Thing"}, m.Titles)
}

func TestQueryLocations(t *testing.T) {
	ix := newTestIndex(t, sfRecords)

	for _, q := range []string{"2", "24"} {
		assert.Contains(t, ix.Query(q).Locations, "2417 Franklin Street", "query %q", q)
	}
	assert.Empty(t, ix.Query("2417Franklin").Locations)
	assert.Empty(t, ix.Query(" 2").Locations, "leading space is significant")
}

func TestQueryBothOrigins(t *testing.T) {
	ix := newTestIndex(t, sfRecords)

	m := ix.Query("Pal")
	assert.Equal(t, []string{"Pal Joey"}, m.Titles)
	assert.Equal(t, []string{"Palace of Fine Arts"}, m.Locations)

	got := ix.Suggest("pal")
	assert.Equal(t, []Suggestion{
		{Value: "Pal Joey", Origin: OriginTitle},
		{Value: "Palace of Fine Arts", Origin: OriginLocation},
	}, got)
}

func TestQuerySortedByKey(t *testing.T) {
	ix := newTestIndex(t, []Record{
		{Title: "zebra"},
		{Title: "Apple"},
		{Title: "banana"},
		{Title: "Avocado"},
	})
	assert.Equal(t, []string{"Apple", "Avocado"}, ix.Query("a").Titles)

	ix2 := newTestIndex(t, []Record{{Title: "b2"}, {Title: "B1"}, {Title: "b3"}})
	assert.Equal(t, []string{"B1", "b2", "b3"}, ix2.Query("b").Titles)
}

func TestQueryEmptyPrefix(t *testing.T) {
	ix := newTestIndex(t, sfRecords)
	m := ix.Query("")
	assert.Empty(t, m.Titles)
	assert.Empty(t, m.Locations)
	assert.Empty(t, ix.Suggest(""))
}

func TestQueryBeforeRebuild(t *testing.T) {
	ix := NewIndex()
	assert.False(t, ix.Ready())
	assert.Empty(t, ix.Suggest("v"))
	assert.Equal(t, 0, ix.Stats()["records"])
}

func TestRebuildEmptyKeepsSnapshot(t *testing.T) {
	ix := newTestIndex(t, sfRecords)
	before := ix.Snapshot()

	err := ix.Rebuild(nil)
	assert.ErrorIs(t, err, ErrEmptyFeed)

	err = ix.Rebuild([]Record{{}, {Title: ""}})
	assert.ErrorIs(t, err, ErrEmptyFeed)

	assert.Same(t, before, ix.Snapshot())
	assert.Contains(t, ix.Query("vert").Titles, "Vertigo")
}

func TestRebuildFromFailureKeepsSnapshot(t *testing.T) {
	ix := newTestIndex(t, sfRecords)
	before := ix.Snapshot()

	boom := errors.New("dataset unreachable")
	err := ix.RebuildFrom(context.Background(), &stubSource{err: boom})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Same(t, before, ix.Snapshot())

	err = ix.RebuildFrom(context.Background(), &stubSource{})
	assert.ErrorIs(t, err, ErrEmptyFeed)
	assert.Same(t, before, ix.Snapshot())
}

func TestRebuildFromCancelled(t *testing.T) {
	ix := NewIndex()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ix.RebuildFrom(ctx, &stubSource{records: sfRecords})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ix.Ready())
}

func TestRebuildReplacesDataset(t *testing.T) {
	ix := newTestIndex(t, sfRecords)
	src := &stubSource{records: []Record{{Title: "Zodiac", Location: "Presidio Heights"}}}

	require.NoError(t, ix.RebuildFrom(context.Background(), src))
	assert.Equal(t, 1, src.calls)
	assert.Empty(t, ix.Query("vert").Titles)
	assert.Equal(t, []string{"Zodiac"}, ix.Query("z").Titles)
	assert.Equal(t, 2, ix.Stats()["rebuilds"])
	assert.Equal(t, 1, ix.Snapshot().Records())
	assert.False(t, ix.Snapshot().BuiltAt().IsZero())
}

func TestStats(t *testing.T) {
	ix := newTestIndex(t, sfRecords)
	stats := ix.Stats()

	assert.Equal(t, len(sfRecords), stats["records"])
	// vertigo, a jitney elopement, jitney elopement, the rock, rock,
	// pal joey, bullitt, the thing, thing
	assert.Equal(t, 9, stats["titleKeys"])
	assert.Greater(t, stats["titleNodes"], stats["titleKeys"])
}

func generation(n int) []Record {
	records := make([]Record, 0, 50)
	for i := 0; i < 50; i++ {
		records = append(records, Record{
			Title:    fmt.Sprintf("Gen%d Title %02d", n, i),
			Location: fmt.Sprintf("Gen%d Street %02d", n, i),
		})
	}
	return records
}

// TestRebuildAtomicity runs queries while two datasets are swapped in and
// out. Every answer must come from exactly one of them.
func TestRebuildAtomicity(t *testing.T) {
	ix := newTestIndex(t, generation(1))
	g1, g2 := generation(1), generation(2)

	ctx, cancel := context.WithCancel(context.Background())
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for i := 0; ctx.Err() == nil; i++ {
			if i%2 == 0 {
				_ = ix.Rebuild(g2)
			} else {
				_ = ix.Rebuild(g1)
			}
		}
	}()

	errs := make(chan string, 4)
	var readers sync.WaitGroup
	for w := 0; w < 4; w++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for i := 0; i < 500; i++ {
				got := ix.Suggest("gen")
				if len(got) != 100 {
					errs <- fmt.Sprintf("expected 100 suggestions, got %d", len(got))
					return
				}
				gen := got[0].Value[:4]
				for _, s := range got {
					if !strings.HasPrefix(s.Value, gen) {
						errs <- fmt.Sprintf("mixed snapshot: %q alongside %q", s.Value, gen)
						return
					}
				}
			}
		}()
	}

	readers.Wait()
	cancel()
	<-writerDone

	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestIndexImplementsCompleter(t *testing.T) {
	var _ ICompleter = NewIndex()
}
