package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2014, 10, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestExpiringLazyExpiry(t *testing.T) {
	clk := newFakeClock()
	c := NewExpiring[string, string](time.Hour, WithClock(clk.Now))

	c.PutTTL("k", "v", 5*time.Second)

	clk.Advance(4 * time.Second)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	clk.Advance(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be deleted on access")
	assert.Equal(t, uint64(1), c.Stats().Expired)
}

func TestExpiringBoundaryIsExpired(t *testing.T) {
	clk := newFakeClock()
	c := NewExpiring[string, int](0, WithClock(clk.Now))
	c.PutTTL("k", 1, time.Second)

	clk.Advance(time.Second)
	_, ok := c.Get("k")
	assert.False(t, ok, "now == expiry counts as expired")
}

func TestExpiringZeroTTLSkipsCaching(t *testing.T) {
	c := NewExpiring[string, string](time.Hour)

	c.PutTTL("k", "v", 0)
	_, ok := c.Get("k")
	assert.False(t, ok)

	c.PutTTL("k", "v", -time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestExpiringDefaultTTL(t *testing.T) {
	clk := newFakeClock()
	c := NewExpiring[string, string](10*time.Second, WithClock(clk.Now))
	c.Put("k", "v")

	ttl, ok := c.TTL("k")
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, ttl)

	clk.Advance(9 * time.Second)
	assert.True(t, c.Contains("k"))
	clk.Advance(time.Second)
	assert.False(t, c.Contains("k"))
	assert.Equal(t, 1, c.Len(), "Contains must not delete")
}

func TestExpiringNonPositiveDefault(t *testing.T) {
	c := NewExpiring[string, string](0)
	c.Put("k", "v")
	assert.Equal(t, 0, c.Len())
}

func TestExpiringNoExpiry(t *testing.T) {
	clk := newFakeClock()
	c := NewExpiring[string, string](time.Second, WithClock(clk.Now))
	c.PutTTL("k", "v", NoExpiry)

	clk.Advance(365 * 24 * time.Hour)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	ttl, ok := c.TTL("k")
	require.True(t, ok)
	assert.Equal(t, NoExpiry, ttl)
	assert.Equal(t, 0, c.Clean())
}

func TestExpiringGetLeavesExpiryUntouched(t *testing.T) {
	clk := newFakeClock()
	c := NewExpiring[string, string](0, WithClock(clk.Now))
	c.PutTTL("k", "v", 3*time.Second)

	clk.Advance(2 * time.Second)
	_, ok := c.Get("k")
	require.True(t, ok)
	clk.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestExpiringClean(t *testing.T) {
	clk := newFakeClock()
	c := NewExpiring[int, int](0, WithClock(clk.Now))
	for i := 0; i < 10; i++ {
		c.PutTTL(i, i, time.Duration(i+1)*time.Second)
	}

	clk.Advance(5 * time.Second)
	assert.Equal(t, 5, c.Clean())
	assert.Equal(t, 5, c.Len())
	assert.False(t, c.Contains(4))
	assert.True(t, c.Contains(5))
}

func TestExpiringDeleteAndClear(t *testing.T) {
	c := NewExpiring[string, int](time.Minute)
	c.Put("a", 1)
	c.Put("b", 2)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestRunJanitor(t *testing.T) {
	clk := newFakeClock()
	c := NewExpiring[string, int](0, WithClock(clk.Now))
	c.PutTTL("a", 1, time.Second)
	c.PutTTL("b", 2, time.Hour)
	clk.Advance(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunJanitor(ctx, 5*time.Millisecond, c)
		close(done)
	}()

	assert.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestRunJanitorDisabled(t *testing.T) {
	// returns immediately instead of blocking
	RunJanitor(context.Background(), 0, NewExpiring[string, int](time.Second))
}
