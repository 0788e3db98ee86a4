package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLRU_GetAdd(t *testing.T) {
	c := New[[]string](2, 0)

	_, ok := c.Get("kettle")
	assert.False(t, ok)

	c.Add("kettle", []string{"p1", "p2"})
	got, ok := c.Get("kettle")
	assert.True(t, ok)
	assert.Equal(t, []string{"p1", "p2"}, got)
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int](2, 0)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a")
	c.Add("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_ExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := New[string](10, time.Minute, WithClock[string](clock.now))

	c.Add("q", "result")
	clock.advance(30 * time.Second)
	v, ok := c.Get("q")
	assert.True(t, ok)
	assert.Equal(t, "result", v)

	clock.advance(31 * time.Second)
	_, ok = c.Get("q")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry removed")
}

func TestLRU_ExactKeys(t *testing.T) {
	c := New[int](10, 0)
	c.Add("Kettle", 1)
	_, ok := c.Get("kettle")
	assert.False(t, ok)
}

func TestLRU_Stats(t *testing.T) {
	c := New[int](0, 0)
	c.Add("a", 1)
	c.Get("a")
	c.Get("b")
	c.Remove("a")
	c.Get("a")

	assert.Equal(t, Stats{Hits: 1, Misses: 2, Size: 0}, c.Stats())

	c.Add("x", 1)
	c.Purge()
	assert.Equal(t, 0, c.Len())
}
