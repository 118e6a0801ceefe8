package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", "1")
	c.Set("a", "2")
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "2", got)
	assert.Equal(t, 1, c.Size())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	clock.advance(30 * time.Second)
	c.Set("c", "3")
	clock.advance(31 * time.Second)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.CleanExpired(), "b expired, a already dropped by Get")
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUCache_PurgeAndDelete(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}

	c.Delete("k0")
	assert.Equal(t, 4, c.Size())

	c.Purge()
	assert.Equal(t, 0, c.Size())
	_, ok := c.Get("k1")
	assert.False(t, ok)

	c.Set("k1", "again")
	assert.Equal(t, 1, c.Size())
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := NewLRUCache[int](50, time.Minute)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("%d-%d", w, i%20)
				c.Set(key, i)
				c.Get(key)
				if i%50 == 0 {
					c.Purge()
				}
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Size(), 50)
}

func TestManager_Sweep(t *testing.T) {
	c, clock := newTestCache(10, time.Second)
	c.Set("a", "1")
	clock.advance(2 * time.Second)

	m := NewManager()
	m.Register(c)
	assert.Equal(t, 1, m.sweep())

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}
