package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/cache"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"

	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	mu        sync.Mutex
	hits      int
	misses    int
	evictions int
}

func (m *countingMetrics) Hit(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

func (m *countingMetrics) Miss(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

func (m *countingMetrics) Eviction(string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictions++
}

func (m *countingMetrics) Size(string, int) {}

func (m *countingMetrics) snapshot() (hits, misses, evictions int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses, m.evictions
}

func newTestCache(t *testing.T, capacity int) (*cache.LRUCache[string, int], *countingMetrics) {
	t.Helper()

	metrics := &countingMetrics{}
	c, err := cache.NewLRUCache[string, int](capacity, "test", logger.NewNop(), metrics)
	require.NoError(t, err)
	return c, metrics
}

func TestNewLRUCache_RejectsNonPositiveCapacity(t *testing.T) {
	_, err := cache.NewLRUCache[string, int](0, "test", logger.NewNop(), &countingMetrics{})
	require.Error(t, err)

	_, err = cache.NewLRUCache[string, int](-1, "test", logger.NewNop(), &countingMetrics{})
	require.Error(t, err)
}

func TestLRUCache_PutAndGet(t *testing.T) {
	c, metrics := newTestCache(t, 10)

	c.Put("a", 1, 0)

	got, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, got)

	_, ok = c.Get("missing")
	require.False(t, ok)

	hits, misses, _ := metrics.snapshot()
	require.Equal(t, 1, hits)
	require.Equal(t, 1, misses)
}

func TestLRUCache_PutOverwrites(t *testing.T) {
	c, _ := newTestCache(t, 10)

	c.Put("a", 1, 0)
	c.Put("a", 2, 0)

	got, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 2, got)
	require.Equal(t, 1, c.Len())
}

func TestLRUCache_TTLExpiry(t *testing.T) {
	c, _ := newTestCache(t, 10)

	c.Put("short", 1, 10*time.Millisecond)
	c.Put("forever", 2, 0)

	require.True(t, c.Has("short"))

	time.Sleep(20 * time.Millisecond)

	require.False(t, c.Has("short"))
	_, ok := c.Get("short")
	require.False(t, ok)

	got, ok := c.Get("forever")
	require.True(t, ok)
	require.Equal(t, 2, got)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, metrics := newTestCache(t, 2)

	c.Put("a", 1, 0)
	c.Put("b", 2, 0)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", 3, 0)

	require.True(t, c.Has("a"))
	require.False(t, c.Has("b"))
	require.True(t, c.Has("c"))

	_, _, evictions := metrics.snapshot()
	require.Equal(t, 1, evictions)
}

func TestLRUCache_Remove(t *testing.T) {
	c, _ := newTestCache(t, 10)

	c.Put("a", 1, 0)

	require.True(t, c.Remove("a"))
	require.False(t, c.Has("a"))
	require.Equal(t, 0, c.Len())

	require.False(t, c.Remove("a"), "removing a missing key reports false")
}

func TestLRUCache_OnEvictedCallback(t *testing.T) {
	c, _ := newTestCache(t, 1)

	var (
		mu      sync.Mutex
		evicted []string
	)
	c.SetOnEvicted(func(key string, _ int) {
		mu.Lock()
		defer mu.Unlock()
		evicted = append(evicted, key)
	})

	c.Put("a", 1, 0)
	c.Put("b", 2, 0)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"a"}, evicted)
}

func TestLRUCache_Purge(t *testing.T) {
	c, _ := newTestCache(t, 10)

	c.Put("a", 1, 0)
	c.Put("b", 2, 0)

	var (
		mu    sync.Mutex
		count int
	)
	c.SetOnEvicted(func(string, int) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})

	c.Purge()

	require.Equal(t, 0, c.Len())
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, count)
}

func TestLRUCache_BackgroundCleanup(t *testing.T) {
	c, _ := newTestCache(t, 10)

	c.Put("short", 1, 5*time.Millisecond)
	c.Put("forever", 2, 0)

	c.StartCleanup(10 * time.Millisecond)
	defer c.StopCleanup()

	require.Eventually(t, func() bool {
		return c.Len() == 1
	}, time.Second, 5*time.Millisecond)

	require.True(t, c.Has("forever"))
}

func TestLRUCache_ConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(t, 100)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			keys := []string{"a", "b", "c", "d"}
			for j := 0; j < 200; j++ {
				key := keys[(n+j)%len(keys)]
				c.Put(key, j, time.Minute)
				c.Get(key)
				if j%50 == 0 {
					c.Remove(key)
				}
			}
		}(i)
	}
	wg.Wait()
}
