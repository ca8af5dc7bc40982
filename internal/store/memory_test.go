package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryStore_SetGetExpiry(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(WithClock(clock.Now))

	require.True(t, s.Set("weather:city:paris", "sunny", 10*time.Second))

	v, ok := s.Get("weather:city:paris")
	require.True(t, ok)
	assert.Equal(t, "sunny", v)

	clock.Advance(9 * time.Second)
	_, ok = s.Get("weather:city:paris")
	assert.True(t, ok, "entry should still be live just before its TTL")

	clock.Advance(time.Second)
	v, ok = s.Get("weather:city:paris")
	assert.False(t, ok, "entry must be a miss once its TTL has elapsed, without a sweep")
	assert.Nil(t, v)
}

func TestMemoryStore_SetOverwrites(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(WithClock(clock.Now))

	s.Set("k", 1, time.Minute)
	s.Set("k", 2, 2*time.Minute)

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	ttl, ok := s.TTL("k")
	require.True(t, ok)
	assert.Equal(t, 2*time.Minute, ttl)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(WithClock(clock.Now))

	s.Set("forever", "x", 0)
	clock.Advance(365 * 24 * time.Hour)

	_, ok := s.Get("forever")
	assert.True(t, ok)
	ttl, ok := s.TTL("forever")
	assert.True(t, ok)
	assert.Zero(t, ttl)
	assert.Zero(t, s.DeleteExpired())
}

func TestMemoryStore_DeleteHasKeys(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(WithClock(clock.Now))

	s.Set("geocoding:paris", 1, time.Hour)
	s.Set("weather:city:paris", 2, time.Minute)
	s.Set("weather:coords:48.8566,2.3522", 3, time.Minute)

	assert.True(t, s.Has("geocoding:paris"))
	assert.Equal(t, []string{"geocoding:paris", "weather:city:paris", "weather:coords:48.8566,2.3522"}, s.Keys())

	assert.Equal(t, 2, s.Delete("weather:city:paris", "weather:coords:48.8566,2.3522", "missing"))
	assert.False(t, s.Has("weather:city:paris"))
	assert.Equal(t, []string{"geocoding:paris"}, s.Keys())
	assert.Equal(t, 0, s.Delete("weather:city:paris"))
}

func TestMemoryStore_TTL(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(WithClock(clock.Now))

	_, ok := s.TTL("missing")
	assert.False(t, ok)

	s.Set("k", "v", 600*time.Second)
	clock.Advance(100 * time.Second)

	ttl, ok := s.TTL("k")
	require.True(t, ok)
	assert.Equal(t, 500*time.Second, ttl)

	clock.Advance(500 * time.Second)
	_, ok = s.TTL("k")
	assert.False(t, ok)
	assert.False(t, s.Has("k"))
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(WithClock(clock.Now))

	s.Set("short", 1, time.Second)
	s.Set("long", 2, time.Hour)
	clock.Advance(2 * time.Second)

	assert.Equal(t, 1, s.DeleteExpired())
	assert.Equal(t, []string{"long"}, s.Keys())
	assert.Equal(t, 0, s.DeleteExpired())
}

func TestMemoryStore_StatsAndFlush(t *testing.T) {
	s := NewMemoryStore()

	s.Set("a", 1, time.Minute)
	s.Get("a")
	s.Get("a")
	s.Get("b")
	s.Has("b")

	st := s.Stats()
	assert.Equal(t, uint64(2), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
	assert.Equal(t, 1, st.TotalKeys)
	assert.Equal(t, []string{"a"}, st.CacheKeys)

	s.Flush()
	st = s.Stats()
	assert.Zero(t, st.Hits)
	assert.Zero(t, st.Misses)
	assert.Zero(t, st.TotalKeys)
	assert.Empty(t, st.CacheKeys)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			s.Set(key, i, time.Minute)
			s.Get(key)
			s.Keys()
			s.DeleteExpired()
		}(i)
	}
	wg.Wait()

	st := s.Stats()
	assert.Equal(t, 5, st.TotalKeys)
	assert.Equal(t, uint64(50), st.Hits+st.Misses)
}
