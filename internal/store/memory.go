package store

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// entry is a cached value with its expiry. A zero expiresAt never expires.
type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Hits      uint64   `json:"hits"`
	Misses    uint64   `json:"misses"`
	TotalKeys int      `json:"totalKeys"`
	CacheKeys []string `json:"cacheKeys"`
}

// MemoryStore is a concurrency-safe in-memory key/value cache with per-entry TTL.
// Expired entries are hidden from reads immediately and physically removed
// either lazily on read or by DeleteExpired.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string]entry

	hits   uint64
	misses uint64

	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// WithLogger attaches a logger used for hit/miss/set tracing at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		data:   make(map[string]entry),
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value stored under key. Expired entries are reported as a
// miss even if the background sweep has not removed them yet.
func (s *MemoryStore) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if ok && e.expired(s.now()) {
		delete(s.data, key)
		ok = false
	}
	if !ok {
		s.misses++
		s.logger.Debug().Str("key", key).Msg("cache miss")
		return nil, false
	}

	s.hits++
	s.logger.Debug().Str("key", key).Msg("cache hit")
	return e.value, true
}

// Set stores value under key, replacing any existing entry. A ttl <= 0 stores
// the value without expiry.
func (s *MemoryStore) Set(key string, value any, ttl time.Duration) bool {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()

	s.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("cache set")
	return true
}

// Delete removes the given keys and returns how many were present.
func (s *MemoryStore) Delete(keys ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, key := range keys {
		if _, ok := s.data[key]; ok {
			delete(s.data, key)
			removed++
		}
	}

	s.logger.Debug().Strs("keys", keys).Int("removed", removed).Msg("cache delete")
	return removed
}

// Has reports whether key holds an unexpired entry. It does not touch the hit/miss counters.
func (s *MemoryStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	return ok && !e.expired(s.now())
}

// Keys returns the unexpired keys in lexical order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.keysLocked()
}

func (s *MemoryStore) keysLocked() []string {
	now := s.now()
	keys := make([]string, 0, len(s.data))
	for k, e := range s.data {
		if !e.expired(now) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// TTL returns the remaining lifetime of key. The boolean is false when the key
// is absent or expired. Entries without expiry report a zero duration.
func (s *MemoryStore) TTL(key string) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return 0, false
	}
	now := s.now()
	if e.expired(now) {
		return 0, false
	}
	if e.expiresAt.IsZero() {
		return 0, true
	}
	return e.expiresAt.Sub(now), true
}

// Flush removes every entry and resets the hit/miss counters.
func (s *MemoryStore) Flush() {
	s.mu.Lock()
	s.data = make(map[string]entry)
	s.hits = 0
	s.misses = 0
	s.mu.Unlock()

	s.logger.Debug().Msg("cache flush")
}

// DeleteExpired evicts every entry whose expiry has passed and returns the number evicted.
func (s *MemoryStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for k, e := range s.data {
		if e.expired(now) {
			delete(s.data, k)
			evicted++
		}
	}
	return evicted
}

// Stats returns cumulative hit/miss counts and the current key set.
func (s *MemoryStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.keysLocked()
	return Stats{
		Hits:      s.hits,
		Misses:    s.misses,
		TotalKeys: len(keys),
		CacheKeys: keys,
	}
}
