// Package cache is a bounded, expiring in-memory cache for query results.
package cache

import (
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

const (
	DefaultCapacity = 256
	DefaultTTL      = 5 * time.Minute
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// LRU evicts the least recently used key once capacity is reached and treats
// entries older than ttl as misses. A zero ttl disables expiry.
type LRU[V any] struct {
	mu  sync.Mutex
	c   *lru.Cache
	ttl time.Duration
	now func() time.Time

	hits, misses uint64
}

type Option[V any] func(*LRU[V])

// WithClock replaces time.Now, used by tests to move time forward.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(l *LRU[V]) {
		l.now = now
	}
}

func New[V any](capacity int, ttl time.Duration, opts ...Option[V]) *LRU[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l := &LRU[V]{
		c:   lru.New(capacity),
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *LRU[V]) Get(key string) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero V
	raw, ok := l.c.Get(key)
	if !ok {
		l.misses++
		return zero, false
	}

	e := raw.(entry[V])
	if l.ttl > 0 && l.now().Sub(e.storedAt) > l.ttl {
		l.c.Remove(key)
		l.misses++
		return zero, false
	}

	l.hits++
	return e.value, true
}

func (l *LRU[V]) Add(key string, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.c.Add(key, entry[V]{value: value, storedAt: l.now()})
}

func (l *LRU[V]) Remove(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.c.Remove(key)
}

func (l *LRU[V]) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.c.Clear()
}

func (l *LRU[V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Len()
}

type Stats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

func (l *LRU[V]) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{Hits: l.hits, Misses: l.misses, Size: l.c.Len()}
}
