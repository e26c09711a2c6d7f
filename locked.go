package clock

import (
	"iter"
	"slices"
	"sync"
)

// Locked guards a [Cache] with a mutex so it may be
// shared between goroutines.
// Every method takes the lock exclusively, since
// reads update access counts.
type Locked[Key comparable, Value any] struct {
	cache *Cache[Key, Value]
	mu    sync.Mutex
}

// NewLocked creates a [Locked] cache.
// Arguments are the same as [New].
func NewLocked[Key comparable, Value any](capacity int, options ...Option) (*Locked[Key, Value], error) {
	cache, err := New[Key, Value](capacity, options...)
	if err != nil {
		return nil, err
	}
	return &Locked[Key, Value]{cache: cache}, nil
}

func (l *Locked[Key, Value]) Set(key Key, value Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Set(key, value)
}

func (l *Locked[Key, Value]) Get(key Key) (Value, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Get(key)
}

func (l *Locked[Key, Value]) Peek(key Key) (Value, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Peek(key)
}

func (l *Locked[Key, _]) Contains(key Key) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Contains(key)
}

// Load is [Cache.Load] with the lock held for the duration,
// including the call to fetch.
func (l *Locked[Key, Value]) Load(key Key, fetch func() (Value, error)) (Value, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Load(key, fetch)
}

func (l *Locked[_, _]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Clear()
}

func (l *Locked[_, _]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Len()
}

func (l *Locked[_, _]) Cap() int { return l.cache.Cap() }

// Keys returns an iterator over a snapshot of the cached keys.
func (l *Locked[Key, _]) Keys() iter.Seq[Key] {
	l.mu.Lock()
	keys := slices.Collect(l.cache.Keys())
	l.mu.Unlock()
	return slices.Values(keys)
}
