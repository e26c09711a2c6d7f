package observe

import (
	"context"
	"iter"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/djdv/go-clock"
)

// Cache is a [clock.Cache] that records its activity as metrics.
// Like the cache it wraps, it is not safe for concurrent use.
type Cache[Key comparable, Value any] struct {
	cache       *clock.Cache[Key, Value]
	instruments *instruments
}

// New creates an instrumented cache. Metrics are tagged with name.
// If meter is nil, a no-op meter is used.
// Capacity and options are passed to [clock.NewWithEvict].
func New[Key comparable, Value any](
	name string, capacity int,
	meter metric.Meter, options ...clock.Option,
) (*Cache[Key, Value], error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("")
	}
	instruments, err := newInstruments(meter, name)
	if err != nil {
		return nil, err
	}
	onEvict := func(Key, Value) {
		instruments.evicted(context.Background())
	}
	cache, err := clock.NewWithEvict(capacity, onEvict, options...)
	if err != nil {
		return nil, err
	}
	return &Cache[Key, Value]{
		cache:       cache,
		instruments: instruments,
	}, nil
}

// Set stores value under key. A new key counts as an insertion;
// any entry evicted to make room counts as an eviction.
func (c *Cache[Key, Value]) Set(key Key, value Value) {
	inserting := !c.cache.Contains(key)
	c.cache.Set(key, value)
	if inserting {
		c.instruments.inserted(context.Background())
	}
}

// Get returns the value for key, counting a hit or a miss.
func (c *Cache[Key, Value]) Get(key Key) (Value, error) {
	value, err := c.cache.Get(key)
	c.instruments.lookup(context.Background(), err == nil)
	return value, err
}

// Contains reports whether key is cached. It is not counted.
func (c *Cache[Key, _]) Contains(key Key) bool {
	return c.cache.Contains(key)
}

// Load is [clock.Cache.Load], counting the lookup
// and any insertion it makes.
func (c *Cache[Key, Value]) Load(key Key, fetch func() (Value, error)) (Value, error) {
	if value, err := c.Get(key); err == nil {
		return value, nil
	}
	value, err := fetch()
	if err != nil {
		return value, err
	}
	c.Set(key, value)
	return value, nil
}

// Clear removes every entry. Cleared entries are not counted as evictions.
func (c *Cache[_, _]) Clear() {
	dropped := c.cache.Len()
	c.cache.Clear()
	c.instruments.cleared(context.Background(), dropped)
}

func (c *Cache[_, _]) Len() int { return c.cache.Len() }

func (c *Cache[_, _]) Cap() int { return c.cache.Cap() }

func (c *Cache[Key, _]) Keys() iter.Seq[Key] { return c.cache.Keys() }

var _ clock.Interface[string, int] = (*Cache[string, int])(nil)
