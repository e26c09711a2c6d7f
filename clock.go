package clock

import (
	"iter"

	"github.com/djdv/go-clock/internal/ring"
)

type (
	slots[Key comparable, Value any] = ring.Ring[Key, Value]
	slot[Key comparable, Value any]  = ring.Slot[Key, Value]
	// Cache utilizes the CLOCK (second chance) replacement algorithm.
	// Concurrent access must be guarded by the caller (see [Locked]).
	// Constructed by [New] or [NewWithEvict].
	Cache[Key comparable, Value any] struct {
		buffer  *slots[Key, Value]
		index   map[Key]int
		onEvict func(Key, Value)
		size,
		referenceLimit int
	}
)

// MinimumCapacity defines the lowest value supported by [New].
const MinimumCapacity = 1

// New creates a [Cache] with the given capacity.
// Capacity must be at least [MinimumCapacity].
func New[Key comparable, Value any](capacity int, options ...Option) (*Cache[Key, Value], error) {
	return NewWithEvict[Key, Value](capacity, nil, options...)
}

// NewWithEvict is like [New] but calls onEvict with the key and value
// of every entry the cache evicts to make room for another.
// Entries dropped by [Cache.Clear] are not reported.
func NewWithEvict[Key comparable, Value any](
	capacity int, onEvict func(Key, Value), options ...Option,
) (*Cache[Key, Value], error) {
	if capacity < MinimumCapacity {
		return nil, minCapacityError(capacity)
	}
	settings, err := applyOptions(options)
	if err != nil {
		return nil, err
	}
	return &Cache[Key, Value]{
		buffer:         ring.New[Key, Value](capacity),
		index:          make(map[Key]int, capacity),
		onEvict:        onEvict,
		referenceLimit: settings.referenceLimit,
	}, nil
}

// Set inserts or updates key with value.
// Updating an existing key strengthens it like [Cache.Get] does.
// Inserting into a full cache evicts an entry first.
func (c *Cache[Key, Value]) Set(key Key, value Value) {
	if position, ok := c.index[key]; ok {
		slot := c.buffer.At(position)
		slot.Value = value
		c.reference(slot)
		return
	}
	if c.atCapacity() {
		c.evict()
	}
	const initialReferences = 1
	position := c.freeSlot()
	c.buffer.At(position).Fill(key, value, initialReferences)
	c.index[key] = position
	c.size++
}

// Get returns the value for key and strengthens it
// against eviction. If key is not cached,
// [ErrNotFound] is returned.
func (c *Cache[Key, Value]) Get(key Key) (Value, error) {
	position, ok := c.index[key]
	if !ok {
		var zero Value
		return zero, ErrNotFound
	}
	slot := c.buffer.At(position)
	c.reference(slot)
	return slot.Value, nil
}

// Peek returns the value for key (if cached)
// without strengthening it.
func (c *Cache[Key, Value]) Peek(key Key) (Value, bool) {
	if position, ok := c.index[key]; ok {
		return c.buffer.At(position).Value, true
	}
	var zero Value
	return zero, false
}

// Contains reports whether key is cached.
// It has no effect on eviction.
func (c *Cache[Key, _]) Contains(key Key) bool {
	_, ok := c.index[key]
	return ok
}

// Load returns the cached value for key (if present). Otherwise, it calls fetch,
// inserts and returns the value on success.
// If fetch returns an error, the value is not cached.
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

// Clear removes every entry and returns the hand to the first slot.
// The cache behaves as if newly constructed afterwards.
func (c *Cache[_, _]) Clear() {
	c.buffer.Reset()
	clear(c.index)
	c.size = 0
}

// Len returns the number of cached entries.
func (c *Cache[_, _]) Len() int { return c.size }

// Cap returns the maximum number of entries the cache holds.
func (c *Cache[_, _]) Cap() int { return c.buffer.Len() }

// Keys returns an iterator over the cached keys, in slot order.
func (c *Cache[Key, _]) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		remaining := c.size
		for _, slot := range c.buffer.Iter() {
			if remaining == 0 {
				return
			}
			if !slot.Occupied {
				continue
			}
			if !yield(slot.Name) {
				return
			}
			remaining--
		}
	}
}

func (c *Cache[_, _]) atCapacity() bool {
	return c.size == c.buffer.Len()
}

// reference records a hit, up to the reference limit (if any).
func (c *Cache[Key, Value]) reference(slot *slot[Key, Value]) {
	if limit := c.referenceLimit; limit != Unbounded &&
		slot.References >= limit {
		return
	}
	slot.References++
}

// evict sweeps from the hand, giving each referenced entry
// a second chance by consuming one of its references,
// until it reaches an entry with none left. That entry is removed
// and the hand is left on its (now free) slot.
//
// Each full pass lowers the sum of all references,
// so the sweep ends within (max references + 1) passes.
func (c *Cache[Key, Value]) evict() {
	for {
		slot := c.buffer.Current()
		if debugging {
			assert(slot.Occupied,
				"sweep found a free slot in a full cache")
		}
		switch {
		case !slot.Occupied:
		case slot.References > 0:
			slot.References--
		default:
			c.remove(slot)
			return
		}
		c.buffer.Advance()
	}
}

func (c *Cache[Key, Value]) remove(victim *slot[Key, Value]) {
	var (
		key   = victim.Name
		value = victim.Value
	)
	delete(c.index, key)
	victim.Release()
	c.size--
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}

// freeSlot moves the hand forward to the first unoccupied slot
// (wrapping at most once) and returns its position.
// Finding none means the size count disagrees with the buffer.
func (c *Cache[_, _]) freeSlot() int {
	start := c.buffer.Hand()
	for {
		if !c.buffer.Current().Occupied {
			return c.buffer.Hand()
		}
		if c.buffer.Advance(); c.buffer.Hand() == start {
			break
		}
	}
	panic(noFreeSlotError(c.size, c.buffer.Len()))
}
