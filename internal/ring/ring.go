// Package ring is a fixed-length circular buffer of cache slots
// with a persistent hand, for use in CLOCK.
package ring

import "iter"

type (
	// A Ring is a contiguous, preallocated sequence of slots
	// addressed by position. Positions wrap at [Ring.Len].
	// Callers refer to slots by position, never by retaining a
	// slot pointer across mutations, so a slot may be reused freely.
	Ring[Key comparable, Value any] struct {
		slots []Slot[Key, Value]
		hand  int
	}
	// Slot holds at most one live entry.
	Slot[Key comparable, Value any] struct {
		Value Value
		Metadata[Key]
	}
	// Metadata stores the CLOCK state of a slot.
	Metadata[Key comparable] struct {
		// Name is the key of the entry held by the slot.
		// Only meaningful while Occupied is true.
		Name Key
		// References counts accesses not yet consumed by a sweep.
		// A sweep passing an occupied slot with References > 0
		// decrements it instead of evicting the entry.
		References int
		// Occupied is true if the slot holds a live entry.
		Occupied bool
	}
)

// New creates a ring of n empty slots, with the hand at position 0.
func New[Key comparable, Value any](n int) *Ring[Key, Value] {
	if n <= 0 {
		return nil
	}
	return &Ring[Key, Value]{
		slots: make([]Slot[Key, Value], n),
	}
}

// Len returns the number of slots in the ring.
func (r *Ring[Key, Value]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.slots)
}

// Hand returns the position of the hand.
func (r *Ring[Key, Value]) Hand() int { return r.hand }

// At returns the slot at position.
// The pointer is only valid until the ring is next mutated by the caller.
func (r *Ring[Key, Value]) At(position int) *Slot[Key, Value] {
	return &r.slots[position]
}

// Current returns the slot under the hand.
func (r *Ring[Key, Value]) Current() *Slot[Key, Value] {
	return &r.slots[r.hand]
}

// Advance moves the hand forward by one position, wrapping to 0.
func (r *Ring[Key, Value]) Advance() {
	if r.hand++; r.hand == len(r.slots) {
		r.hand = 0
	}
}

// Seek moves the hand to position.
func (r *Ring[Key, Value]) Seek(position int) {
	r.hand = position
}

// Reset releases every slot and returns the hand to position 0.
func (r *Ring[Key, Value]) Reset() {
	for i := range r.slots {
		r.slots[i].Release()
	}
	r.hand = 0
}

// Iter yields every slot with its position, in position order.
// The behavior of Iter is undefined if the ring is mutated during iteration.
func (r *Ring[Key, Value]) Iter() iter.Seq2[int, *Slot[Key, Value]] {
	return func(yield func(int, *Slot[Key, Value]) bool) {
		if r == nil {
			return
		}
		for i := range r.slots {
			if !yield(i, &r.slots[i]) {
				return
			}
		}
	}
}

// Fill stores an entry in the slot, marking it occupied
// with the given reference count.
func (s *Slot[Key, Value]) Fill(key Key, value Value, references int) {
	s.Name = key
	s.Value = value
	s.References = references
	s.Occupied = true
}

// Release empties the slot.
// Key and value are zeroed so they may be collected.
func (s *Slot[Key, Value]) Release() {
	*s = Slot[Key, Value]{}
}
