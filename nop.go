package clock

// Nop is an [Interface] that stores nothing.
// It is always empty; writes are discarded.
type Nop[Key comparable, Value any] struct{}

func (Nop[Key, Value]) Set(Key, Value) {}

func (Nop[Key, Value]) Get(Key) (Value, error) {
	var zero Value
	return zero, ErrNotFound
}

func (Nop[Key, _]) Contains(Key) bool { return false }

func (Nop[_, _]) Clear() {}

func (Nop[_, _]) Len() int { return 0 }
