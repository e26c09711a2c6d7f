package clock

// Interface is the minimal set of operations any cache must expose.
// Implementations are not required to be safe for concurrent use.
type Interface[Key comparable, Value any] interface {
	// Set stores value under key.
	Set(Key, Value)
	// Get returns the value stored under key,
	// or an error matching [ErrNotFound].
	Get(Key) (Value, error)
	// Contains reports whether key is stored.
	Contains(Key) bool
	// Clear removes every entry.
	Clear()
	// Len returns the number of stored entries.
	Len() int
}

var (
	_ Interface[int, int] = (*Cache[int, int])(nil)
	_ Interface[int, int] = (*Locked[int, int])(nil)
	_ Interface[int, int] = Nop[int, int]{}
)
