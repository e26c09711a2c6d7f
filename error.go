package clock

import "fmt"

type constError string

const (
	// ErrInvalidCapacity may be returned from [New].
	ErrInvalidCapacity = constError("invalid capacity")
	// ErrInvalidReferenceLimit may be returned from [New]
	// when given a bad [WithReferenceLimit] option.
	ErrInvalidReferenceLimit = constError("invalid reference limit")
	// ErrNotFound is returned by Get when the key is not cached.
	ErrNotFound = constError("key not found")
	// ErrInvariantViolation is the panic value (wrapped) raised when the
	// cache detects its own bookkeeping is inconsistent.
	// It indicates a defect and is not recoverable.
	ErrInvariantViolation = constError("cache invariant violated")
)

func (errStr constError) Error() string { return string(errStr) }

func minCapacityError(capacity int) error {
	return fmt.Errorf(
		"%w: must be >=%d but %d was requested",
		ErrInvalidCapacity, MinimumCapacity, capacity)
}

func referenceLimitError(limit int) error {
	return fmt.Errorf(
		"%w: must be >=%d but %d was requested",
		ErrInvalidReferenceLimit, Unbounded, limit)
}

func noFreeSlotError(size, capacity int) error {
	return fmt.Errorf(
		"%w: no free slot with %d of %d slots in use",
		ErrInvariantViolation, size, capacity)
}
