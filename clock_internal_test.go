package clock

import (
	"errors"
	"math/rand"
	"testing"
)

// checkInvariants verifies the index and buffer agree.
func checkInvariants[Key comparable, Value any](tb testing.TB, c *Cache[Key, Value]) {
	tb.Helper()
	if c.size < 0 || c.size > c.Cap() {
		tb.Fatalf("size %d out of range [0, %d]", c.size, c.Cap())
	}
	if hand := c.buffer.Hand(); hand < 0 || hand >= c.Cap() {
		tb.Fatalf("hand %d out of range [0, %d)", hand, c.Cap())
	}
	if len(c.index) != c.size {
		tb.Fatalf("index holds %d keys but size is %d", len(c.index), c.size)
	}
	var occupied int
	for _, slot := range c.buffer.Iter() {
		if slot.References < 0 {
			tb.Fatalf("slot %v has negative references", slot.Name)
		}
		if slot.Occupied {
			occupied++
		}
	}
	if occupied != c.size {
		tb.Fatalf("%d occupied slots but size is %d", occupied, c.size)
	}
	for key, position := range c.index {
		slot := c.buffer.At(position)
		if !slot.Occupied || slot.Name != key {
			tb.Fatalf("key %v indexed at slot %d holding (%v, occupied: %t)",
				key, position, slot.Name, slot.Occupied)
		}
	}
}

func TestInvariantsUnderRandomOperations(t *testing.T) {
	t.Parallel()
	for _, test := range []struct {
		name     string
		capacity int
		options  []Option
	}{
		{"single slot", 1, nil},
		{"unbounded", 8, nil},
		{"single bit", 8, []Option{WithReferenceLimit(1)}},
		{"limit 3", 16, []Option{WithReferenceLimit(3)}},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			const (
				operations = 4096
				universe   = 32
			)
			cache, err := New[int, int](test.capacity, test.options...)
			if err != nil {
				t.Fatal(err)
			}
			rng := rand.New(rand.NewSource(1))
			for i := range operations {
				key := rng.Intn(universe)
				switch op := rng.Intn(16); {
				case op < 8:
					cache.Set(key, key)
					value, err := cache.Get(key)
					if err != nil || value != key {
						t.Fatalf("Get(%d) after Set = %d, %v", key, value, err)
					}
				case op < 14:
					value, err := cache.Get(key)
					if err == nil && value != key {
						t.Fatalf("Get(%d) = %d", key, value)
					}
					if (err == nil) != cache.Contains(key) {
						t.Fatalf("Get and Contains disagree on %d", key)
					}
				case op < 15:
					cache.Contains(key)
				default:
					if i%7 == 0 {
						cache.Clear()
					}
				}
				checkInvariants(t, cache)
			}
		})
	}
}

func TestHandRestsOnVictim(t *testing.T) {
	t.Parallel()
	const capacity = 3
	cache, err := New[int, int](capacity)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= capacity; i++ {
		cache.Set(i, i*10)
	}
	if _, err := cache.Get(1); err != nil {
		t.Fatal(err)
	}
	// The sweep passes 3, 1 and 2, then stops on the slot of 3 (position 2).
	cache.Set(4, 40)
	const victimSlot = 2
	if hand := cache.buffer.Hand(); hand != victimSlot {
		t.Fatalf("expected hand on victim slot %d, got %d", victimSlot, hand)
	}
	slot := cache.buffer.At(victimSlot)
	if slot.Name != 4 || slot.References != 1 {
		t.Fatalf("expected key 4 with 1 reference in slot %d, got %v with %d",
			victimSlot, slot.Name, slot.References)
	}
	wantReferences := map[int]int{1: 1, 2: 0}
	for key, want := range wantReferences {
		if got := cache.buffer.At(cache.index[key]).References; got != want {
			t.Errorf("key %d has %d references, want %d", key, got, want)
		}
	}
	checkInvariants(t, cache)
}

func TestClearResetsHand(t *testing.T) {
	t.Parallel()
	const capacity = 4
	cache, err := New[string, int](capacity)
	if err != nil {
		t.Fatal(err)
	}
	for i, key := range []string{"a", "b", "c", "d", "e", "f"} {
		cache.Set(key, i)
	}
	cache.Clear()
	checkInvariants(t, cache)
	if hand := cache.buffer.Hand(); hand != 0 {
		t.Fatalf("expected hand reset to 0, got %d", hand)
	}
	for _, slot := range cache.buffer.Iter() {
		if slot.Occupied || slot.References != 0 || slot.Name != "" {
			t.Fatalf("slot not released by Clear: %+v", *slot)
		}
	}
	cache.Set("g", 7)
	if position := cache.index["g"]; position != 0 {
		t.Fatalf("expected first insert after clear in slot 0, got %d", position)
	}
}

func TestSweepDrainsSkewedReferences(t *testing.T) {
	t.Parallel()
	const (
		capacity = 4
		hits     = 100
	)
	cache, err := New[int, int](capacity)
	if err != nil {
		t.Fatal(err)
	}
	for i := range capacity {
		cache.Set(i, i)
	}
	for key := range capacity {
		for range hits {
			if _, err := cache.Get(key); err != nil {
				t.Fatal(err)
			}
		}
	}
	// Every entry must be drained completely before anything is evicted.
	cache.Set(capacity, capacity)
	checkInvariants(t, cache)
	if cache.Len() != capacity || !cache.Contains(capacity) {
		t.Fatalf("insertion into skewed cache failed: len %d", cache.Len())
	}
}

func TestReferenceLimit(t *testing.T) {
	t.Parallel()
	const limit = 2
	cache, err := New[int, int](2, WithReferenceLimit(limit))
	if err != nil {
		t.Fatal(err)
	}
	cache.Set(1, 1)
	for range 10 {
		cache.Set(1, 1)
		if _, err := cache.Get(1); err != nil {
			t.Fatal(err)
		}
	}
	if got := cache.buffer.At(cache.index[1]).References; got != limit {
		t.Fatalf("expected references clamped to %d, got %d", limit, got)
	}
}

func TestFreeSlotExhaustionPanics(t *testing.T) {
	t.Parallel()
	const capacity = 2
	cache, err := New[int, int](capacity)
	if err != nil {
		t.Fatal(err)
	}
	cache.Set(1, 1)
	cache.Set(2, 2)
	cache.size-- // Corrupt the count so Set skips eviction.
	defer func() {
		recovered := recover()
		err, ok := recovered.(error)
		if !ok || !errors.Is(err, ErrInvariantViolation) {
			t.Fatalf("expected panic with ErrInvariantViolation, got: %v", recovered)
		}
	}()
	cache.Set(3, 3)
	t.Fatal("Set did not panic on a buffer with no free slots")
}
