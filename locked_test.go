package clock_test

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/djdv/go-clock"
)

func TestLocked(t *testing.T) {
	t.Run("invalid capacity", func(t *testing.T) {
		t.Parallel()
		cache, err := clock.NewLocked[int, int](0)
		if cache != nil || !errors.Is(err, clock.ErrInvalidCapacity) {
			t.Fatalf("expected ErrInvalidCapacity, got %v", err)
		}
	})
	t.Run("behaves like cache", func(t *testing.T) {
		t.Parallel()
		const capacity = 3
		locked, err := clock.NewLocked[int, int](capacity)
		if err != nil {
			t.Fatal(err)
		}
		var cache testCache[int, int] = locked
		addIncrementingInts(cache, capacity)
		mustGet(t, cache, 1)
		cache.Set(4, 4)
		keysMatch(t, cache, []int{1, 2, 4}, "after eviction")
		if value, ok := cache.Peek(4); !ok || value != 4 {
			t.Fatalf("expected Peek(4) to return 4, got %d %t", value, ok)
		}
		got, err := locked.Load(5, func() (int, error) { return 5, nil })
		if err != nil || got != 5 {
			t.Fatalf("Load returned %d, %v", got, err)
		}
		checkSize(t, cache, capacity, "after load")
		if locked.Cap() != capacity {
			t.Fatalf("expected capacity %d, got %d", capacity, cache.Cap())
		}
		cache.Clear()
		checkSize(t, cache, 0, "after clear")
	})
	t.Run("concurrent access", concurrentAccess)
}

func concurrentAccess(t *testing.T) {
	t.Parallel()
	const (
		capacity   = 64
		goroutines = 16
		operations = 1000
		universe   = capacity * 2
	)
	cache, err := clock.NewLocked[int, int](capacity, clock.WithReferenceLimit(3))
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Go(func() {
			for i := range operations {
				key := (g*operations + i) % universe
				switch i % 4 {
				case 0, 1:
					cache.Set(key, key)
				case 2:
					if value, err := cache.Get(key); err == nil && value != key {
						t.Errorf("Get(%d) = %d", key, value)
					}
				default:
					cache.Contains(key)
					_ = slices.Collect(cache.Keys())
				}
			}
		})
	}
	wg.Wait()
	if size := cache.Len(); size > capacity {
		t.Fatalf("size %d exceeds capacity %d", size, capacity)
	}
}
