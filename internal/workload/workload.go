// Package workload generates reproducible key access sequences
// and replays them against caches to measure hit rates.
package workload

import (
	"fmt"
	"math/bits"
	"math/rand"
	"slices"
)

type (
	// Cache is the subset of cache behaviour a replay needs.
	Cache interface {
		Get(int) (int, bool)
		Set(int, int)
	}
	// Generator produces an access sequence sized for capacity.
	// Sequence lengths are always a power of two.
	Generator = func(capacity int) []int
	// Pattern is a named [Generator].
	Pattern struct {
		Name     string
		Generate Generator
	}
	// Result counts the outcome of a replay.
	Result struct {
		Hits, Misses int64
	}
)

// DefaultSeed is the RNG seed used when none is provided.
const DefaultSeed = 1

// Patterns returns the standard access patterns,
// each with sequence length of at least length
// and randomness seeded by seed.
func Patterns(length int, seed int64) []Pattern {
	return []Pattern{
		{
			"sequential",
			func(int) []int {
				const universe = 1 << 16 // Key space large enough to force misses.
				return Sequential(universe, length)
			},
		},
		{
			"loop",
			func(capacity int) []int {
				const (
					universe = 8192 // Moderately larger than capacity.
					hotRatio = 0.9  // 90% of accesses hit hot set.
				)
				return Looping(NewRNG(seed), capacity, universe, length, hotRatio)
			},
		},
		{
			"zipf",
			func(int) []int {
				const (
					universe = 16384 // Large enough to show skew.
					skew     = 1.2
					bias     = 1.0
				)
				return Zipf(NewRNG(seed), universe, length, skew, bias)
			},
		},
		{
			"uniform",
			func(capacity int) []int {
				upperBound := capacity * 4 // Universe bigger than capacity.
				return Uniform(NewRNG(seed), upperBound, length)
			},
		},
	}
}

// Lookup returns the pattern with the given name.
func Lookup(name string, length int, seed int64) (Pattern, error) {
	patterns := Patterns(length, seed)
	index := slices.IndexFunc(patterns, func(p Pattern) bool {
		return p.Name == name
	})
	if index == -1 {
		return Pattern{}, fmt.Errorf("unknown pattern %q", name)
	}
	return patterns[index], nil
}

// Sequential cycles through keys [0, universe).
func Sequential(universe, length int) []int {
	seq := make([]int, NextPow2(length))
	for i := range seq {
		seq[i] = i % universe
	}
	return seq
}

// Looping draws from a hot set the size of capacity
// with probability hotRatio, and from the rest of universe otherwise.
func Looping(rng *rand.Rand, capacity, universe, length int, hotRatio float64) []int {
	var (
		seq      = make([]int, NextPow2(length))
		hotSize  = max(1, capacity)
		coldSize = max(1, universe-hotSize)
	)
	for i := range seq {
		if rng.Float64() < hotRatio {
			seq[i] = rng.Intn(hotSize)
		} else {
			seq[i] = hotSize + rng.Intn(coldSize)
		}
	}
	return seq
}

// Zipf draws keys from [0, universe) with a Zipfian distribution.
func Zipf(rng *rand.Rand, universe, length int, skew, bias float64) []int {
	var (
		seq  = make([]int, NextPow2(length))
		imax = uint64(max(universe, 2) - 1)
		zipf = rand.NewZipf(rng, skew, bias, imax)
	)
	for i := range seq {
		seq[i] = int(zipf.Uint64())
	}
	return seq
}

// Uniform draws keys uniformly from [0, upperBound).
func Uniform(rng *rand.Rand, upperBound, length int) []int {
	seq := make([]int, NextPow2(length))
	for i := range seq {
		seq[i] = rng.Intn(upperBound)
	}
	return seq
}

// Replay accesses every key of sequence in order,
// setting key to itself on a miss.
func Replay(cache Cache, sequence []int) Result {
	var result Result
	for _, key := range sequence {
		if _, ok := cache.Get(key); ok {
			result.Hits++
			continue
		}
		result.Misses++
		cache.Set(key, key)
	}
	return result
}

// HitRate returns hits as a percentage of all accesses.
func (r Result) HitRate() float64 {
	total := r.Hits + r.Misses
	if total == 0 {
		return 0
	}
	return float64(r.Hits) / float64(total) * 100.0
}

// NextPow2 returns the smallest power of two >= x (and at least 1).
func NextPow2(x int) int {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(x)-1)
}

// NewRNG returns a deterministic source for seed.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
