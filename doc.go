// Package clock implements a fixed-capacity [Cache] using the CLOCK
// (second chance) replacement algorithm.
//
// CLOCK approximates LRU without reordering anything on a hit.
// Entries live in a circular buffer of slots; a hand sweeps the buffer
// when room is needed and evicts the first entry that has not been
// referenced since the hand last passed it.
//
// The following is a summary intended for maintainers.
//
// Glossary and invariants:
//
//   - Slot
//
//     A fixed buffer position holding at most one live entry.
//     The buffer is allocated once, by [New], and never resized.
//
//   - Index
//
//     Maps each cached key to the position of its slot.
//     A key is indexed iff its slot is occupied and named by that key.
//     Positions are plain integers so slots may be reused after eviction
//     without invalidating anything.
//
//   - References
//
//     Per-slot access count. Starts at 1 on insertion,
//     incremented on every hit ([Cache.Get], or [Cache.Set] of a cached key),
//     decremented each time the hand passes the slot without evicting it.
//     [Cache.Contains] and [Cache.Peek] do not count as hits.
//
//   - Hand
//
//     Position where the next sweep or free slot search resumes.
//     Persisted across calls; only [Cache.Clear] resets it.
//
// Operations:
//
//   - Eviction
//
//     Runs only when inserting a new key into a full cache.
//     Starting at the hand: an occupied slot with references left gives up
//     one of them (its "second chance") and the hand moves on;
//     the first slot with none left is the victim.
//     The victim is removed and the hand stays on its slot.
//
//   - Free slot search
//
//     Moves the hand forward (wrapping once at most) to the first
//     unoccupied slot, where the new entry is stored.
//     Failing to find one means the size count is wrong;
//     this panics with [ErrInvariantViolation].
//
// Counts:
//
//   - 0 <= [Cache.Len] <= [Cache.Cap], and [MinimumCapacity] <= [Cache.Cap].
//
//   - Len == occupied slots == indexed keys.
//
// Unlike textbook CLOCK, references are a counter rather than a single bit
// (see [Unbounded] and [WithReferenceLimit]).
// A key hit many times may outlast many sweeps.
//
// Debug builds (-tags clock_debug) assert internal state during sweeps.
package clock
