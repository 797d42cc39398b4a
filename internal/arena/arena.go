// Package arena implements a tick-scoped allocation tracker. The event
// buckets' pending-config and pending-restack structs are allocated from an
// Arena and become invalid once Reset is called. The raw event copies held
// in the map buckets are ordinary Go values and are not counted by Arena.
//
// Go's garbage collector already reclaims individual values; Arena does not
// attempt to replace it with manual byte-bump allocation (an idiomatic Go
// translation of a C arena is a scoping discipline, not a memory-layout
// trick). What Arena provides is the *contract*: every value handed out by
// Alloc is documented as invalid after the next Reset, and Arena is the only
// place that bookkeeping (allocation count, reset count, size hint) lives,
// so ingest and the bucket drain share one tick-lifetime signal.
package arena

// defaultInitBytes below is a size *hint* surfaced via SizeHint for callers
// that want to pre-size their own tick-scoped slices; Arena itself never
// allocates a raw byte buffer of this size, since Alloc returns typed
// values instead of carving bytes out of one.
const defaultInitBytes = 4 * 1024

// Arena tracks one tick's worth of transient allocations. The zero value is
// ready to use with the default 4 KiB size hint.
//
// Arena is not safe for concurrent use: the tick arena is exclusively owned
// by the ingest+drain sequence on a single thread.
type Arena struct {
	sizeHint int
	allocs   int
	resets   int
}

// NewWithCapacity creates an Arena with the given size hint. A non-positive
// hint falls back to the 4 KiB default.
func NewWithCapacity(sizeHint int) *Arena {
	if sizeHint <= 0 {
		sizeHint = defaultInitBytes
	}
	return &Arena{sizeHint: sizeHint}
}

// Alloc returns a zeroed *T logically owned by this tick. Callers must not
// retain the returned pointer past the next Reset.
func Alloc[T any](a *Arena) *T {
	a.allocs++
	return new(T)
}

// Reset invalidates every value previously returned by Alloc. This is a
// documented contract, not a memory-safety guarantee: Go has no mechanism to
// revoke a live pointer. Callers must not retain arena-allocated pointers
// past the Reset call.
func (a *Arena) Reset() {
	a.resets++
	a.allocs = 0
}

// Allocs returns the number of Alloc calls since the last Reset.
func (a *Arena) Allocs() int {
	return a.allocs
}

// Resets returns the total number of completed ticks (Reset calls).
func (a *Arena) Resets() int {
	return a.resets
}

// SizeHint returns the configured initial-size hint, unused by Arena itself
// but threaded through so callers can pre-size their own tick-scoped
// slices.
func (a *Arena) SizeHint() int {
	if a.sizeHint <= 0 {
		return defaultInitBytes
	}
	return a.sizeHint
}
