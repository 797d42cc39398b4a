// Package u64vec implements a small-buffer-optimized sequence of uint64
// values, used by the registry's per-layer stacking lists to store handles
// without per-push heap allocation in the common case.
package u64vec

// inlineCap is the number of elements stored inline before Vec spills to a
// heap-backed slice.
const inlineCap = 8

// Vec is a growable sequence of uint64 values. The zero value is ready to
// use. Vec is not safe for concurrent use.
type Vec struct {
	inline [inlineCap]uint64
	spill  []uint64 // nil until the vector outgrows inline; authoritative once set
	length int
}

// Len reports the number of elements currently stored.
func (v *Vec) Len() int {
	return v.length
}

// Clear empties the vector without releasing spilled backing storage, so a
// Vec reused across ticks doesn't repeatedly reallocate.
func (v *Vec) Clear() {
	v.length = 0
	if v.spill != nil {
		v.spill = v.spill[:0]
	}
}

// Reserve ensures capacity for at least n elements, spilling to a heap slice
// if n exceeds the inline capacity. Grow factor 2.
func (v *Vec) Reserve(n int) {
	if n <= inlineCap && v.spill == nil {
		return
	}
	if cap(v.spill) >= n {
		return
	}
	newCap := inlineCap * 2
	if cap(v.spill) > newCap {
		newCap = cap(v.spill)
	}
	for newCap < n {
		newCap *= 2
	}
	grown := make([]uint64, v.length, newCap)
	copy(grown, v.activeSlice())
	v.spill = grown
}

// Push appends x, growing the backing storage (doubling) if needed.
//
// Once length exceeds the inline capacity, Vec holds its elements in a
// separate heap slice that a later Push may reallocate. Get returns elements
// by value, so nothing obtained from Get refers to that storage.
func (v *Vec) Push(x uint64) {
	if v.spill == nil && v.length < inlineCap {
		v.inline[v.length] = x
		v.length++
		return
	}
	if v.spill == nil {
		v.spill = make([]uint64, 0, inlineCap*2)
		v.spill = append(v.spill, v.inline[:v.length]...)
	}
	v.spill = append(v.spill, x)
	v.length++
}

// Get returns the element at idx. It panics on out-of-range idx, matching
// ordinary Go slice semantics.
func (v *Vec) Get(idx int) uint64 {
	if v.spill != nil {
		return v.spill[idx]
	}
	return v.inline[idx]
}

// activeSlice returns the currently active backing storage as a slice, for
// internal copy and iteration helpers.
func (v *Vec) activeSlice() []uint64 {
	if v.spill != nil {
		return v.spill[:v.length]
	}
	return v.inline[:v.length]
}

// Each calls fn for every element in insertion order.
func (v *Vec) Each(fn func(x uint64)) {
	for _, x := range v.activeSlice() {
		fn(x)
	}
}
