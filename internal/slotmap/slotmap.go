package slotmap

// slot holds the bookkeeping plus hot/cold payload for one table entry.
// Dead slots are not chained through their own records; their indices are
// kept in the Slotmap's separate freelist slice.
type slot[Hot, Cold any] struct {
	generation uint32
	live       bool
	hot        Hot
	cold       Cold
}

// Slotmap is a generational slotmap over a pair of per-slot record types:
// Hot for fields touched every tick, Cold for rarely-touched fields and
// string-heavy storage. Index 0 is reserved as the sentinel slot and is
// never allocated. Slotmap is not safe for concurrent use; the ingestion
// core runs single-threaded.
type Slotmap[Hot, Cold any] struct {
	slots        []slot[Hot, Cold]
	freelist     []uint32 // indices of dead slots available for reuse
	nextSequence uint32   // not read by Alloc or Free
}

// New creates a Slotmap with room for at least initialCapacity live slots
// (plus the reserved sentinel at index 0).
func New[Hot, Cold any](initialCapacity int) *Slotmap[Hot, Cold] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	sm := &Slotmap[Hot, Cold]{
		slots: make([]slot[Hot, Cold], 1, initialCapacity+1),
	}
	return sm
}

// Alloc reserves a slot, returning its Handle and pointers to the zeroed hot
// and cold records for the caller to populate in place.
func (sm *Slotmap[Hot, Cold]) Alloc() (Handle, *Hot, *Cold) {
	var index uint32
	if n := len(sm.freelist); n > 0 {
		index = sm.freelist[n-1]
		sm.freelist = sm.freelist[:n-1]
	} else {
		sm.growBy(1)
		index = uint32(len(sm.slots) - 1)
	}
	s := &sm.slots[index]
	var zeroHot Hot
	var zeroCold Cold
	s.hot = zeroHot
	s.cold = zeroCold
	s.live = true
	return makeHandle(index, s.generation), &s.hot, &s.cold
}

// growBy doubles capacity (amortized) to make room for at least n more
// slots, preserving existing indices so outstanding handles stay valid.
func (sm *Slotmap[Hot, Cold]) growBy(n int) {
	need := len(sm.slots) + n
	newCap := cap(sm.slots)
	if newCap == 0 {
		newCap = 2
	}
	for newCap < need {
		newCap *= 2
	}
	if newCap > cap(sm.slots) {
		grown := make([]slot[Hot, Cold], len(sm.slots), newCap)
		copy(grown, sm.slots)
		sm.slots = grown
	}
	sm.slots = sm.slots[:need]
}

// Free marks h's slot dead and bumps its generation, invalidating every
// handle previously issued for that slot. Freeing an already-dead or
// out-of-range handle is a no-op.
func (sm *Slotmap[Hot, Cold]) Free(h Handle) {
	idx := h.Index()
	if idx == 0 || int(idx) >= len(sm.slots) {
		return
	}
	s := &sm.slots[idx]
	if !s.live || s.generation != h.Generation() {
		return
	}
	s.live = false
	s.generation++
	var zeroHot Hot
	var zeroCold Cold
	s.hot = zeroHot
	s.cold = zeroCold
	sm.freelist = append(sm.freelist, idx)
}

// Resolve returns pointers to h's hot and cold records if h is live: its
// slot's generation matches and the slot is marked live. Otherwise ok is
// false and the returned pointers are nil.
func (sm *Slotmap[Hot, Cold]) Resolve(h Handle) (hot *Hot, cold *Cold, ok bool) {
	idx := h.Index()
	if idx == 0 || int(idx) >= len(sm.slots) {
		return nil, nil, false
	}
	s := &sm.slots[idx]
	if !s.live || s.generation != h.Generation() {
		return nil, nil, false
	}
	return &s.hot, &s.cold, true
}

// Len reports the number of currently live slots.
func (sm *Slotmap[Hot, Cold]) Len() int {
	return len(sm.slots) - 1 - len(sm.freelist)
}

// Each calls fn for every live handle, in slot order. fn must not call
// Alloc or Free on sm.
func (sm *Slotmap[Hot, Cold]) Each(fn func(h Handle, hot *Hot, cold *Cold)) {
	for i := 1; i < len(sm.slots); i++ {
		s := &sm.slots[i]
		if s.live {
			fn(makeHandle(uint32(i), s.generation), &s.hot, &s.cold)
		}
	}
}
