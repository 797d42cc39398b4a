// Package u64map implements an open-addressed uint64→uint64 hash map with
// linear probing and tombstone deletes. It backs the client registry's
// window→handle and frame→handle lookups without incurring a per-entry
// allocation. The event buckets use Go's built-in maps, not this type.
package u64map

const (
	initialCapacity = 16
	maxLoad         = 0.75
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type entry struct {
	key   uint64
	value uint64
	hash  uint32
	state slotState
}

// Map is an open-addressed uint64→uint64 map. The zero value is ready to
// use. Map is not safe for concurrent use.
type Map struct {
	entries []entry
	size    int // occupied, excludes tombstones
	filled  int // occupied + tombstones, drives rehash threshold
}

func fmix64(k uint64) uint32 {
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	k *= 0xc4ceb9fe1a85ec53
	k ^= k >> 33
	return uint32(k)
}

func (m *Map) ensureInit() {
	if m.entries == nil {
		m.entries = make([]entry, initialCapacity)
	}
}

// Size reports the number of live key-value pairs.
func (m *Map) Size() int {
	return m.size
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key uint64) (uint64, bool) {
	if m.entries == nil {
		return 0, false
	}
	idx, found := m.find(key)
	if !found {
		return 0, false
	}
	return m.entries[idx].value, true
}

// Insert adds or updates the value for key.
func (m *Map) Insert(key, value uint64) {
	m.ensureInit()
	if float64(m.filled+1) > maxLoad*float64(len(m.entries)) {
		m.rehash(len(m.entries) * 2)
	}
	h := fmix64(key)
	mask := uint32(len(m.entries) - 1)
	i := h & mask
	firstTombstone := int(-1)
	for {
		e := &m.entries[i]
		switch e.state {
		case slotEmpty:
			target := int(i)
			if firstTombstone >= 0 {
				target = firstTombstone
			}
			m.entries[target] = entry{key: key, value: value, hash: h, state: slotOccupied}
			m.size++
			if firstTombstone < 0 {
				m.filled++
			}
			return
		case slotTombstone:
			if firstTombstone < 0 {
				firstTombstone = int(i)
			}
		case slotOccupied:
			if e.hash == h && e.key == key {
				e.value = value
				return
			}
		}
		i = (i + 1) & mask
	}
}

// Remove deletes key, reporting whether it was present.
func (m *Map) Remove(key uint64) bool {
	if m.entries == nil {
		return false
	}
	idx, found := m.find(key)
	if !found {
		return false
	}
	m.entries[idx].state = slotTombstone
	m.entries[idx].value = 0
	m.size--
	return true
}

func (m *Map) find(key uint64) (uint32, bool) {
	h := fmix64(key)
	mask := uint32(len(m.entries) - 1)
	i := h & mask
	for start := i; ; {
		e := &m.entries[i]
		switch e.state {
		case slotEmpty:
			return 0, false
		case slotOccupied:
			if e.hash == h && e.key == key {
				return i, true
			}
		}
		i = (i + 1) & mask
		if i == start {
			return 0, false
		}
	}
}

func (m *Map) rehash(newCap int) {
	old := m.entries
	m.entries = make([]entry, newCap)
	m.size = 0
	m.filled = 0
	for _, e := range old {
		if e.state == slotOccupied {
			m.Insert(e.key, e.value)
		}
	}
}
