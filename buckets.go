package wmcore

import (
	"wmcore/internal/arena"
	"wmcore/internal/xevent"
)

// PendingConfig accumulates mask-union configure-request state for one
// window across a tick.
type PendingConfig struct {
	Mask        xevent.ConfigMask
	X, Y        int16
	Width       uint16
	Height      uint16
	BorderWidth uint16
	Sibling     uint32
}

// PendingRestack carries the stacking-relevant subset of one configure
// request; never merged, one record per original event.
type PendingRestack struct {
	Window    uint32
	Mask      xevent.ConfigMask
	StackMode uint8
	Sibling   uint32
}

// Buckets holds one tick's coalesced events, one sub-container per policy
// class.
type Buckets struct {
	// FIFO (append, no coalescing).
	MapRequests     []xevent.Event
	UnmapNotifies   []xevent.Event
	DestroyNotifies []xevent.Event
	KeyPresses      []xevent.Event
	ButtonEvents    []xevent.Event
	ClientMessages  []xevent.Event
	PointerEvents   []xevent.Event // EnterNotify/LeaveNotify
	RestackRequests []*PendingRestack
	PropertyFIFO    []xevent.Event

	// Map/LWW keyed by window (or packed (window,atom) for PropertyLWW).
	ExposeRegions     map[uint32]*ExposeRect
	ConfigureRequests map[uint32]*PendingConfig
	ConfigureNotifies map[uint32]*xevent.Event
	DestroyedWindows  map[uint32]*xevent.Event
	MotionNotifies    map[uint32]*xevent.Event
	PropertyLWW       map[uint64]*xevent.Event

	RandRDirty  bool
	RandRWidth  uint16
	RandRHeight uint16

	Ingested  int
	Coalesced int
}

// ExposeRect is the bounding rectangle accumulated for one window's Expose
// events within a tick.
type ExposeRect struct {
	X, Y, Width, Height int16
}

// NewBuckets creates an empty Buckets with its maps initialized.
func NewBuckets() *Buckets {
	return &Buckets{
		ExposeRegions:     make(map[uint32]*ExposeRect),
		ConfigureRequests: make(map[uint32]*PendingConfig),
		ConfigureNotifies: make(map[uint32]*xevent.Event),
		DestroyedWindows:  make(map[uint32]*xevent.Event),
		MotionNotifies:    make(map[uint32]*xevent.Event),
		PropertyLWW:       make(map[uint64]*xevent.Event),
	}
}

// Reset clears every sub-container and the tick counters, and resets the
// tick arena. Callers must finish reading every bucket before calling
// Reset; arena-allocated pointers handed out this tick become invalid once
// Reset returns.
func (b *Buckets) Reset(a *arena.Arena) {
	b.MapRequests = b.MapRequests[:0]
	b.UnmapNotifies = b.UnmapNotifies[:0]
	b.DestroyNotifies = b.DestroyNotifies[:0]
	b.KeyPresses = b.KeyPresses[:0]
	b.ButtonEvents = b.ButtonEvents[:0]
	b.ClientMessages = b.ClientMessages[:0]
	b.PointerEvents = b.PointerEvents[:0]
	b.RestackRequests = b.RestackRequests[:0]
	b.PropertyFIFO = b.PropertyFIFO[:0]

	clear(b.ExposeRegions)
	clear(b.ConfigureRequests)
	clear(b.ConfigureNotifies)
	clear(b.DestroyedWindows)
	clear(b.MotionNotifies)
	clear(b.PropertyLWW)

	b.RandRDirty = false
	b.RandRWidth = 0
	b.RandRHeight = 0
	b.Ingested = 0
	b.Coalesced = 0

	a.Reset()
}
