package wmcore

import "wmcore/internal/slotmap"

// ClientState enumerates a managed window's lifecycle state.
type ClientState uint8

const (
	StateUnmanaged ClientState = iota
	StateMapped
	StateWithdrawn
	StateIconic
	StateDestroyed
)

// ClientHot holds the fields touched on every tick: identity, state,
// stacking, colormaps, and transient linkage. It has no focus-list linkage;
// focus order is kept in Registry's focus MRU. Kept separate from ClientCold
// so the common per-tick read/write path stays small and cache-friendly.
type ClientHot struct {
	Self          slotmap.Handle
	Xid           uint32
	Frame         uint32
	State         ClientState
	Layer         int
	Index         int // stacking index within Layer, -1 when not yet placed
	Colormap      uint32
	FrameColormap uint32 // 0 when the frame owns no colormap of its own

	TransientFor slotmap.Handle // zero handle if not a transient window
}

// ClientCold holds rarely-touched fields: interned string-ish data and the
// colormap-windows list, which deliberately stores raw window ids rather
// than handles to avoid strong back-references into the registry.
type ClientCold struct {
	CanFocus        bool
	ColormapWindows []uint32
	WindowName      string
}
