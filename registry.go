package wmcore

import (
	"log/slog"

	"wmcore/internal/cookiejar"
	"wmcore/internal/slotmap"
	"wmcore/internal/u64map"
	"wmcore/internal/u64vec"
)

// LayerCount bounds the stacking-layer handle lists.
const LayerCount = 4

// Registry is the stable-handle client registry layered on the slotmap:
// window-id and frame-id lookup maps, a cookie jar for deferred frees,
// per-layer stacking lists, and focus-MRU bookkeeping.
type Registry struct {
	clients *slotmap.Slotmap[ClientHot, ClientCold]

	windowToClient u64map.Map // xid -> handle
	frameToClient  u64map.Map // frame -> handle

	cookies *cookiejar.Jar
	layers  [LayerCount]u64vec.Vec

	// focusMRU holds live handles, most-recently-focused first. Rebuilt
	// lazily rather than kept as an intrusive linked list in ClientHot: at
	// the handle counts one tick deals with, a slice-backed MRU with O(n)
	// Touch is simpler and plenty fast.
	focusMRU []slotmap.Handle

	// pendingFree holds DESTROYED clients whose cookies haven't all
	// resolved yet; checked once per tick by SweepPendingFree.
	pendingFree []slotmap.Handle
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: slotmap.New[ClientHot, ClientCold](64),
		cookies: cookiejar.New(),
	}
}

// Register allocates a client slot for a newly seen top-level window and
// inserts it into both lookup maps.
func (r *Registry) Register(xid, frame uint32) slotmap.Handle {
	h, hot, cold := r.clients.Alloc()
	hot.Self = h
	hot.Xid = xid
	hot.Frame = frame
	hot.State = StateUnmanaged
	hot.Layer = -1
	hot.Index = -1
	cold.CanFocus = false

	r.windowToClient.Insert(uint64(xid), uint64(h))
	if frame != 0 {
		r.frameToClient.Insert(uint64(frame), uint64(h))
	}
	slog.Debug("[DEBUG-REGISTRY] registered client", "xid", xid, "frame", frame, "handle", uint64(h))
	return h
}

// Unregister releases h's resources and frees its slot, unless cookies are
// still outstanding for it, in which case it is marked DESTROYED and
// deferred to SweepPendingFree.
func (r *Registry) Unregister(h slotmap.Handle) {
	hot, _, ok := r.clients.Resolve(h)
	if !ok {
		return
	}
	if r.cookies.Outstanding(h) > 0 {
		hot.State = StateDestroyed
		r.pendingFree = append(r.pendingFree, h)
		return
	}
	r.free(h)
}

// SweepPendingFree frees any DESTROYED client whose outstanding cookies have
// all resolved since it was queued. Called once per tick.
func (r *Registry) SweepPendingFree() {
	if len(r.pendingFree) == 0 {
		return
	}
	kept := r.pendingFree[:0]
	for _, h := range r.pendingFree {
		if r.cookies.Outstanding(h) > 0 {
			kept = append(kept, h)
			continue
		}
		r.free(h)
	}
	r.pendingFree = kept
}

func (r *Registry) free(h slotmap.Handle) {
	hot, cold, ok := r.clients.Resolve(h)
	if !ok {
		return
	}
	r.windowToClient.Remove(uint64(hot.Xid))
	if hot.Frame != 0 {
		r.frameToClient.Remove(uint64(hot.Frame))
	}
	r.removeFromLayer(hot, h)
	r.removeFromFocusMRU(h)
	releaseColdResources(cold)
	r.clients.Free(h)
}

// releaseColdResources clears a client's cold-arena-interned state before
// the slot is freed.
func releaseColdResources(cold *ClientCold) {
	cold.ColormapWindows = nil
	cold.WindowName = ""
}

// FindByWindow resolves xid to its client handle.
func (r *Registry) FindByWindow(xid uint32) (slotmap.Handle, bool) {
	v, ok := r.windowToClient.Get(uint64(xid))
	if !ok {
		return slotmap.NullHandle, false
	}
	h := slotmap.Handle(v)
	if _, _, live := r.clients.Resolve(h); !live {
		return slotmap.NullHandle, false
	}
	return h, true
}

// FindByFrame resolves frame to its client handle.
func (r *Registry) FindByFrame(frame uint32) (slotmap.Handle, bool) {
	v, ok := r.frameToClient.Get(uint64(frame))
	if !ok {
		return slotmap.NullHandle, false
	}
	h := slotmap.Handle(v)
	if _, _, live := r.clients.Resolve(h); !live {
		return slotmap.NullHandle, false
	}
	return h, true
}

// Resolve returns h's hot and cold records if h is live.
func (r *Registry) Resolve(h slotmap.Handle) (*ClientHot, *ClientCold, bool) {
	return r.clients.Resolve(h)
}

// Cookies exposes the registry's outstanding-request tracker.
func (r *Registry) Cookies() *cookiejar.Jar {
	return r.cookies
}

// SetLayer moves h into the given stacking layer, removing it from any
// previous layer's handle list first.
func (r *Registry) SetLayer(h slotmap.Handle, layer int) {
	hot, _, ok := r.clients.Resolve(h)
	if !ok || layer < 0 || layer >= LayerCount {
		return
	}
	r.removeFromLayer(hot, h)
	hot.Layer = layer
	hot.Index = r.layers[layer].Len()
	r.layers[layer].Push(uint64(h))
}

func (r *Registry) removeFromLayer(hot *ClientHot, h slotmap.Handle) {
	if hot.Layer < 0 || hot.Layer >= LayerCount {
		return
	}
	layer := &r.layers[hot.Layer]
	rebuilt := u64vec.Vec{}
	layer.Each(func(x uint64) {
		if slotmap.Handle(x) != h {
			if other, _, ok := r.clients.Resolve(slotmap.Handle(x)); ok {
				other.Index = rebuilt.Len()
			}
			rebuilt.Push(x)
		}
	})
	*layer = rebuilt
	hot.Layer = -1
	hot.Index = -1
}

// LayerHandles returns every live handle currently placed in layer, in
// stacking order.
func (r *Registry) LayerHandles(layer int) []slotmap.Handle {
	if layer < 0 || layer >= LayerCount {
		return nil
	}
	out := make([]slotmap.Handle, 0, r.layers[layer].Len())
	r.layers[layer].Each(func(x uint64) {
		out = append(out, slotmap.Handle(x))
	})
	return out
}

// TouchFocus moves h to the front of the focus-MRU list, inserting it if
// not already present.
func (r *Registry) TouchFocus(h slotmap.Handle) {
	r.removeFromFocusMRU(h)
	r.focusMRU = append([]slotmap.Handle{h}, r.focusMRU...)
}

func (r *Registry) removeFromFocusMRU(h slotmap.Handle) {
	for i, x := range r.focusMRU {
		if x == h {
			r.focusMRU = append(r.focusMRU[:i], r.focusMRU[i+1:]...)
			return
		}
	}
}

// FocusMRU returns live handles most-recently-focused first. Stale handles
// (freed since their last touch) are filtered out lazily.
func (r *Registry) FocusMRU() []slotmap.Handle {
	live := r.focusMRU[:0]
	for _, h := range r.focusMRU {
		if _, _, ok := r.clients.Resolve(h); ok {
			live = append(live, h)
		}
	}
	r.focusMRU = live
	out := make([]slotmap.Handle, len(live))
	copy(out, live)
	return out
}

// Len reports the number of live clients.
func (r *Registry) Len() int {
	return r.clients.Len()
}
