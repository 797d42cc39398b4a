package wmcore

import (
	"log/slog"

	"wmcore/internal/arena"
	"wmcore/internal/xevent"
)

// randrBase carries the connection's negotiated randr_event_base; RandR
// events must have it subtracted before the kind switch below.
type randrBase uint8

// dispatch classifies one decoded event into the appropriate bucket using
// its coalescing policy, mutating b.Ingested/b.Coalesced directly — dispatch
// always increments Ingested exactly once per call, including events that
// get split into two buckets.
func dispatch(b *Buckets, a *arena.Arena, atoms *AtomTable, base randrBase, inline func(xevent.Event), ev xevent.Event) {
	b.Ingested++

	if ev.Malformed {
		slog.Debug("[DEBUG-DISPATCH] dropping malformed event", "response_type", ev.ResponseType)
		return
	}

	if base != 0 && uint8(ev.ResponseType) >= uint8(base) {
		if sub := ev.ResponseType - xevent.ResponseType(base); sub == xevent.ResponseType(xevent.RandRScreenChangeNotify) {
			dispatchRandR(b, ev)
			return
		}
	}

	switch ev.ResponseType {
	case xevent.MapRequest:
		b.MapRequests = append(b.MapRequests, ev)
	case xevent.UnmapNotify:
		b.UnmapNotifies = append(b.UnmapNotifies, ev)
	case xevent.DestroyNotify:
		b.DestroyNotifies = append(b.DestroyNotifies, ev)
		dispatchDestroyed(b, ev)
	case xevent.KeyPress, xevent.KeyRelease:
		b.KeyPresses = append(b.KeyPresses, ev)
	case xevent.ButtonPress, xevent.ButtonRelease:
		b.ButtonEvents = append(b.ButtonEvents, ev)
	case xevent.ClientMessage:
		b.ClientMessages = append(b.ClientMessages, ev)
	case xevent.EnterNotify, xevent.LeaveNotify:
		b.PointerEvents = append(b.PointerEvents, ev)

	case xevent.MotionNotify:
		dispatchMotion(b, ev)
	case xevent.ConfigureNotify:
		dispatchConfigureNotify(b, ev)
	case xevent.Expose:
		dispatchExpose(b, ev)
	case xevent.ConfigureRequest:
		dispatchConfigureRequest(b, a, ev)
	case xevent.PropertyNotify:
		dispatchProperty(b, atoms, ev)

	case xevent.ColormapNotify, xevent.FocusIn, xevent.FocusOut, xevent.MappingNotify:
		// Dispatched inline during ingest rather than bucketed. Still
		// counted as ingested via the increment above.
		if inline != nil {
			inline(ev)
		}

	default:
		// Unknown event types are counted in Ingested (already done above)
		// and otherwise dropped.
		slog.Debug("[DEBUG-DISPATCH] unknown response_type", "response_type", ev.ResponseType)
	}
}

func dispatchRandR(b *Buckets, ev xevent.Event) {
	if b.RandRDirty {
		b.Coalesced++
	}
	b.RandRDirty = true
	b.RandRWidth = ev.Width
	b.RandRHeight = ev.Height
}

func dispatchMotion(b *Buckets, ev xevent.Event) {
	if _, exists := b.MotionNotifies[ev.Event_]; exists {
		b.Coalesced++
	}
	stored := ev
	b.MotionNotifies[ev.Event_] = &stored
}

func dispatchConfigureNotify(b *Buckets, ev xevent.Event) {
	if _, exists := b.ConfigureNotifies[ev.Window]; exists {
		b.Coalesced++
	}
	stored := ev
	b.ConfigureNotifies[ev.Window] = &stored
}

// dispatchDestroyed records ev.Window in the set of windows destroyed this
// tick, alongside (not instead of) the FIFO entry in b.DestroyNotifies: a
// window is destroyed at most once, so this is set membership rather than a
// coalescing policy, and doesn't bump b.Coalesced.
func dispatchDestroyed(b *Buckets, ev xevent.Event) {
	stored := ev
	b.DestroyedWindows[ev.Window] = &stored
}

func dispatchExpose(b *Buckets, ev xevent.Event) {
	incoming := &ExposeRect{X: ev.X, Y: ev.Y, Width: int16(ev.Width), Height: int16(ev.Height)}
	existing, ok := b.ExposeRegions[ev.Window]
	if !ok {
		b.ExposeRegions[ev.Window] = incoming
		return
	}
	b.Coalesced++
	*existing = unionRect(*existing, *incoming)
}

func unionRect(a, b ExposeRect) ExposeRect {
	x0 := min16(a.X, b.X)
	y0 := min16(a.Y, b.Y)
	x1 := max16(a.X+a.Width, b.X+b.Width)
	y1 := max16(a.Y+a.Height, b.Y+b.Height)
	return ExposeRect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func min16(a, b int16) int16 {
	if a < b {
		return a
	}
	return b
}

func max16(a, b int16) int16 {
	if a > b {
		return a
	}
	return b
}

// dispatchConfigureRequest splits a composite configure request: geometry
// bits go to configure_requests under mask-union/first-writer-wins, stacking
// bits go to restack_requests as an independent FIFO entry. An event
// carrying both kinds of bits produces one entry in each and counts as zero
// coalesce for the split itself (the mask-union side may still separately
// count a coalesce if it merges into an existing entry).
func dispatchConfigureRequest(b *Buckets, a *arena.Arena, ev xevent.Event) {
	geomBits := ev.ConfigMask & xevent.GeometryMask
	stackBits := ev.ConfigMask & xevent.StackMask

	if geomBits != 0 {
		pc, existed := b.ConfigureRequests[ev.Window]
		if !existed {
			pc = arena.Alloc[PendingConfig](a)
			b.ConfigureRequests[ev.Window] = pc
		} else {
			b.Coalesced++
		}
		mergeConfigBitsFirstWriterWins(pc, geomBits, ev)
	}

	if stackBits != 0 {
		pr := arena.Alloc[PendingRestack](a)
		pr.Window = ev.Window
		pr.Mask = stackBits
		pr.StackMode = ev.StackMode
		pr.Sibling = ev.Sibling
		b.RestackRequests = append(b.RestackRequests, pr)
	}
}

// mergeConfigBitsFirstWriterWins OR-s newBits into pc.Mask; for any bit
// already set in pc.Mask, the new value is ignored (first writer wins per
// bit).
func mergeConfigBitsFirstWriterWins(pc *PendingConfig, newBits xevent.ConfigMask, ev xevent.Event) {
	freshBits := newBits &^ pc.Mask
	pc.Mask |= newBits

	if freshBits&xevent.ConfigX != 0 {
		pc.X = ev.X
	}
	if freshBits&xevent.ConfigY != 0 {
		pc.Y = ev.Y
	}
	if freshBits&xevent.ConfigWidth != 0 {
		pc.Width = ev.Width
	}
	if freshBits&xevent.ConfigHeight != 0 {
		pc.Height = ev.Height
	}
	if freshBits&xevent.ConfigBorderWidth != 0 {
		pc.BorderWidth = ev.BorderWidth
	}
}

func dispatchProperty(b *Buckets, atoms *AtomTable, ev xevent.Event) {
	if atoms != nil && atoms.MustQueue(ev.Atom) {
		b.PropertyFIFO = append(b.PropertyFIFO, ev)
		return
	}
	key := uint64(ev.Window)<<32 | uint64(ev.Atom)
	if _, exists := b.PropertyLWW[key]; exists {
		b.Coalesced++
	}
	stored := ev
	b.PropertyLWW[key] = &stored
}
