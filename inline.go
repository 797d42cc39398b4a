package wmcore

import (
	"log/slog"

	"wmcore/internal/xevent"
)

// handleInline dispatches the event kinds that affect registry state the
// rest of the window manager needs before the bucket drain, and so are
// processed immediately rather than bucketed. Colormap installation itself
// and focus policy remain out of scope here — this only updates the
// bookkeeping the registry owns.
func (s *Server) handleInline(ev xevent.Event) {
	switch ev.ResponseType {
	case xevent.ColormapNotify:
		s.handleColormapNotify(ev)
	case xevent.FocusIn:
		s.handleFocusIn(ev)
	case xevent.FocusOut:
		s.handleFocusOut(ev)
	case xevent.MappingNotify:
		slog.Debug("[DEBUG-INLINE] mapping notify observed", "request", ev.DetailCode)
	}
}

func (s *Server) handleColormapNotify(ev xevent.Event) {
	h, ok := s.Registry.FindByWindow(ev.Window)
	if !ok {
		return
	}
	hot, _, ok := s.Registry.Resolve(h)
	if !ok {
		return
	}
	hot.Colormap = ev.Colormap
	slog.Debug("[DEBUG-INLINE] colormap updated", "window", ev.Window, "colormap", ev.Colormap)
}

func (s *Server) handleFocusIn(ev xevent.Event) {
	h, ok := s.Registry.FindByWindow(ev.Window)
	if !ok {
		return
	}
	s.Registry.TouchFocus(h)
}

func (s *Server) handleFocusOut(ev xevent.Event) {
	// No bookkeeping beyond the MRU touch on FocusIn; FocusOut carries no
	// state this registry needs to retain.
}
