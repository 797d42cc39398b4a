// Package wmcore implements the event ingestion and coalescing core of an
// X11 window manager: a bounded, non-blocking per-tick drain of the X event
// source into per-kind coalescing buckets, backed by a generational-handle
// client registry.
package wmcore

import (
	"context"

	"github.com/google/uuid"

	"wmcore/internal/arena"
	"wmcore/internal/config"
	"wmcore/internal/telemetry"
	"wmcore/internal/xevent"
)

// Server owns every piece of per-connection state this core mutates: the
// client registry, this tick's buckets, the tick arena, the atom table, and
// the upstream event source. Exactly one goroutine may call Ingest at a
// time — Server itself does no internal locking.
type Server struct {
	Registry *Registry
	Buckets  *Buckets
	Arena    *arena.Arena
	Atoms    *AtomTable
	Source   xevent.Source

	Config         config.Config
	RandRSupported bool
	RandRBase      randrBase

	// PollImmediate is true when the scheduler should re-enter Ingest
	// without waiting on the X fd.
	PollImmediate bool

	telemetry  *telemetry.Hub
	cfgWatcher *config.Watcher
}

// NewServer wires a Server from configuration, an event source, and the
// atom ids the consumer already interned over its X connection.
func NewServer(cfg config.Config, source xevent.Source, atomIDs map[string]xevent.Atom) *Server {
	if source == nil {
		fatal("nil event source")
	}
	return &Server{
		Registry: NewRegistry(),
		Buckets:  NewBuckets(),
		Arena:    arena.NewWithCapacity(cfg.TickArenaInitBytes),
		Atoms:    NewAtomTable(atomIDs, cfg.MustQueueAtoms),
		Source:   source,
		Config:   cfg,
	}
}

// AttachTelemetry starts a debug telemetry hub and begins broadcasting a
// Snapshot after every Ingest call.
func (s *Server) AttachTelemetry(ctx context.Context, opts telemetry.Options) error {
	hub := telemetry.NewHub(opts)
	if err := hub.Start(ctx); err != nil {
		return err
	}
	s.telemetry = hub
	return nil
}

// WatchConfig starts hot-reloading MustQueueAtoms from the settings file at
// path (internal/config.WatchMustQueueAtoms).
func (s *Server) WatchConfig(path string) error {
	w, err := config.WatchMustQueueAtoms(path, s.Atoms.SetMustQueue)
	if err != nil {
		return err
	}
	s.cfgWatcher = w
	return nil
}

// TelemetryAddr returns the telemetry hub's listen address, or "" if
// AttachTelemetry was never called.
func (s *Server) TelemetryAddr() string {
	if s.telemetry == nil {
		return ""
	}
	return s.telemetry.Addr()
}

// Close releases the telemetry hub and config watcher, if attached.
func (s *Server) Close() {
	if s.telemetry != nil {
		_ = s.telemetry.Stop()
	}
	if s.cfgWatcher != nil {
		_ = s.cfgWatcher.Close()
	}
}

// emitTelemetry sends a best-effort Snapshot for the tick just completed. A
// nil hub or absent client is a silent no-op; with a client connected, the
// send is synchronous and bounded by the hub's write deadline.
func (s *Server) emitTelemetry(tickID string) {
	if s.telemetry == nil {
		return
	}
	s.telemetry.Broadcast(telemetry.Snapshot{
		TickID:         tickID,
		Ingested:       s.Buckets.Ingested,
		Coalesced:      s.Buckets.Coalesced,
		PollImmediate:  s.PollImmediate,
		RandRDirty:     s.Buckets.RandRDirty,
		ConfigureCount: len(s.Buckets.ConfigureRequests),
		MotionCount:    len(s.Buckets.MotionNotifies),
		ExposeCount:    len(s.Buckets.ExposeRegions),
	})
}

func newTickID() string {
	return uuid.NewString()
}
