package wmcore

import (
	"log/slog"
)

// Ingest drains pending events under the per-tick budget and deposits them
// into buckets. When readyFlag is false, only the source's already-queued
// internal buffer is drained; when true, the wire is drained too once the
// queued buffer is empty. Ingest never blocks: PollQueued and PollWire are
// both non-blocking by contract.
//
// Ingest does not reset buckets or the arena; the caller drains Buckets and
// calls Buckets.Reset(s.Arena) once it is done reading them.
func (s *Server) Ingest(readyFlag bool) {
	tickID := newTickID()
	budget := s.Config.MaxEventsPerTick
	cappedByBudget := false
	wireGlitch := false

	for {
		if budget == 0 {
			cappedByBudget = true
			break
		}

		ev, ok := s.Source.PollQueued()
		if !ok {
			if !readyFlag {
				break
			}
			var err error
			ev, ok, err = s.Source.PollWire()
			if err != nil {
				// Transient source glitch: stop ingest for this tick,
				// leave PollImmediate true so the scheduler re-enters
				// without waiting.
				slog.Warn("[DEBUG-INGEST] wire poll error, deferring to next tick", "error", err, "tick_id", tickID)
				wireGlitch = true
				break
			}
			if !ok {
				break
			}
		}

		dispatch(s.Buckets, s.Arena, s.Atoms, s.RandRBase, s.handleInline, ev)
		budget--
	}

	s.Registry.SweepPendingFree()

	// PollImmediate is true iff the drain was capped mid-work rather than
	// completing because every source was exhausted.
	s.PollImmediate = cappedByBudget || wireGlitch

	slog.Debug("[DEBUG-INGEST] tick complete",
		"tick_id", tickID,
		"ingested", s.Buckets.Ingested,
		"coalesced", s.Buckets.Coalesced,
		"poll_immediate", s.PollImmediate,
	)
	s.emitTelemetry(tickID)
}
