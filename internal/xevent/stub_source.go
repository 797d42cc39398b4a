package xevent

// StubSource is an in-memory Source for tests: separate queued and wire
// buffers, each drained FIFO, plus an injectable one-shot wire error for
// exercising the transient-glitch path.
type StubSource struct {
	queued []Event
	wire   []Event
	// WireErr, if set, is returned once by the next PollWire call instead of
	// draining an event, simulating a transient I/O glitch.
	WireErr error
}

// EnqueueQueued appends ev to the already-queued buffer PollQueued drains.
func (s *StubSource) EnqueueQueued(ev Event) {
	s.queued = append(s.queued, ev)
}

// EnqueueWire appends ev to the wire buffer PollWire drains.
func (s *StubSource) EnqueueWire(ev Event) {
	s.wire = append(s.wire, ev)
}

// QueuedLen reports how many events remain in the queued buffer.
func (s *StubSource) QueuedLen() int {
	return len(s.queued)
}

// WireLen reports how many events remain in the wire buffer.
func (s *StubSource) WireLen() int {
	return len(s.wire)
}

// PollQueued implements Source.
func (s *StubSource) PollQueued() (Event, bool) {
	if len(s.queued) == 0 {
		return Event{}, false
	}
	ev := s.queued[0]
	s.queued = s.queued[1:]
	return ev, true
}

// PollWire implements Source.
func (s *StubSource) PollWire() (Event, bool, error) {
	if s.WireErr != nil {
		err := s.WireErr
		s.WireErr = nil
		return Event{}, false, err
	}
	if len(s.wire) == 0 {
		return Event{}, false, nil
	}
	ev := s.wire[0]
	s.wire = s.wire[1:]
	return ev, true, nil
}

// Reset empties both buffers and clears any pending WireErr.
func (s *StubSource) Reset() {
	s.queued = nil
	s.wire = nil
	s.WireErr = nil
}
