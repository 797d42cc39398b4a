package wmcore

import (
	"sync"

	"wmcore/internal/xevent"
)

// AtomTable holds the atom ids interned once at server startup. Atom
// interning itself is an X round trip and out of scope for this core;
// AtomTable only records the ids the consumer already resolved, and
// classifies them against the must-queue set from config.
//
// byName is populated once at construction and never mutated afterward, so
// Lookup needs no synchronization. mustQ can be replaced at any time by
// SetMustQueue, called from the config watcher's own goroutine
// (internal/config.WatchMustQueueAtoms) while the single-threaded ingest
// loop concurrently calls MustQueue; mustQMu guards just that one field.
type AtomTable struct {
	byName map[string]xevent.Atom

	mustQMu sync.RWMutex
	mustQ   map[xevent.Atom]bool
}

// NewAtomTable creates an AtomTable from a name->id mapping the consumer
// resolved via its X connection, and the must-queue atom names from
// configuration.
func NewAtomTable(ids map[string]xevent.Atom, mustQueueNames []string) *AtomTable {
	at := &AtomTable{
		byName: make(map[string]xevent.Atom, len(ids)),
		mustQ:  make(map[xevent.Atom]bool, len(mustQueueNames)),
	}
	for name, id := range ids {
		at.byName[name] = id
	}
	for _, name := range mustQueueNames {
		if id, ok := at.byName[name]; ok {
			at.mustQ[id] = true
		}
	}
	return at
}

// Lookup returns the interned id for an atom name.
func (at *AtomTable) Lookup(name string) (xevent.Atom, bool) {
	id, ok := at.byName[name]
	return id, ok
}

// MustQueue reports whether atom must preserve FIFO order rather than be
// LWW-coalesced.
func (at *AtomTable) MustQueue(atom xevent.Atom) bool {
	at.mustQMu.RLock()
	defer at.mustQMu.RUnlock()
	return at.mustQ[atom]
}

// SetMustQueue replaces the must-queue set from a freshly reloaded name
// list (internal/config.WatchMustQueueAtoms callback target). Safe to call
// from a different goroutine than the one draining ticks.
func (at *AtomTable) SetMustQueue(names []string) {
	next := make(map[xevent.Atom]bool, len(names))
	for _, name := range names {
		if id, ok := at.byName[name]; ok {
			next[id] = true
		}
	}
	at.mustQMu.Lock()
	at.mustQ = next
	at.mustQMu.Unlock()
}
