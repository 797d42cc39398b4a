package wmcore

import (
	"testing"

	"wmcore/internal/xevent"
)

func TestAtomTableLookupAndMustQueue(t *testing.T) {
	at := NewAtomTable(map[string]xevent.Atom{
		"WM_HINTS": 10,
		"_CUSTOM":  20,
	}, []string{"WM_HINTS"})

	id, ok := at.Lookup("WM_HINTS")
	if !ok || id != 10 {
		t.Fatalf("Lookup(WM_HINTS) = (%v, %v), want (10, true)", id, ok)
	}
	if !at.MustQueue(10) {
		t.Fatal("MustQueue(10) = false, want true")
	}
	if at.MustQueue(20) {
		t.Fatal("MustQueue(20) = true, want false")
	}
	if _, ok := at.Lookup("_UNKNOWN"); ok {
		t.Fatal("Lookup of an unknown name unexpectedly ok")
	}
}

func TestAtomTableMustQueueNameNotYetInterned(t *testing.T) {
	at := NewAtomTable(map[string]xevent.Atom{"_CUSTOM": 20}, []string{"WM_HINTS"})
	if at.MustQueue(20) {
		t.Fatal("an atom not named in must-queue config reported must-queue")
	}
}

func TestAtomTableSetMustQueueReplacesSet(t *testing.T) {
	at := NewAtomTable(map[string]xevent.Atom{
		"WM_HINTS": 10,
		"_CUSTOM":  20,
	}, []string{"WM_HINTS"})

	at.SetMustQueue([]string{"_CUSTOM"})

	if at.MustQueue(10) {
		t.Fatal("WM_HINTS still must-queue after reload dropped it")
	}
	if !at.MustQueue(20) {
		t.Fatal("_CUSTOM not must-queue after reload added it")
	}
}
