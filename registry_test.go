package wmcore

import (
	"testing"

	"wmcore/internal/slotmap"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	h := r.Register(100, 200)

	if got, ok := r.FindByWindow(100); !ok || got != h {
		t.Fatalf("FindByWindow(100) = (%v, %v), want (%v, true)", got, ok, h)
	}
	if got, ok := r.FindByFrame(200); !ok || got != h {
		t.Fatalf("FindByFrame(200) = (%v, %v), want (%v, true)", got, ok, h)
	}
	hot, _, ok := r.Resolve(h)
	if !ok {
		t.Fatal("Resolve() not ok for freshly registered client")
	}
	if hot.Xid != 100 || hot.Frame != 200 {
		t.Fatalf("hot = %+v, unexpected", hot)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryUnregisterFreesImmediatelyWithoutCookies(t *testing.T) {
	r := NewRegistry()
	h := r.Register(1, 0)

	r.Unregister(h)

	if _, _, ok := r.Resolve(h); ok {
		t.Fatal("Resolve() ok after Unregister with no outstanding cookies")
	}
	if _, ok := r.FindByWindow(1); ok {
		t.Fatal("FindByWindow still resolves a freed client")
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistryUnregisterDefersWhileCookiesOutstanding(t *testing.T) {
	r := NewRegistry()
	h := r.Register(1, 0)
	r.Cookies().Track(h)

	r.Unregister(h)

	hot, _, ok := r.Resolve(h)
	if !ok {
		t.Fatal("Resolve() not ok: client should still be live while a cookie is outstanding")
	}
	if hot.State != StateDestroyed {
		t.Fatalf("State = %v, want StateDestroyed", hot.State)
	}

	r.SweepPendingFree()
	if _, _, ok := r.Resolve(h); !ok {
		t.Fatal("SweepPendingFree should not free while a cookie is still outstanding")
	}

	r.Cookies().Resolve(h)
	r.SweepPendingFree()
	if _, _, ok := r.Resolve(h); ok {
		t.Fatal("SweepPendingFree should free once the last cookie resolves")
	}
}

func TestRegistryHandleGenerationRejectsStaleHandle(t *testing.T) {
	r := NewRegistry()
	h1 := r.Register(1, 0)
	r.Unregister(h1)
	h2 := r.Register(2, 0)

	if h1.Index() != h2.Index() {
		t.Skip("allocator did not reuse the freed slot index for this run")
	}
	if _, _, ok := r.Resolve(h1); ok {
		t.Fatal("Resolve() ok for a handle freed and reissued under a new generation")
	}
}

func TestRegistryLayersTrackStackingOrder(t *testing.T) {
	r := NewRegistry()
	a := r.Register(1, 0)
	b := r.Register(2, 0)
	c := r.Register(3, 0)

	r.SetLayer(a, 0)
	r.SetLayer(b, 0)
	r.SetLayer(c, 1)

	layer0 := r.LayerHandles(0)
	if len(layer0) != 2 || layer0[0] != a || layer0[1] != b {
		t.Fatalf("LayerHandles(0) = %v, want [%v %v]", layer0, a, b)
	}
	if got := r.LayerHandles(1); len(got) != 1 || got[0] != c {
		t.Fatalf("LayerHandles(1) = %v, want [%v]", got, c)
	}

	r.SetLayer(a, 1)
	layer0 = r.LayerHandles(0)
	if len(layer0) != 1 || layer0[0] != b {
		t.Fatalf("LayerHandles(0) after move = %v, want [%v]", layer0, b)
	}
}

func TestRegistryFocusMRUOrdersMostRecentFirst(t *testing.T) {
	r := NewRegistry()
	a := r.Register(1, 0)
	b := r.Register(2, 0)
	c := r.Register(3, 0)

	r.TouchFocus(a)
	r.TouchFocus(b)
	r.TouchFocus(c)
	r.TouchFocus(a)

	mru := r.FocusMRU()
	want := []slotmap.Handle{a, c, b}
	if len(mru) != len(want) {
		t.Fatalf("FocusMRU() = %v, want %v", mru, want)
	}
	for i := range want {
		if mru[i] != want[i] {
			t.Fatalf("FocusMRU() = %v, want %v", mru, want)
		}
	}
}

func TestRegistryFocusMRUDropsStaleHandles(t *testing.T) {
	r := NewRegistry()
	a := r.Register(1, 0)
	b := r.Register(2, 0)
	r.TouchFocus(a)
	r.TouchFocus(b)

	r.Unregister(a)

	mru := r.FocusMRU()
	if len(mru) != 1 || mru[0] != b {
		t.Fatalf("FocusMRU() = %v, want [%v]", mru, b)
	}
}
