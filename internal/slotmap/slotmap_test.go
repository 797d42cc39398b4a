package slotmap

import "testing"

type hotRecord struct {
	value int
}

type coldRecord struct {
	label string
}

func TestSlotmapAllocResolveFree(t *testing.T) {
	t.Run("alloc then resolve returns the same record", func(t *testing.T) {
		sm := New[hotRecord, coldRecord](4)
		h, hot, cold := sm.Alloc()
		hot.value = 42
		cold.label = "a"

		gotHot, gotCold, ok := sm.Resolve(h)
		if !ok {
			t.Fatalf("Resolve(%v) = false, want true", h)
		}
		if gotHot.value != 42 || gotCold.label != "a" {
			t.Fatalf("Resolve(%v) = (%+v, %+v), want (42, a)", h, gotHot, gotCold)
		}
	})

	t.Run("free invalidates the handle", func(t *testing.T) {
		sm := New[hotRecord, coldRecord](4)
		h, _, _ := sm.Alloc()
		sm.Free(h)
		if _, _, ok := sm.Resolve(h); ok {
			t.Fatalf("Resolve(%v) after Free = true, want false", h)
		}
	})

	t.Run("a handle reused after free resolves to the new record, not the old", func(t *testing.T) {
		sm := New[hotRecord, coldRecord](4)
		h1, hot1, _ := sm.Alloc()
		hot1.value = 1
		sm.Free(h1)

		h2, hot2, _ := sm.Alloc()
		hot2.value = 2

		if h1.Index() != h2.Index() {
			t.Skipf("allocator did not reuse the freed slot index (h1=%v h2=%v); freelist reuse is an implementation detail, not a guarantee under test", h1, h2)
		}
		if h1 == h2 {
			t.Fatalf("reused slot handle %v == old handle %v, generations must differ", h2, h1)
		}
		if _, _, ok := sm.Resolve(h1); ok {
			t.Fatalf("stale handle %v resolved after slot reuse", h1)
		}
		gotHot, _, ok := sm.Resolve(h2)
		if !ok || gotHot.value != 2 {
			t.Fatalf("Resolve(%v) = (%+v, %v), want (2, true)", h2, gotHot, ok)
		}
	})

	t.Run("null handle never resolves", func(t *testing.T) {
		sm := New[hotRecord, coldRecord](4)
		if _, _, ok := sm.Resolve(NullHandle); ok {
			t.Fatalf("Resolve(NullHandle) = true, want false")
		}
	})

	t.Run("growth preserves existing handles", func(t *testing.T) {
		sm := New[hotRecord, coldRecord](1)
		handles := make([]Handle, 0, 64)
		for i := 0; i < 64; i++ {
			h, hot, _ := sm.Alloc()
			hot.value = i
			handles = append(handles, h)
		}
		for i, h := range handles {
			hot, _, ok := sm.Resolve(h)
			if !ok || hot.value != i {
				t.Fatalf("Resolve(handles[%d]) = (%+v, %v), want (%d, true)", i, hot, ok, i)
			}
		}
	})
}

func TestSlotmapLenAndEach(t *testing.T) {
	sm := New[hotRecord, coldRecord](4)
	var handles []Handle
	for i := 0; i < 5; i++ {
		h, _, _ := sm.Alloc()
		handles = append(handles, h)
	}
	sm.Free(handles[2])

	if got := sm.Len(); got != 4 {
		t.Fatalf("Len() = %d, want 4", got)
	}

	seen := map[Handle]bool{}
	sm.Each(func(h Handle, hot *hotRecord, cold *coldRecord) {
		seen[h] = true
	})
	if len(seen) != 4 {
		t.Fatalf("Each visited %d handles, want 4", len(seen))
	}
	if seen[handles[2]] {
		t.Fatalf("Each visited freed handle %v", handles[2])
	}
}
