package arena

import "testing"

func TestArenaAllocAndReset(t *testing.T) {
	t.Run("alloc returns a usable zeroed value", func(t *testing.T) {
		a := NewWithCapacity(0)
		v := Alloc[int](a)
		if *v != 0 {
			t.Fatalf("*v = %d, want 0", *v)
		}
		*v = 5
		if *v != 5 {
			t.Fatalf("*v = %d, want 5", *v)
		}
	})

	t.Run("allocs counts since the last reset", func(t *testing.T) {
		a := NewWithCapacity(0)
		Alloc[int](a)
		Alloc[int](a)
		if got := a.Allocs(); got != 2 {
			t.Fatalf("Allocs() = %d, want 2", got)
		}
		a.Reset()
		if got := a.Allocs(); got != 0 {
			t.Fatalf("Allocs() after Reset() = %d, want 0", got)
		}
	})

	t.Run("resets counts completed ticks", func(t *testing.T) {
		a := NewWithCapacity(0)
		a.Reset()
		a.Reset()
		if got := a.Resets(); got != 2 {
			t.Fatalf("Resets() = %d, want 2", got)
		}
	})

	t.Run("zero or negative size hint falls back to the default", func(t *testing.T) {
		a := NewWithCapacity(0)
		if got := a.SizeHint(); got != defaultInitBytes {
			t.Fatalf("SizeHint() = %d, want %d", got, defaultInitBytes)
		}
	})
}
