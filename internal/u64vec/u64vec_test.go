package u64vec

import "testing"

func TestVecPushGet(t *testing.T) {
	t.Run("push within inline capacity", func(t *testing.T) {
		var v Vec
		for i := uint64(0); i < inlineCap; i++ {
			v.Push(i * 10)
		}
		if v.Len() != inlineCap {
			t.Fatalf("Len() = %d, want %d", v.Len(), inlineCap)
		}
		for i := 0; i < inlineCap; i++ {
			if got := v.Get(i); got != uint64(i)*10 {
				t.Fatalf("Get(%d) = %d, want %d", i, got, uint64(i)*10)
			}
		}
	})

	t.Run("push past inline capacity spills to heap", func(t *testing.T) {
		var v Vec
		const n = inlineCap*3 + 1
		for i := uint64(0); i < n; i++ {
			v.Push(i)
		}
		if v.Len() != n {
			t.Fatalf("Len() = %d, want %d", v.Len(), n)
		}
		for i := 0; i < n; i++ {
			if got := v.Get(i); got != uint64(i) {
				t.Fatalf("Get(%d) = %d, want %d", i, got, i)
			}
		}
	})

	t.Run("clear resets length but keeps spilled storage", func(t *testing.T) {
		var v Vec
		for i := uint64(0); i < inlineCap*4; i++ {
			v.Push(i)
		}
		v.Clear()
		if v.Len() != 0 {
			t.Fatalf("Len() after Clear() = %d, want 0", v.Len())
		}
		v.Push(99)
		if got := v.Get(0); got != 99 {
			t.Fatalf("Get(0) after Clear()+Push = %d, want 99", got)
		}
	})
}

func TestVecEachVisitsInOrder(t *testing.T) {
	var v Vec
	want := []uint64{5, 4, 3, 2, 1}
	for _, x := range want {
		v.Push(x)
	}
	var got []uint64
	v.Each(func(x uint64) { got = append(got, x) })
	if len(got) != len(want) {
		t.Fatalf("Each visited %d elements, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Each()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestVecReserveGrowsCapacity(t *testing.T) {
	var v Vec
	v.Reserve(100)
	if cap(v.spill) < 100 {
		t.Fatalf("Reserve(100) left cap(spill) = %d, want >= 100", cap(v.spill))
	}
}
