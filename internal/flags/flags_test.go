package flags

import (
	"sync"
	"testing"
)

// countSet returns the number of valid pairs in tbl.
func countSet(tbl *Table) int {
	n := 0
	tbl.ForEach(func(int, int) { n++ })
	return n
}

func TestNew_InvalidDimensions(t *testing.T) {
	tests := []struct {
		displays, views int
	}{
		{0, 4}, {4, 0}, {-1, 4}, {4, -1},
	}
	for _, tt := range tests {
		if got := New(tt.displays, tt.views); got != nil {
			t.Errorf("New(%d, %d) = %v, want nil", tt.displays, tt.views, got)
		}
	}
}

func TestTable_SetHas(t *testing.T) {
	tbl := New(3, 5)

	if got := countSet(tbl); got != 0 {
		t.Fatalf("new table has %d valid pairs, want 0", got)
	}

	tbl.Set(2, 4)
	if !tbl.Has(2, 4) {
		t.Error("Has(2, 4) = false after Set")
	}
	if tbl.Has(1, 4) || tbl.Has(2, 3) {
		t.Error("Set leaked into other pairs")
	}

	tbl.ClearAll()
	if tbl.Has(2, 4) {
		t.Error("Has(2, 4) = true after ClearAll")
	}
}

func TestTable_OutOfRangeIgnored(t *testing.T) {
	tbl := New(2, 2)

	tbl.Set(0, 1)
	tbl.Set(1, 0)
	tbl.Set(3, 1)
	tbl.Set(1, 3)

	if got := countSet(tbl); got != 0 {
		t.Errorf("valid pairs = %d after out of range Set, want 0", got)
	}
	if tbl.Has(0, 0) {
		t.Error("Has(0, 0) = true, want false")
	}
}

func TestTable_ManyViews(t *testing.T) {
	tbl := New(2, 130)

	tbl.Set(1, 64)
	tbl.Set(1, 65)
	tbl.Set(2, 130)

	for _, p := range [][2]int{{1, 64}, {1, 65}, {2, 130}} {
		if !tbl.Has(p[0], p[1]) {
			t.Errorf("Has(%d, %d) = false, want true", p[0], p[1])
		}
	}
	if tbl.Has(2, 64) {
		t.Error("Has(2, 64) = true, want false")
	}
	if got := countSet(tbl); got != 3 {
		t.Errorf("valid pairs = %d, want 3", got)
	}
}

func TestTable_KeepOnly(t *testing.T) {
	tbl := New(3, 3)
	for d := 1; d <= 3; d++ {
		for v := 1; v <= 3; v++ {
			tbl.Set(d, v)
		}
	}

	tbl.KeepOnly(2, 3)

	if got := countSet(tbl); got != 1 {
		t.Errorf("valid pairs = %d after KeepOnly, want 1", got)
	}
	if !tbl.Has(2, 3) {
		t.Error("KeepOnly dropped the kept pair")
	}
}

func TestTable_ForEach(t *testing.T) {
	tbl := New(2, 70)
	tbl.Set(2, 70)
	tbl.Set(1, 1)
	tbl.Set(2, 2)

	var got [][2]int
	tbl.ForEach(func(d, v int) { got = append(got, [2]int{d, v}) })

	want := [][2]int{{1, 1}, {2, 2}, {2, 70}}
	if len(got) != len(want) {
		t.Fatalf("ForEach visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ForEach[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTable_Grow(t *testing.T) {
	tbl := New(1, 2)
	tbl.Set(1, 2)

	if same := tbl.Grow(1, 2); same != tbl {
		t.Error("Grow to covered size should return the same table")
	}

	grown := tbl.Grow(3, 80)
	if !grown.Covers(3, 80) || grown.Covers(4, 80) || grown.Covers(3, 81) {
		t.Error("Grow did not size the table to (3, 80)")
	}
	if !grown.Has(1, 2) {
		t.Error("Grow lost an existing bit")
	}

	var nilTable *Table
	if g := nilTable.Grow(2, 2); g == nil || countSet(g) != 0 {
		t.Error("Grow on nil table should return an empty table")
	}
}

func TestTable_NilSafe(t *testing.T) {
	var tbl *Table

	tbl.Set(1, 1)
	tbl.ClearAll()
	if tbl.Has(1, 1) {
		t.Error("nil Has = true")
	}
	if countSet(tbl) != 0 || tbl.Covers(1, 1) {
		t.Error("nil table should be empty")
	}
}

func TestTable_Concurrent(t *testing.T) {
	tbl := New(4, 64)

	var wg sync.WaitGroup
	for d := 1; d <= 4; d++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := 1; v <= 64; v++ {
				tbl.Set(d, v)
			}
		}()
	}
	wg.Wait()

	if got := countSet(tbl); got != 256 {
		t.Errorf("valid pairs = %d, want 256", got)
	}
}
