// Package flags tracks which (display, view) pairs have a valid cached
// display buffer for one image.
package flags

import (
	"math/bits"
	"sync/atomic"
)

// Table is a per-display bitset of view bits. Display and view indices are
// 1-based registry indices; bit (view-1) of row (display-1) is set when the
// buffer for that pair is valid.
//
// The bitmap packs each display row into uint64 words. All methods are safe
// for concurrent use without external synchronization.
type Table struct {
	words    []atomic.Uint64
	displays int
	views    int
	stride   int // words per display row
}

// New creates a table for the given registry sizes with every bit clear.
// Returns nil if either dimension is zero or negative.
func New(displays, views int) *Table {
	if displays <= 0 || views <= 0 {
		return nil
	}
	stride := (views + 63) / 64
	return &Table{
		words:    make([]atomic.Uint64, displays*stride),
		displays: displays,
		views:    views,
		stride:   stride,
	}
}

func (t *Table) locate(display, view int) (word int, mask uint64, ok bool) {
	if t == nil || display < 1 || display > t.displays || view < 1 || view > t.views {
		return 0, 0, false
	}
	bit := view - 1
	return (display-1)*t.stride + bit/64, 1 << (bit & 63), true
}

// Set marks the buffer of (display, view) as valid.
// Out of range indices are ignored.
func (t *Table) Set(display, view int) {
	if w, m, ok := t.locate(display, view); ok {
		t.words[w].Or(m)
	}
}

// Has reports whether (display, view) is marked valid.
func (t *Table) Has(display, view int) bool {
	w, m, ok := t.locate(display, view)
	return ok && t.words[w].Load()&m != 0
}

// ClearAll marks every pair stale.
func (t *Table) ClearAll() {
	if t == nil {
		return
	}
	for i := range t.words {
		t.words[i].Store(0)
	}
}

// KeepOnly clears every bit except the one for (display, view), which is
// set. Used after a partial update refreshed only the active pair.
func (t *Table) KeepOnly(display, view int) {
	t.ClearAll()
	t.Set(display, view)
}

// ForEach calls fn for every valid pair in display-major order.
func (t *Table) ForEach(fn func(display, view int)) {
	if t == nil {
		return
	}
	for d := range t.displays {
		for w := range t.stride {
			word := t.words[d*t.stride+w].Load()
			for word != 0 {
				bit := bits.TrailingZeros64(word)
				word &= word - 1
				fn(d+1, w*64+bit+1)
			}
		}
	}
}

// Covers reports whether the table can hold every pair of a registry with the
// given sizes.
func (t *Table) Covers(displays, views int) bool {
	return t != nil && displays <= t.displays && views <= t.views
}

// Grow returns a table sized for at least displays x views, carrying over the
// bits of t. If t already covers the sizes it is returned unchanged.
func (t *Table) Grow(displays, views int) *Table {
	if t.Covers(displays, views) {
		return t
	}
	if t != nil {
		displays = max(displays, t.displays)
		views = max(views, t.views)
	}
	n := New(displays, views)
	t.ForEach(n.Set)
	return n
}
