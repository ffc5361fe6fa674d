package parallel

import (
	"golang.org/x/sync/errgroup"
)

// SyncThreshold is the pixel count below which region updates run on the
// calling goroutine.
const SyncThreshold = 64 * 64

// ShouldThread reports whether a width x height region is large enough to be
// split across workers.
func ShouldThread(width, height int) bool {
	return width > 0 && height > 0 && width*height >= SyncThreshold
}

// RowFunc processes rows [start, start+count).
type RowFunc func(start, count int)

// RunRows splits total rows into contiguous ranges, one per worker, and
// blocks until every range is processed. Ranges never overlap, so handlers
// writing only their own rows need no locking.
//
// A nil pool runs the whole range on the calling goroutine.
func (p *WorkerPool) RunRows(total int, fn RowFunc) {
	if total <= 0 {
		return
	}
	if p == nil || p.workers == 1 || total == 1 {
		fn(0, total)
		return
	}

	tasks := p.workers
	if tasks > total {
		tasks = total
	}
	perTask := total / tasks
	extra := total % tasks

	work := make([]func(), 0, tasks)
	start := 0
	for i := range tasks {
		count := perTask
		if i < extra {
			count++
		}
		s, c := start, count
		work = append(work, func() { fn(s, c) })
		start += count
	}
	p.ExecuteAll(work)
}

// RunScanlines calls fn once for each of n scanlines, at most Workers() at a
// time, and waits for completion.
//
// A nil pool runs every scanline on the calling goroutine.
func (p *WorkerPool) RunScanlines(n int, fn func(line int)) {
	if n <= 0 {
		return
	}
	if p == nil {
		for line := range n {
			fn(line)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for line := range n {
		g.Go(func() error {
			fn(line)
			return nil
		})
	}
	_ = g.Wait()
}
