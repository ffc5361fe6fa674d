// Package parallel runs pixel transforms over disjoint row bands.
package parallel

import (
	"runtime"
	"sync"
)

// minQueueDepth is the smallest per-worker backlog.
const minQueueDepth = 8

// job is one queued band of work and the group waiting on it.
type job struct {
	run  func()
	done *sync.WaitGroup
}

func (j job) exec() {
	defer j.done.Done()
	j.run()
}

// WorkerPool is a fixed set of goroutines that transform row bands.
//
// Each worker owns a queue. A worker with an empty queue takes jobs from its
// neighbours before blocking, so bands that cost more (a look in a log space,
// curve mapping) do not leave the other workers idle.
//
// WorkerPool is safe for concurrent use. The zero value is not usable; call
// NewWorkerPool.
type WorkerPool struct {
	workers int
	queues  []chan job
	quit    chan struct{}
	wg      sync.WaitGroup

	// mu orders ExecuteAll submissions before Close. Submitters hold it
	// shared while queueing.
	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool starts a pool with the given number of workers.
// Zero or negative selects GOMAXPROCS.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := max(workers*4, minQueueDepth)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan job, workers),
		quit:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan job, depth)
	}

	p.wg.Add(workers)
	for i := range workers {
		go p.loop(i)
	}
	return p
}

func (p *WorkerPool) loop(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		if j, ok := p.take(id); ok {
			j.exec()
			continue
		}
		select {
		case j := <-own:
			j.exec()
		case <-p.quit:
			p.flush(own)
			return
		}
	}
}

// take returns a pending job from the worker's own queue, or one stolen from
// another worker, without blocking.
func (p *WorkerPool) take(id int) (job, bool) {
	for k := range p.workers {
		q := p.queues[(id+k)%p.workers]
		select {
		case j := <-q:
			return j, true
		default:
		}
	}
	return job{}, false
}

// flush runs whatever is still queued after shutdown was requested.
func (p *WorkerPool) flush(q chan job) {
	for {
		select {
		case j := <-q:
			j.exec()
		default:
			return
		}
	}
}

// ExecuteAll runs every function on the pool and returns once all have
// finished. After Close the functions run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		for _, fn := range work {
			fn()
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		p.queues[i%p.workers] <- job{run: fn, done: &wg}
	}
	p.mu.RUnlock()

	wg.Wait()
}

// Close stops the workers after the queued bands have run. Repeated calls
// are no-ops.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.quit)
	p.mu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}
