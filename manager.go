package colorman

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/colorman/internal/parallel"
	"github.com/gogpu/colorman/registry"
)

// DefaultCacheCapacity is the number of display buffers kept per image when
// WithCacheCapacity is not given.
const DefaultCacheCapacity = 32

// Manager owns a color registry and a worker pool and produces display
// buffers for images.
//
// A Manager is safe for concurrent use. One mutex guards the display buffer
// caches of every image it serves; pixel work runs outside of it. An image
// must only be used with one Manager.
type Manager struct {
	reg           *registry.Registry
	pool          *parallel.WorkerPool
	cacheCapacity int
	log           *slog.Logger

	mu sync.Mutex

	pickMu         sync.Mutex
	pickToLinear   *Processor
	pickFromLinear *Processor
	pickFailed     bool

	buffersBuilt   atomic.Uint64
	cacheHits      atomic.Uint64
	cacheMisses    atomic.Uint64
	partialUpdates atomic.Uint64

	closed atomic.Bool
}

// Stats contains display buffer counters of a Manager.
type Stats struct {
	// BuffersBuilt counts full display buffer computations.
	BuffersBuilt uint64
	// CacheHits counts acquisitions served from the cache.
	CacheHits uint64
	// CacheMisses counts acquisitions that had to compute a buffer.
	CacheMisses uint64
	// PartialUpdates counts rectangle updates applied to a cached buffer.
	PartialUpdates uint64
}

// NewManager creates a Manager. Without options it loads engine.Builtin and
// uses one worker per CPU.
func NewManager(opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	reg := o.registry
	if reg == nil {
		reg = registry.New(o.config)
	}
	m := &Manager{
		reg:           reg,
		pool:          parallel.NewWorkerPool(o.workers),
		cacheCapacity: o.cacheCapacity,
		log:           o.logger,
	}
	m.logger().Debug("colorman: manager created",
		"workers", m.pool.Workers(),
		"cache_capacity", m.cacheCapacity,
		"displays", len(reg.Displays()))
	return m
}

// Registry returns the registry the Manager renders with.
func (m *Manager) Registry() *registry.Registry { return m.reg }

// Stats returns a snapshot of the display buffer counters.
func (m *Manager) Stats() Stats {
	return Stats{
		BuffersBuilt:   m.buffersBuilt.Load(),
		CacheHits:      m.cacheHits.Load(),
		CacheMisses:    m.cacheMisses.Load(),
		PartialUpdates: m.partialUpdates.Load(),
	}
}

// ResetStats sets every counter to zero.
func (m *Manager) ResetStats() {
	m.buffersBuilt.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.partialUpdates.Store(0)
}

// Close stops the worker pool and releases the registry processors.
// Transforms requested after Close run on the calling goroutine.
// Close is idempotent.
func (m *Manager) Close() {
	if !m.closed.CompareAndSwap(false, true) {
		return
	}
	m.pool.Close()
	m.reg.Close()
	m.pickMu.Lock()
	m.pickToLinear, m.pickFromLinear = nil, nil
	m.pickMu.Unlock()
}

// logger returns the Manager logger, falling back to the package logger.
func (m *Manager) logger() *slog.Logger {
	if m.log != nil {
		return m.log
	}
	return Logger()
}
