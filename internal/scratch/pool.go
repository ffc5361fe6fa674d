// Package scratch provides reusable float32 row buffers for pixel transforms.
package scratch

import "sync"

// Pool is a thread-safe pool of float32 buffers grouped by length.
//
// Rendering threads grab one row buffer per band and hand it back when the
// band is done, so a large display update does not allocate per row.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[int][][]float32
	maxSize int // max buffers per bucket
}

// NewPool creates a pool keeping at most maxPerBucket buffers of each length.
// A maxPerBucket of 0 or less means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[int][][]float32),
		maxSize: maxPerBucket,
	}
}

// Get returns a buffer of exactly n values. Reused buffers are zeroed.
func (p *Pool) Get(n int) []float32 {
	if n <= 0 {
		return nil
	}

	p.mu.Lock()
	bucket := p.buckets[n]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[n] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		clear(buf)
		return buf
	}
	p.mu.Unlock()

	return make([]float32, n)
}

// Put returns buf to the pool. Empty buffers and buffers beyond the bucket
// limit are dropped.
func (p *Pool) Put(buf []float32) {
	n := len(buf)
	if n == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[n]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[n] = append(bucket, buf[:n:n])
}

// defaultPool backs GetRow and PutRow.
var defaultPool = NewPool(16)

// GetRow returns a zeroed buffer of n values from the shared pool.
func GetRow(n int) []float32 {
	return defaultPool.Get(n)
}

// PutRow returns a buffer obtained from GetRow to the shared pool.
func PutRow(buf []float32) {
	defaultPool.Put(buf)
}
