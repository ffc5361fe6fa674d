package cache

import (
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the entry limit used when New is given a zero capacity.
const DefaultCapacity = 256

// Unlimited disables eviction when passed as capacity.
const Unlimited = -1

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	HitRate   float64
	Evictions uint64
}

// MovieCache is a keyed store with caller-supplied hashing and equality,
// LRU eviction and reference-counted handles.
//
// Entries that are referenced by an unreleased Handle are never evicted.
// Replacing or deleting a referenced entry detaches it from the store; the
// handle keeps the value alive until released.
//
// MovieCache is safe for concurrent use and must not be copied.
type MovieCache[K any, V any] struct {
	name     string
	hasher   Hasher[K]
	equal    Equal[K]
	capacity int

	mu      sync.Mutex
	buckets map[uint64][]*entry[K, V]
	lru     lruList[*entry[K, V]]
	count   int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type entry[K any, V any] struct {
	key      K
	hash     uint64
	value    V
	node     *lruNode[*entry[K, V]]
	refs     int
	detached bool
}

// Handle is a counted reference to a cached value.
type Handle[K any, V any] struct {
	c        *MovieCache[K, V]
	e        *entry[K, V]
	released atomic.Bool
}

// New creates a store. A zero capacity selects DefaultCapacity; a negative
// capacity such as Unlimited disables eviction.
func New[K any, V any](name string, capacity int, hasher Hasher[K], equal Equal[K]) *MovieCache[K, V] {
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	return &MovieCache[K, V]{
		name:     name,
		hasher:   hasher,
		equal:    equal,
		capacity: capacity,
		buckets:  make(map[uint64][]*entry[K, V]),
	}
}

// Name returns the name given at construction.
func (c *MovieCache[K, V]) Name() string { return c.name }

// Get returns a handle to the value stored under key.
// The handle must be released with Handle.Release.
func (c *MovieCache[K, V]) Get(key K) (*Handle[K, V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.lookup(c.hasher(key), key)
	if e == nil {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.lru.MoveToFront(e.node)
	e.refs++
	return &Handle[K, V]{c: c, e: e}, true
}

// Contains reports whether key is stored, without touching recency or stats.
func (c *MovieCache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(c.hasher(key), key) != nil
}

// Put stores value under key, replacing any previous entry, and returns a
// handle to the new entry.
func (c *MovieCache[K, V]) Put(key K, value V) *Handle[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.insert(key, value)
	e.refs++
	c.evict()
	return &Handle[K, V]{c: c, e: e}
}

// Set stores value under key without returning a handle.
func (c *MovieCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.insert(key, value)
	c.evict()
}

// GetOrCreate returns the stored value or creates, stores and returns it.
// create runs with the store locked; a failed create stores nothing.
func (c *MovieCache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := c.hasher(key)
	if e := c.lookup(h, key); e != nil {
		c.hits.Add(1)
		c.lru.MoveToFront(e.node)
		return e.value, nil
	}
	c.misses.Add(1)

	value, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.insert(key, value)
	c.evict()
	return value, nil
}

// Delete removes the entry stored under key. Outstanding handles stay valid.
func (c *MovieCache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.lookup(c.hasher(key), key)
	if e == nil {
		return false
	}
	c.detach(e)
	return true
}

// Free removes every entry. Outstanding handles stay valid.
func (c *MovieCache[K, V]) Free() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for n := c.lru.head; n != nil; n = n.next {
		n.value.detached = true
	}
	c.buckets = make(map[uint64][]*entry[K, V])
	c.lru.Clear()
	c.count = 0
}

// Len returns the number of stored entries.
func (c *MovieCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Capacity returns the entry limit, or Unlimited.
func (c *MovieCache[K, V]) Capacity() int {
	return c.capacity
}

// Stats returns current statistics.
func (c *MovieCache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: c.evictions.Load(),
	}
}

// ResetStats resets all statistics counters to zero.
func (c *MovieCache[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// lookup finds a live entry. Caller must hold c.mu.
func (c *MovieCache[K, V]) lookup(h uint64, key K) *entry[K, V] {
	for _, e := range c.buckets[h] {
		if c.equal(e.key, key) {
			return e
		}
	}
	return nil
}

// insert replaces or adds an entry. Caller must hold c.mu.
func (c *MovieCache[K, V]) insert(key K, value V) *entry[K, V] {
	h := c.hasher(key)
	if old := c.lookup(h, key); old != nil {
		c.detach(old)
	}
	e := &entry[K, V]{key: key, hash: h, value: value}
	e.node = c.lru.PushFront(e)
	c.buckets[h] = append(c.buckets[h], e)
	c.count++
	return e
}

// detach unlinks e from the store. Caller must hold c.mu.
func (c *MovieCache[K, V]) detach(e *entry[K, V]) {
	bucket := c.buckets[e.hash]
	for i, other := range bucket {
		if other == e {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(c.buckets, e.hash)
	} else {
		c.buckets[e.hash] = bucket
	}
	c.lru.Remove(e.node)
	e.detached = true
	c.count--
}

// evict drops least recently used, unreferenced entries until the store fits.
// Caller must hold c.mu.
func (c *MovieCache[K, V]) evict() {
	if c.capacity < 0 {
		return
	}
	for n := c.lru.Back(); n != nil && c.count > c.capacity; {
		prev := n.prev
		if n.value.refs == 0 {
			c.detach(n.value)
			c.evictions.Add(1)
		}
		n = prev
	}
}

// Value returns the referenced value.
func (h *Handle[K, V]) Value() V {
	return h.e.value
}

// Key returns the key the value was stored under.
func (h *Handle[K, V]) Key() K {
	return h.e.key
}

// Release drops the reference. Safe to call on a nil handle and more than once.
func (h *Handle[K, V]) Release() {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}
	h.c.mu.Lock()
	h.e.refs--
	h.c.evict()
	h.c.mu.Unlock()
}

// Detached reports whether the entry was removed from the store after the
// handle was taken.
func (h *Handle[K, V]) Detached() bool {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	return h.e.detached
}
