// Package cache provides MovieCache, a generic keyed store with
// caller-supplied hash and equality functions, LRU eviction and
// reference-counted handles.
//
// colorman keeps one MovieCache per image buffer for its display buffers,
// keyed by (view, display) index pairs, and the color engine keeps one per
// configuration for compiled processors.
//
//	c := cache.New[string, []byte]("thumbs", 64, cache.StringHasher, cache.ComparableEqual[string])
//	h := c.Put("a", buf)
//	defer h.Release()
//
// # Eviction
//
// When the store holds more entries than its capacity, the least recently
// used entries without outstanding handles are evicted. Entries pinned by a
// handle are skipped, so a store can temporarily exceed its capacity.
//
// # Thread Safety
//
// MovieCache is safe for concurrent use and must not be copied after creation.
package cache
