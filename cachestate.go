package colorman

import (
	"github.com/gogpu/colorman/cache"
	"github.com/gogpu/colorman/curvemap"
	"github.com/gogpu/colorman/internal/flags"
)

// cacheKey identifies a display buffer of one image by 1-based registry
// indices.
type cacheKey struct {
	view    int
	display int
}

func hashCacheKey(k cacheKey) uint64 {
	return cache.IntPairHasher(k.display, k.view)
}

// cacheData are the view parameters a cached buffer was computed with.
// A lookup only hits when they compare equal.
type cacheData struct {
	look         int
	exposure     float32
	gamma        float32
	dither       float32
	flag         ViewFlag
	curve        *curvemap.CurveMapping
	curveVersion uint64
}

type cacheEntry struct {
	data cacheData
	buf  []byte
}

// CacheHandle keeps a display buffer alive until released.
type CacheHandle struct {
	h *cache.Handle[cacheKey, *cacheEntry]
}

// bufferState is the state of one (display, view) buffer of an image.
//
//	absent -> valid    computed and stored
//	valid  -> valid    hit, or patched by a partial update
//	valid  -> stale    parameters changed, the image was invalidated, or
//	                   the entry was evicted while its bit is still set
//	stale  -> absent   removed on lookup
//	stale  -> valid    recomputed and stored
//	valid  -> absent   cache freed
type bufferState uint8

const (
	stateAbsent bufferState = iota
	stateStale
	stateValid
)

var stateNames = [...]string{"absent", "stale", "valid"}

func (s bufferState) String() string { return stateNames[s] }

var stateTransitions = [3][3]bool{
	stateAbsent: {stateValid: true},
	stateStale:  {stateAbsent: true, stateValid: true},
	stateValid:  {stateValid: true, stateStale: true, stateAbsent: true},
}

// canTransition reports whether a buffer may move from s to next.
func (s bufferState) canTransition(next bufferState) bool {
	return stateTransitions[s][next]
}

// cacheable reports whether both names resolved to registry entries.
func (k cacheKey) cacheable() bool {
	return k.view > 0 && k.display > 0
}

func (m *Manager) newCacheKey(view *ViewSettings, display DisplaySettings) cacheKey {
	return cacheKey{
		view:    m.reg.ViewNamedIndex(view.View),
		display: m.reg.DisplayNamedIndex(m.displayName(display)),
	}
}

func (m *Manager) newCacheData(img *ImageBuffer, view *ViewSettings) cacheData {
	d := cacheData{
		look:     m.reg.LookNamedIndex(view.Look),
		exposure: view.Exposure,
		gamma:    view.Gamma,
		dither:   img.Dither,
		flag:     view.Flag,
		curve:    view.Curve,
	}
	if view.Curve != nil {
		d.curveVersion = view.Curve.Version()
	}
	return d
}

// ensureFlagsLocked allocates the image flags table sized to the registry,
// or wipes it when the image was invalidated. Caller must hold m.mu.
func (m *Manager) ensureFlagsLocked(img *ImageBuffer) {
	displays, views := len(m.reg.Displays()), len(m.reg.Views())
	switch {
	case img.displayFlags == nil:
		img.displayFlags = flags.New(displays, views)
	case img.UserFlags&DisplayBufferInvalid != 0:
		img.displayFlags.ClearAll()
		img.UserFlags &^= DisplayBufferInvalid
	case !img.displayFlags.Covers(displays, views):
		img.displayFlags = img.displayFlags.Grow(displays, views)
	}
}

// peekLocked classifies the buffer stored under key without changing the
// cache. A valid buffer is returned with a handle. A flagged pair whose entry
// is missing or was computed with other parameters is stale. Caller must
// hold m.mu.
func (m *Manager) peekLocked(img *ImageBuffer, key cacheKey, data cacheData) (*cache.Handle[cacheKey, *cacheEntry], bufferState) {
	if !img.displayFlags.Has(key.display, key.view) {
		return nil, stateAbsent
	}
	if img.displayCache == nil {
		return nil, stateStale
	}
	h, ok := img.displayCache.Get(key)
	if !ok {
		return nil, stateStale
	}
	if h.Value().data != data {
		h.Release()
		return nil, stateStale
	}
	return h, stateValid
}

// stateLocked is peekLocked for the acquire path: a stale entry is also
// removed from the cache. Caller must hold m.mu.
func (m *Manager) stateLocked(img *ImageBuffer, key cacheKey, data cacheData) (*cache.Handle[cacheKey, *cacheEntry], bufferState) {
	h, state := m.peekLocked(img, key, data)
	if state == stateStale && img.displayCache != nil && img.displayCache.Delete(key) {
		m.logger().Debug("colorman: display buffer stale",
			"display", key.display, "view", key.view)
	}
	return h, state
}

// putLocked stores buf under key and marks the pair valid. Caller must hold
// m.mu.
func (m *Manager) putLocked(img *ImageBuffer, key cacheKey, data cacheData, buf []byte, from bufferState) *cache.Handle[cacheKey, *cacheEntry] {
	if !from.canTransition(stateValid) {
		panic("colorman: invalid display buffer state transition from " + from.String())
	}
	if img.displayCache == nil {
		img.displayCache = cache.New[cacheKey, *cacheEntry]("display buffers",
			m.cacheCapacity, hashCacheKey, cache.ComparableEqual[cacheKey])
	}
	img.displayFlags.Set(key.display, key.view)
	return img.displayCache.Put(key, &cacheEntry{data: data, buf: buf})
}
