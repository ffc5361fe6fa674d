package colorman

import (
	"image"

	"github.com/gogpu/colorman/internal/parallel"
)

// MarkRectDirty records that pixels in [xmin, xmax) x [ymin, ymax) changed.
// The region is merged into the pending InvalidRect and flushed into the
// cached buffer of the view acquired next.
func (m *Manager) MarkRectDirty(img *ImageBuffer, xmin, ymin, xmax, ymax int) {
	r := image.Rect(xmin, ymin, xmax, ymax)
	m.mu.Lock()
	img.InvalidRect = img.InvalidRect.Union(r)
	m.mu.Unlock()
}

// PartialUpdate recomputes [xmin, xmax) x [ymin, ymax) of the cached
// display buffer for view on display from the given pixels, on the calling
// goroutine.
//
// linear holds img.Channels floats per pixel and takes precedence over
// bytes, which holds straight RGBA. Image pixel (x, y) is read from source
// pixel (x-offX, y-offY) of a buffer with stride pixels per row.
//
// Every other cached buffer of img is marked stale. Nothing is computed
// when the image has no cached buffer for the view.
func (m *Manager) PartialUpdate(img *ImageBuffer, linear []float32, bytes []byte, stride, offX, offY int,
	view *ViewSettings, display DisplaySettings, xmin, ymin, xmax, ymax int) {
	src := pixelSource{float: linear, bytes: bytes, channels: img.Channels, stride: stride, offX: offX, offY: offY}
	vs := m.resolveViewSettings(view, display)
	m.partialUpdate(img, src, &vs, display, image.Rect(xmin, ymin, xmax, ymax), false)
}

// PartialUpdateThreaded is PartialUpdate with the rows of regions of at
// least 64x64 pixels spread across the worker pool.
func (m *Manager) PartialUpdateThreaded(img *ImageBuffer, linear []float32, bytes []byte, stride, offX, offY int,
	view *ViewSettings, display DisplaySettings, xmin, ymin, xmax, ymax int) {
	src := pixelSource{float: linear, bytes: bytes, channels: img.Channels, stride: stride, offX: offX, offY: offY}
	vs := m.resolveViewSettings(view, display)
	m.partialUpdate(img, src, &vs, display, image.Rect(xmin, ymin, xmax, ymax), true)
}

// flushInvalidRect applies and clears the pending dirty region of img.
func (m *Manager) flushInvalidRect(img *ImageBuffer, view *ViewSettings, display DisplaySettings) {
	m.mu.Lock()
	r := img.InvalidRect
	img.InvalidRect = image.Rectangle{}
	invalid := img.UserFlags&DisplayBufferInvalid != 0
	m.mu.Unlock()

	if r.Empty() || invalid {
		return
	}
	m.partialUpdate(img, imageSource(img), view, display, r, true)
}

func (m *Manager) partialUpdate(img *ImageBuffer, src pixelSource, view *ViewSettings, display DisplaySettings,
	rect image.Rectangle, threaded bool) {
	key := m.newCacheKey(view, display)
	if !key.cacheable() {
		return
	}
	data := m.newCacheData(img, view)

	m.mu.Lock()
	if img.displayFlags == nil {
		m.mu.Unlock()
		return
	}
	var (
		entry *cacheEntry
		h     *CacheHandle
	)
	if img.UserFlags&DisplayBufferInvalid == 0 {
		if ch, state := m.peekLocked(img, key, data); state == stateValid {
			entry, h = ch.Value(), &CacheHandle{h: ch}
		}
	}
	img.displayFlags.KeepOnly(key.display, key.view)
	m.mu.Unlock()

	if entry == nil {
		return
	}
	defer m.ReleaseDisplayBuffer(h)

	rect = rect.Intersect(image.Rect(0, 0, img.Width, img.Height))
	if rect.Empty() {
		return
	}

	var proc *Processor
	skip := src.float == nil && src.bytes != nil && m.rectInDisplaySpace(img, view, display)
	if !skip {
		proc = m.NewDisplayProcessor(view, display)
	}

	job := &displayJob{
		proc:      proc,
		src:       src,
		isData:    img.isData(),
		predivide: img.predivide(),
		dither:    img.Dither,
		dst:       entry.buf,
		dstStride: img.Width,
		rect:      rect,
	}
	m.resolveSourceSpaces(job, img)

	if threaded && parallel.ShouldThread(rect.Dx(), rect.Dy()) {
		m.pool.RunScanlines(rect.Dy(), func(line int) { job.rows(line, 1) })
	} else {
		job.rows(0, rect.Dy())
	}
	m.partialUpdates.Add(1)
	m.logger().Debug("colorman: partial display buffer update",
		"display", key.display, "view", key.view, "rect", rect)
}
