package colorman

// AcquireDisplayBuffer returns img rendered for view on display as RGBA
// bytes, four per pixel, together with a handle that keeps the buffer alive.
// Release the handle with ReleaseDisplayBuffer when done reading. The buffer
// must not be modified.
//
// A nil view uses DefaultViewSettings. Images without pixels return nil.
// Views or displays unknown to the registry are rendered but not cached,
// and come back with a nil handle.
// Byte images that already are in the display space are returned as-is
// with a nil handle.
//
// A pending InvalidRect is flushed into the cached buffer of this view
// first. Buffers are cached per (display, view) and reused while exposure,
// gamma, look, dither, flags and curve mapping are unchanged.
func (m *Manager) AcquireDisplayBuffer(img *ImageBuffer, view *ViewSettings, display DisplaySettings) ([]byte, *CacheHandle) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, nil
	}
	vs := m.resolveViewSettings(view, display)

	if img.RectFloat == nil && img.RectColorspace != nil && img.Channels == 4 &&
		m.rectInDisplaySpace(img, &vs, display) {
		return img.Rect, nil
	}

	m.flushInvalidRect(img, &vs, display)

	key := m.newCacheKey(&vs, display)
	if !key.cacheable() {
		m.cacheMisses.Add(1)
		buf := make([]byte, img.Width*img.Height*4)
		m.processDisplayBuffer(img, buf, nil, &vs, display)
		m.buffersBuilt.Add(1)
		return buf, nil
	}
	data := m.newCacheData(img, &vs)

	m.mu.Lock()
	m.ensureFlagsLocked(img)
	h, state := m.stateLocked(img, key, data)
	m.mu.Unlock()

	if state == stateValid {
		m.cacheHits.Add(1)
		m.logger().Debug("colorman: display buffer hit",
			"display", key.display, "view", key.view)
		return h.Value().buf, &CacheHandle{h: h}
	}
	m.cacheMisses.Add(1)

	buf := make([]byte, img.Width*img.Height*4)
	m.processDisplayBuffer(img, buf, nil, &vs, display)
	m.buffersBuilt.Add(1)

	m.mu.Lock()
	h = m.putLocked(img, key, data, buf, state)
	m.mu.Unlock()

	m.logger().Debug("colorman: display buffer built",
		"display", key.display, "view", key.view, "from", state,
		"width", img.Width, "height", img.Height)
	return buf, &CacheHandle{h: h}
}

// ReleaseDisplayBuffer releases a handle returned by AcquireDisplayBuffer.
// Nil handles are ignored.
func (m *Manager) ReleaseDisplayBuffer(h *CacheHandle) {
	if h == nil {
		return
	}
	h.h.Release()
}

// InvalidateDisplayBuffers marks every cached display buffer of img stale.
func (m *Manager) InvalidateDisplayBuffers(img *ImageBuffer) {
	m.mu.Lock()
	img.UserFlags |= DisplayBufferInvalid
	m.mu.Unlock()
}

// FreeCache drops every cached display buffer of img. Buffers held through
// unreleased handles stay valid until released.
func (m *Manager) FreeCache(img *ImageBuffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if img.displayCache != nil {
		img.displayCache.Free()
		img.displayCache = nil
	}
	img.displayFlags = nil
}

// CachedDisplayBuffers returns the number of display buffers cached for img.
func (m *Manager) CachedDisplayBuffers(img *ImageBuffer) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if img.displayCache == nil {
		return 0
	}
	return img.displayCache.Len()
}
