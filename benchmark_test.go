package colorman

import (
	"testing"
)

func BenchmarkAcquireDisplayBufferMiss(b *testing.B) {
	m := newTestManager(b)
	img := gradientImage(512, 512)
	view := m.DefaultViewSettings(DisplaySettings{})

	b.ReportAllocs()
	for b.Loop() {
		m.InvalidateDisplayBuffers(img)
		_, h := m.AcquireDisplayBuffer(img, &view, DisplaySettings{})
		m.ReleaseDisplayBuffer(h)
	}
}

func BenchmarkAcquireDisplayBufferHit(b *testing.B) {
	m := newTestManager(b)
	img := gradientImage(512, 512)
	view := m.DefaultViewSettings(DisplaySettings{})
	_, h := m.AcquireDisplayBuffer(img, &view, DisplaySettings{})
	m.ReleaseDisplayBuffer(h)

	b.ReportAllocs()
	for b.Loop() {
		_, h := m.AcquireDisplayBuffer(img, &view, DisplaySettings{})
		m.ReleaseDisplayBuffer(h)
	}
}

func BenchmarkPartialUpdate(b *testing.B) {
	m := newTestManager(b)
	img := gradientImage(512, 512)
	_, h := m.AcquireDisplayBuffer(img, nil, DisplaySettings{})
	m.ReleaseDisplayBuffer(h)

	b.ReportAllocs()
	for b.Loop() {
		m.PartialUpdateThreaded(img, img.RectFloat, nil, img.Width, 0, 0, nil, DisplaySettings{}, 128, 128, 384, 384)
	}
}
