// Package colorman renders color-managed display buffers for images and
// caches them.
//
// # Overview
//
// An ImageBuffer holds byte and/or float pixels in known color spaces. A
// Manager turns it into an 8-bit RGBA buffer for a display device and a
// view transform, applying exposure, gamma, a look and an optional curve
// mapping on the way. Results are cached per image and per (display, view)
// pair, and reused until the view parameters or the pixels change.
//
// # Quick Start
//
//	import "github.com/gogpu/colorman"
//
//	m := colorman.NewManager()
//	defer m.Close()
//
//	img := colorman.NewFloatImage(640, 480, 4)
//	// ... fill img.RectFloat with premultiplied scene-linear RGBA ...
//
//	view := m.DefaultViewSettings(colorman.DisplaySettings{})
//	view.Exposure = 1
//	buf, h := m.AcquireDisplayBuffer(img, &view, colorman.DisplaySettings{})
//	defer m.ReleaseDisplayBuffer(h)
//
// # Incremental Updates
//
// Painting tools report changed regions with MarkRectDirty. The next
// AcquireDisplayBuffer recomputes only that region of the buffer for the
// acquired view and marks the buffers of every other view stale. Callers
// that already hold converted pixels can push them directly with
// PartialUpdate. InvalidateDisplayBuffers discards every cached buffer of an
// image at once.
//
// # Architecture
//
// The module is organized into:
//   - engine: color configuration, transform ops and compiled processors
//   - registry: named and indexed color spaces, displays, views and looks
//   - curvemap: RGB curve mappings with a change version
//   - cache: keyed LRU store with reference-counted handles
//   - colorman: processors, display buffer cache and buffer transforms
//
// # Concurrency
//
// A Manager is safe for concurrent use. Buffers are computed outside of its
// lock, so two goroutines missing on the same view both compute and the
// buffer stored last is kept. Rows of large buffers are split across a
// worker pool; regions smaller than 64x64 pixels are processed on the
// calling goroutine.
package colorman

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
