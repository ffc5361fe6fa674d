package colorman

import (
	"image"
	stdcolor "image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/colorman/cache"
	"github.com/gogpu/colorman/engine"
	"github.com/gogpu/colorman/internal/flags"
	"github.com/gogpu/colorman/registry"
)

// ImageFlags describe how the pixels of an ImageBuffer are interpreted.
type ImageFlags uint8

const (
	// FlagIsData marks pixels as non-color data. They are never color
	// converted.
	FlagIsData ImageFlags = 1 << iota
)

// UserFlags are set by callers to signal changes to the Manager.
type UserFlags uint8

const (
	// DisplayBufferInvalid marks every cached display buffer of the image
	// stale. The next acquisition clears it.
	DisplayBufferInvalid UserFlags = 1 << iota
)

// ImageBuffer is an image with byte and/or float pixel storage.
//
// Rect holds straight-alpha RGBA bytes, four per pixel. RectFloat holds
// Channels floats per pixel, premultiplied unless AlphaChannelPacked is set.
// When both are present RectFloat is the source of display buffers.
//
// The cache side-structure is owned by the Manager that renders the image.
// Pixel storage must not change while a display buffer is being acquired;
// report changes with MarkRectDirty or InvalidateDisplayBuffers.
type ImageBuffer struct {
	Width    int
	Height   int
	Channels int

	Rect      []byte
	RectFloat []float32

	// Dither is the amplitude of the noise added before quantizing to bytes,
	// in byte steps. Zero disables dithering.
	Dither float32

	RectColorspace  *registry.ColorSpace
	FloatColorspace *registry.ColorSpace

	Flags     ImageFlags
	UserFlags UserFlags

	// InvalidRect is the pending dirty region, flushed by the next
	// acquisition.
	InvalidRect image.Rectangle

	// AlphaChannelPacked means alpha does not affect color: float pixels
	// are straight and never divided by alpha.
	AlphaChannelPacked bool

	displayFlags *flags.Table
	displayCache *cache.MovieCache[cacheKey, *cacheEntry]
}

// NewByteImage allocates a 4 channel image with byte storage.
func NewByteImage(width, height int) *ImageBuffer {
	return &ImageBuffer{
		Width:    width,
		Height:   height,
		Channels: 4,
		Rect:     make([]byte, width*height*4),
	}
}

// NewFloatImage allocates an image with float storage of the given channel
// count.
func NewFloatImage(width, height, channels int) *ImageBuffer {
	return &ImageBuffer{
		Width:     width,
		Height:    height,
		Channels:  channels,
		RectFloat: make([]float32, width*height*channels),
	}
}

// FromImage copies src into a new byte image. Colors are converted to
// straight alpha.
func FromImage(src image.Image) *ImageBuffer {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return imageFromNRGBA(dst)
}

// FromImageScaled resamples src to width x height with a Catmull-Rom filter
// into a new byte image.
func FromImageScaled(src image.Image, width, height int) *ImageBuffer {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return imageFromNRGBA(dst)
}

func imageFromNRGBA(img *image.NRGBA) *ImageBuffer {
	b := img.Bounds()
	return &ImageBuffer{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: 4,
		Rect:     img.Pix,
	}
}

// ToNRGBA wraps an RGBA display buffer of width x height pixels as an
// image without copying.
func ToNRGBA(buf []byte, width, height int) *image.NRGBA {
	return &image.NRGBA{
		Pix:    buf,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// At returns the byte color of pixel (x, y), for inspection.
func (img *ImageBuffer) At(x, y int) stdcolor.NRGBA {
	i := (y*img.Width + x) * 4
	p := img.Rect[i : i+4]
	return stdcolor.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// AllocRect allocates byte storage if the image has none.
func (img *ImageBuffer) AllocRect() {
	if img.Rect == nil {
		img.Rect = make([]byte, img.Width*img.Height*4)
	}
}

// FreeRect drops byte storage.
func (img *ImageBuffer) FreeRect() {
	img.Rect = nil
}

// predivide reports whether float pixels are premultiplied.
func (img *ImageBuffer) predivide() bool {
	return !img.AlphaChannelPacked
}

// isData reports whether the pixels are non-color data.
func (img *ImageBuffer) isData() bool {
	return img.Flags&FlagIsData != 0
}

// AssignRectColorspace sets the byte color space by name and updates
// FlagIsData from it. Unknown names leave the image unchanged.
func (m *Manager) AssignRectColorspace(img *ImageBuffer, name string) {
	cs := m.reg.ColorSpaceNamed(name)
	if cs == nil {
		return
	}
	img.RectColorspace = cs
	m.setIsData(img, cs)
}

// AssignFloatColorspace sets the float color space by name and updates
// FlagIsData from it. Unknown names leave the image unchanged.
func (m *Manager) AssignFloatColorspace(img *ImageBuffer, name string) {
	cs := m.reg.ColorSpaceNamed(name)
	if cs == nil {
		return
	}
	img.FloatColorspace = cs
	m.setIsData(img, cs)
}

// CheckIsData sets or clears FlagIsData from the named color space.
func (m *Manager) CheckIsData(img *ImageBuffer, name string) {
	if cs := m.reg.ColorSpaceNamed(name); cs != nil {
		m.setIsData(img, cs)
	}
}

func (m *Manager) setIsData(img *ImageBuffer, cs *registry.ColorSpace) {
	if cs.IsData {
		img.Flags |= FlagIsData
	} else {
		img.Flags &^= FlagIsData
	}
}

// SetDefaultSpaces assigns the default byte role to the byte color space.
func (m *Manager) SetDefaultSpaces(img *ImageBuffer) {
	img.RectColorspace = m.reg.RoleColorSpace(engine.RoleDefaultByte)
}

// byteSpace returns the color space of the byte pixels, defaulting to the
// default byte role.
func (m *Manager) byteSpace(img *ImageBuffer) *registry.ColorSpace {
	if img.RectColorspace != nil {
		return img.RectColorspace
	}
	return m.reg.RoleColorSpace(engine.RoleDefaultByte)
}
