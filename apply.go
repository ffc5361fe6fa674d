package colorman

import (
	"image"

	"github.com/gogpu/colorman/engine"
	"github.com/gogpu/colorman/internal/color"
	scratchpool "github.com/gogpu/colorman/internal/scratch"
)

// pixelSource is the image data a display buffer is computed from. Image
// pixel (x, y) lives at source pixel (x-offX, y-offY) of a buffer with
// stride pixels per row. Float pixels take precedence over bytes.
type pixelSource struct {
	float    []float32
	bytes    []byte
	channels int
	stride   int
	offX     int
	offY     int
}

// displayJob renders a rectangle of an image into display buffers.
//
// A nil proc means the byte pixels are already in the display space: they
// are copied, or requantized when dithering.
type displayJob struct {
	proc        *Processor
	src         pixelSource
	byteLinear  *engine.CPUProcessor
	floatLinear *engine.CPUProcessor
	srgbBytes   bool // byte source decodes through the sRGB table
	isData      bool
	predivide   bool
	dither      float32

	// dst receives RGBA bytes and dstFloat, when set, premultiplied floats
	// with the source channel count. Both use dstStride pixels per row and
	// image coordinates.
	dst       []byte
	dstFloat  []float32
	dstStride int

	rect image.Rectangle
}

// sourceChannels returns the channel count of the linear scratch rows.
func (j *displayJob) sourceChannels() int {
	if j.src.float != nil {
		return j.src.channels
	}
	return 4
}

// rows renders rows [start, start+count) of the job rectangle.
func (j *displayJob) rows(start, count int) {
	width := j.rect.Dx()
	scratch := scratchpool.GetRow(width * j.sourceChannels())
	defer scratchpool.PutRow(scratch)
	for y := j.rect.Min.Y + start; y < j.rect.Min.Y+start+count; y++ {
		j.row(y, scratch)
	}
}

func (j *displayJob) row(y int, scratch []float32) {
	width := j.rect.Dx()
	x := j.rect.Min.X
	channels := j.sourceChannels()
	srcPix := (y-j.src.offY)*j.src.stride + (x - j.src.offX)

	var dst []byte
	if j.dst != nil {
		o := (y*j.dstStride + x) * 4
		dst = j.dst[o : o+width*4]
	}

	if j.proc == nil && j.src.float == nil && j.dither == 0 {
		src := j.src.bytes[srcPix*4 : (srcPix+width)*4]
		if dst != nil && &dst[0] != &src[0] {
			copy(dst, src)
		}
		if j.dstFloat != nil {
			color.FloatFromByte(j.floatRow(y), src)
		}
		return
	}

	straight := j.linearRow(scratch, srcPix, width, channels)
	predivide := j.predivide && !straight

	if j.proc != nil && !j.isData {
		j.proc.Apply(scratch, width, 1, channels, predivide)
	}

	if dst != nil {
		color.ByteRowFromFloat(dst, scratch, channels, x, y, j.dither, predivide)
	}
	if j.dstFloat != nil {
		out := j.floatRow(y)
		copy(out, scratch)
		if straight && channels == 4 {
			color.PremultiplyBuffer(out, 4)
		}
	}
}

// floatRow returns the float output row y of the job rectangle.
func (j *displayJob) floatRow(y int) []float32 {
	channels := j.sourceChannels()
	o := (y*j.dstStride + j.rect.Min.X) * channels
	return j.dstFloat[o : o+j.rect.Dx()*channels]
}

// linearRow fills scratch with scene-linear pixels and reports whether they
// have straight alpha.
func (j *displayJob) linearRow(scratch []float32, srcPix, width, channels int) bool {
	convert := j.proc != nil && !j.isData && !j.proc.IsDataResult
	row := engine.PackedImage{Data: scratch, Width: width, Height: 1, Channels: channels}

	if j.src.float == nil {
		src := j.src.bytes[srcPix*4 : (srcPix+width)*4]
		switch {
		case convert && j.srgbBytes:
			color.LinearFromSRGBByte(scratch, src)
		case convert:
			color.FloatFromByte(scratch, src)
			j.byteLinear.Apply(row)
		default:
			color.FloatFromByte(scratch, src)
		}
		return true
	}

	copy(scratch, j.src.float[srcPix*channels:(srcPix+width)*channels])
	if convert && channels >= 3 {
		if j.predivide {
			j.floatLinear.ApplyPredivide(row)
		} else {
			j.floatLinear.Apply(row)
		}
	}
	return false
}

// newDisplayJob prepares a full image render from the image's own storage.
func (m *Manager) newDisplayJob(img *ImageBuffer, proc *Processor, dst []byte, dstFloat []float32) *displayJob {
	j := &displayJob{
		proc:      proc,
		src:       imageSource(img),
		isData:    img.isData(),
		predivide: img.predivide(),
		dither:    img.Dither,
		dst:       dst,
		dstFloat:  dstFloat,
		dstStride: img.Width,
		rect:      image.Rect(0, 0, img.Width, img.Height),
	}
	m.resolveSourceSpaces(j, img)
	return j
}

// resolveSourceSpaces looks up the processors that bring the job source to
// scene linear. A float source without a color space is already linear.
func (m *Manager) resolveSourceSpaces(j *displayJob, img *ImageBuffer) {
	if j.proc == nil || j.isData || j.proc.IsDataResult {
		return
	}
	if j.src.float != nil {
		if img.FloatColorspace != nil {
			j.floatLinear = img.FloatColorspace.ToSceneLinear()
		}
		return
	}
	cs := m.byteSpace(img)
	switch {
	case cs == nil:
	case cs.IsSRGB():
		j.srgbBytes = true
	default:
		j.byteLinear = cs.ToSceneLinear()
	}
}

func imageSource(img *ImageBuffer) pixelSource {
	return pixelSource{
		float:    img.RectFloat,
		bytes:    img.Rect,
		channels: img.Channels,
		stride:   img.Width,
	}
}

// processDisplayBuffer renders the whole image into dst (RGBA bytes) and/or
// dstFloat, splitting rows across the worker pool.
func (m *Manager) processDisplayBuffer(img *ImageBuffer, dst []byte, dstFloat []float32, view *ViewSettings, display DisplaySettings) {
	var proc *Processor
	skip := img.RectFloat == nil && img.RectColorspace != nil && m.rectInDisplaySpace(img, view, display)
	if !skip {
		proc = m.NewDisplayProcessor(view, display)
	}
	job := m.newDisplayJob(img, proc, dst, dstFloat)
	m.pool.RunRows(img.Height, job.rows)
}

// rectInDisplaySpace reports whether the byte pixels already are what the
// view would display: no curves, exposure or gamma, no look with its own
// process space, and the byte color space equals the display color space.
func (m *Manager) rectInDisplaySpace(img *ImageBuffer, view *ViewSettings, display DisplaySettings) bool {
	if img.RectColorspace == nil {
		return false
	}
	if view.Flag&ViewUseCurves != 0 || view.Exposure != 0 || view.Gamma != 1 {
		return false
	}
	if look := m.reg.LookNamed(view.Look); look != nil && look.ProcessSpace != "" {
		return false
	}
	to := m.displaySpaceName(view, display)
	return to != "" && img.RectColorspace.Name == to
}
