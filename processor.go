package colorman

import (
	"math"

	"github.com/gogpu/colorman/curvemap"
	"github.com/gogpu/colorman/engine"
	"github.com/gogpu/colorman/internal/color"
)

// fltEpsilon is the smallest gamma used to derive the display exponent.
const fltEpsilon = 1.1920929e-07

// Processor applies a color transform with an optional curve mapping run
// first. A Processor without an engine transform leaves colors to the curve
// mapping only; a zero Processor is the identity.
//
// Processors are immutable and safe for concurrent use.
type Processor struct {
	cpu   *engine.CPUProcessor
	curve *curvemap.CurveMapping

	// IsDataResult is true when the target color space holds non-color data.
	IsDataResult bool
}

// NewDisplayProcessor returns a processor from the scene-linear role to the
// color space of the view on display. Exposure, gamma, look and curves are
// taken from view; nil view uses DefaultViewSettings.
//
// A transform the engine cannot build is logged and replaced by the identity.
func (m *Manager) NewDisplayProcessor(view *ViewSettings, display DisplaySettings) *Processor {
	vs := m.resolveViewSettings(view, display)
	name := m.displayName(display)

	p := &Processor{}
	if cs := m.reg.ColorSpaceNamed(m.displaySpaceName(&vs, display)); cs != nil {
		p.IsDataResult = cs.IsData
	}

	req := engine.DisplayRequest{
		From:     m.reg.RoleColorSpaceName(engine.RoleSceneLinear),
		View:     vs.View,
		Display:  name,
		Scale:    1,
		Exponent: 1,
	}
	if vs.Exposure != 0 {
		req.Scale = float32(math.Exp2(float64(vs.Exposure)))
	}
	if vs.Gamma != 1 {
		req.Exponent = 1 / max(fltEpsilon, vs.Gamma)
	}
	if m.reg.UseLook(vs.Look, vs.View) {
		req.Look = vs.Look
	}

	cpu, err := m.reg.Config().DisplayProcessor(req)
	if err != nil {
		m.logger().Warn("colorman: cannot create display processor",
			"display", name, "view", vs.View, "look", req.Look, "err", err)
	}
	p.cpu = cpu

	if vs.useCurves() {
		p.curve = vs.Curve.Copy()
		p.curve.Premultiply()
	}
	return p
}

// NewColorSpaceProcessor returns a processor between two named color spaces
// or roles. A transform the engine cannot build is logged and replaced by the
// identity.
func (m *Manager) NewColorSpaceProcessor(from, to string) *Processor {
	p := &Processor{}
	if cs := m.reg.ColorSpaceNamed(to); cs != nil {
		p.IsDataResult = cs.IsData
	}
	cpu, err := m.reg.Config().Processor(from, to)
	if err != nil {
		m.logger().Warn("colorman: cannot create color space processor",
			"from", from, "to", to, "err", err)
	}
	p.cpu = cpu
	return p
}

// IsIdentity reports whether the processor leaves every pixel unchanged.
func (p *Processor) IsIdentity() bool {
	return p == nil || (p.cpu.IsNoOp() && p.curve == nil)
}

// ApplyV4 transforms a straight-alpha RGBA pixel.
func (p *Processor) ApplyV4(pixel []float32) {
	if p.curve != nil {
		p.curve.EvaluatePremulRGB(pixel)
	}
	p.cpu.ApplyRGBA(pixel)
}

// ApplyV4Predivide transforms a premultiplied RGBA pixel.
func (p *Processor) ApplyV4Predivide(pixel []float32) {
	if p.curve != nil {
		p.curve.EvaluatePremulRGB(pixel)
	}
	p.cpu.ApplyRGBAPredivide(pixel)
}

// ApplyV3 transforms an RGB pixel.
func (p *Processor) ApplyV3(pixel []float32) {
	if p.curve != nil {
		p.curve.EvaluatePremulRGB(pixel)
	}
	p.cpu.ApplyRGB(pixel)
}

// ApplyPixel transforms one pixel with the given channel count. Pixels with
// fewer than three channels only receive the curve mapping.
func (p *Processor) ApplyPixel(pixel []float32, channels int) {
	if p.curve != nil {
		p.curve.ApplyPixel(pixel, channels)
	}
	switch channels {
	case 4:
		p.cpu.ApplyRGBA(pixel)
	case 3:
		p.cpu.ApplyRGB(pixel)
	}
}

// Apply transforms a packed float buffer of width*height pixels. With
// predivide, four channel pixels are treated as premultiplied. Buffers with
// fewer than three channels only receive the curve mapping.
func (p *Processor) Apply(buffer []float32, width, height, channels int, predivide bool) {
	if p.curve != nil {
		n := width * height * channels
		for i := 0; i < n; i += channels {
			p.curve.ApplyPixel(buffer[i:i+channels], channels)
		}
	}
	if channels < 3 {
		return
	}
	img := engine.PackedImage{Data: buffer, Width: width, Height: height, Channels: channels}
	if predivide {
		p.cpu.ApplyPredivide(img)
	} else {
		p.cpu.Apply(img)
	}
}

// ApplyByte transforms a straight-alpha RGBA byte buffer in place.
// Panics unless channels is 4.
func (p *Processor) ApplyByte(buffer []byte, width, height, channels int) {
	if channels != 4 {
		panic("colorman: byte buffers must have 4 channels")
	}
	var px [4]float32
	n := width * height * 4
	for i := 0; i < n; i += 4 {
		b := buffer[i : i+4]
		px = [4]float32{color.ToFloat(b[0]), color.ToFloat(b[1]), color.ToFloat(b[2]), color.ToFloat(b[3])}
		p.ApplyV4(px[:])
		b[0], b[1], b[2], b[3] = color.ToByte(px[0]), color.ToByte(px[1]), color.ToByte(px[2]), color.ToByte(px[3])
	}
}
