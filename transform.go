package colorman

import (
	"github.com/gogpu/colorman/engine"
	"github.com/gogpu/colorman/internal/color"
	"github.com/gogpu/colorman/registry"
)

// TransformBuffer converts a float buffer between two color spaces in place
// on the calling goroutine. An empty from or identical names do nothing.
func (m *Manager) TransformBuffer(buffer []float32, width, height, channels int, from, to string, predivide bool) {
	m.transform(nil, buffer, width, height, channels, from, to, predivide, false)
}

// TransformBufferThreaded is TransformBuffer with rows spread across the
// worker pool.
func (m *Manager) TransformBufferThreaded(buffer []float32, width, height, channels int, from, to string, predivide bool) {
	m.transform(nil, buffer, width, height, channels, from, to, predivide, true)
}

// TransformByte converts a straight RGBA byte buffer between two color
// spaces in place.
func (m *Manager) TransformByte(buffer []byte, width, height int, from, to string) {
	m.transform(buffer, nil, width, height, 4, from, to, false, false)
}

// TransformByteThreaded is TransformByte with rows spread across the worker
// pool.
func (m *Manager) TransformByteThreaded(buffer []byte, width, height int, from, to string) {
	m.transform(buffer, nil, width, height, 4, from, to, false, true)
}

func (m *Manager) transform(bytes []byte, floats []float32, width, height, channels int,
	from, to string, predivide, threaded bool) {
	if from == "" || from == to {
		return
	}
	proc := m.NewColorSpaceProcessor(from, to)
	if !threaded {
		if bytes != nil {
			proc.ApplyByte(bytes, width, height, channels)
		}
		if floats != nil {
			proc.Apply(floats, width, height, channels, predivide)
		}
		return
	}
	m.pool.RunRows(height, func(start, count int) {
		if bytes != nil {
			o := start * width * 4
			proc.ApplyByte(bytes[o:o+count*width*4], width, count, channels)
		}
		if floats != nil {
			o := start * width * channels
			proc.Apply(floats[o:o+count*width*channels], width, count, channels, predivide)
		}
	})
}

// TransformFromByte converts straight RGBA bytes into premultiplied RGBA
// floats in the to color space. dst holds width*height*4 floats.
func (m *Manager) TransformFromByte(dst []float32, src []byte, width, height int, from, to string) {
	n := width * height * 4
	color.FloatFromByte(dst[:n], src[:n])
	color.PremultiplyBuffer(dst[:n], 4)
	m.TransformBuffer(dst, width, height, 4, from, to, true)
}

// TransformFromByteThreaded is TransformFromByte with rows spread across the
// worker pool.
func (m *Manager) TransformFromByteThreaded(dst []float32, src []byte, width, height int, from, to string) {
	if from == "" {
		return
	}
	if from == to {
		n := width * height * 4
		color.FloatFromByte(dst[:n], src[:n])
		color.PremultiplyBuffer(dst[:n], 4)
		return
	}
	proc := m.NewColorSpaceProcessor(from, to)
	m.pool.RunRows(height, func(start, count int) {
		o, n := start*width*4, count*width*4
		rows := dst[o : o+n]
		color.FloatFromByte(rows, src[o:o+n])
		proc.Apply(rows, width, count, 4, false)
		color.PremultiplyBuffer(rows, 4)
	})
}

// TransformPixel converts one straight RGBA pixel between color spaces.
func (m *Manager) TransformPixel(pixel []float32, from, to string) {
	if from == "" || from == to {
		return
	}
	m.NewColorSpaceProcessor(from, to).ApplyV4(pixel)
}

// ColorSpaceToSceneLinearV3 converts an RGB pixel from cs to scene linear.
func (m *Manager) ColorSpaceToSceneLinearV3(pixel []float32, cs *registry.ColorSpace) {
	if cs == nil {
		m.logger().Warn("colorman: conversion from unknown color space")
		return
	}
	cs.ToSceneLinear().ApplyRGB(pixel)
}

// ColorSpaceToSceneLinearV4 converts an RGBA pixel from cs to scene linear.
func (m *Manager) ColorSpaceToSceneLinearV4(pixel []float32, predivide bool, cs *registry.ColorSpace) {
	if cs == nil {
		m.logger().Warn("colorman: conversion from unknown color space")
		return
	}
	if predivide {
		cs.ToSceneLinear().ApplyRGBAPredivide(pixel)
	} else {
		cs.ToSceneLinear().ApplyRGBA(pixel)
	}
}

// ColorSpaceToSceneLinear converts a float buffer of 3 or 4 channels from cs
// to scene linear in place.
func (m *Manager) ColorSpaceToSceneLinear(buffer []float32, width, height, channels int, cs *registry.ColorSpace, predivide bool) {
	if cs == nil {
		m.logger().Warn("colorman: conversion from unknown color space")
		return
	}
	img := engine.PackedImage{Data: buffer, Width: width, Height: height, Channels: channels}
	if predivide {
		cs.ToSceneLinear().ApplyPredivide(img)
	} else {
		cs.ToSceneLinear().Apply(img)
	}
}

// SceneLinearToColorSpaceV3 converts a scene-linear RGB pixel to cs.
func (m *Manager) SceneLinearToColorSpaceV3(pixel []float32, cs *registry.ColorSpace) {
	if cs == nil {
		m.logger().Warn("colorman: conversion to unknown color space")
		return
	}
	cs.FromSceneLinear().ApplyRGB(pixel)
}

// SceneLinearToDisplayV3 converts a scene-linear RGB pixel to the color
// space of display's default view.
func (m *Manager) SceneLinearToDisplayV3(pixel []float32, display *registry.Display) {
	if display == nil {
		return
	}
	display.FromSceneLinear().ApplyRGB(pixel)
}

// DisplayToSceneLinearV3 converts an RGB pixel from the color space of
// display's default view to scene linear.
func (m *Manager) DisplayToSceneLinearV3(pixel []float32, display *registry.Display) {
	if display == nil {
		return
	}
	display.ToSceneLinear().ApplyRGB(pixel)
}

// PixelToDisplaySpaceV4 writes the display rendering of a scene-linear RGBA
// pixel to result.
func (m *Manager) PixelToDisplaySpaceV4(result, pixel []float32, view *ViewSettings, display DisplaySettings) {
	copy(result[:4], pixel[:4])
	m.NewDisplayProcessor(view, display).ApplyV4(result)
}

// PixelToDisplaySpaceV3 writes the display rendering of a scene-linear RGB
// pixel to result.
func (m *Manager) PixelToDisplaySpaceV3(result, pixel []float32, view *ViewSettings, display DisplaySettings) {
	copy(result[:3], pixel[:3])
	m.NewDisplayProcessor(view, display).ApplyV3(result)
}

// ImbufMakeDisplaySpace converts img to the display space in place: the
// float pixels when present, and the byte pixels, allocated first when
// makeByte is set.
func (m *Manager) ImbufMakeDisplaySpace(img *ImageBuffer, view *ViewSettings, display DisplaySettings, makeByte bool) {
	if makeByte {
		img.AllocRect()
	}
	vs := m.resolveViewSettings(view, display)
	m.processDisplayBuffer(img, img.Rect, img.RectFloat, &vs, display)
}

// BufferMakeDisplaySpace renders a premultiplied float buffer into RGBA
// display bytes. The float buffer is left unchanged.
func (m *Manager) BufferMakeDisplaySpace(buffer []float32, display []byte, width, height, channels int, dither float32,
	view *ViewSettings, displaySettings DisplaySettings) {
	n := width * height * channels
	tmp := make([]float32, n)
	copy(tmp, buffer[:n])

	proc := m.NewDisplayProcessor(view, displaySettings)
	m.pool.RunRows(height, func(start, count int) {
		o := start * width * channels
		proc.Apply(tmp[o:o+count*width*channels], width, count, channels, true)
	})
	byteFromFloat(display, tmp, width, height, channels, dither, true)
}

// DisplayBufferTransformApply renders a scene-linear float buffer into RGBA
// display bytes without dithering. The float buffer is left unchanged.
func (m *Manager) DisplayBufferTransformApply(display []byte, linear []float32, width, height, channels int,
	view *ViewSettings, displaySettings DisplaySettings, predivide bool) {
	n := width * height * channels
	tmp := make([]float32, n)
	copy(tmp, linear[:n])

	m.NewDisplayProcessor(view, displaySettings).Apply(tmp, width, height, channels, predivide)
	byteFromFloat(display, tmp, width, height, channels, 0, false)
}

// ImbufMakeLinear converts the float pixels of img from the named color
// space to scene linear and drops its byte pixels. A data color space only
// marks the image as data.
func (m *Manager) ImbufMakeLinear(img *ImageBuffer, from string) {
	if cs := m.reg.ColorSpaceNamed(from); cs != nil && cs.IsData {
		img.Flags |= FlagIsData
		return
	}
	if img.RectFloat == nil {
		return
	}
	img.FreeRect()
	m.TransformBuffer(img.RectFloat, img.Width, img.Height, img.Channels,
		from, m.reg.RoleColorSpaceName(engine.RoleSceneLinear), img.predivide())
}

// SceneLinearToColorPickingV3 converts a scene-linear RGB pixel to the
// color picking role.
func (m *Manager) SceneLinearToColorPickingV3(pixel []float32) {
	if p := m.pickingProcessor(true); p != nil {
		p.ApplyV3(pixel)
	}
}

// ColorPickingToSceneLinearV3 converts an RGB pixel from the color picking
// role to scene linear.
func (m *Manager) ColorPickingToSceneLinearV3(pixel []float32) {
	if p := m.pickingProcessor(false); p != nil {
		p.ApplyV3(pixel)
	}
}

// pickingProcessor lazily creates the color picking processors. When either
// role is missing both stay nil and conversions are skipped.
func (m *Manager) pickingProcessor(fromLinear bool) *Processor {
	m.pickMu.Lock()
	defer m.pickMu.Unlock()

	if m.pickFromLinear == nil && !m.pickFailed && !m.closed.Load() {
		linear := m.reg.RoleColorSpaceName(engine.RoleSceneLinear)
		picking := m.reg.RoleColorSpaceName(engine.RoleColorPicking)
		if linear == "" || picking == "" {
			m.pickFailed = true
			m.logger().Warn("colorman: color picking roles not available")
			return nil
		}
		m.pickFromLinear = m.NewColorSpaceProcessor(linear, picking)
		m.pickToLinear = m.NewColorSpaceProcessor(picking, linear)
	}
	if fromLinear {
		return m.pickFromLinear
	}
	return m.pickToLinear
}

// Luminance returns the luma of a scene-linear RGB pixel.
func (m *Manager) Luminance(rgb []float32) float32 {
	c := m.reg.LumaCoefficients()
	return c[0]*rgb[0] + c[1]*rgb[1] + c[2]*rgb[2]
}

// byteFromFloat quantizes a packed float buffer into RGBA bytes row by row.
func byteFromFloat(dst []byte, src []float32, width, height, channels int, dither float32, predivide bool) {
	for y := range height {
		color.ByteRowFromFloat(dst[y*width*4:(y+1)*width*4], src[y*width*channels:(y+1)*width*channels],
			channels, 0, y, dither, predivide)
	}
}
