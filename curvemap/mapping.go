package curvemap

import (
	"sync/atomic"
)

// Curve indices within a CurveMapping.
const (
	Red = iota
	Green
	Blue
	Combined
)

// CurveMapping is a set of RGB curves with black and white levels.
//
// Fields may be edited directly; call Changed afterwards. Evaluation methods
// only read, so a mapping that is no longer edited may be shared between
// goroutines. Copies handed to the pixel pipeline are never edited.
type CurveMapping struct {
	Curves [4]Curve
	Black  [3]float32
	White  [3]float32

	// Extrapolate extends curves past their end points along the end
	// segments instead of holding the end values.
	Extrapolate bool

	version       atomic.Uint64
	premultiplied bool
}

// New returns a mapping with identity curves and levels.
func New() *CurveMapping {
	m := &CurveMapping{
		White: [3]float32{1, 1, 1},
	}
	for i := range m.Curves {
		m.Curves[i] = Identity()
	}
	return m
}

// Changed records an in-place edit. Points are re-sorted and sampled tables
// dropped.
func (m *CurveMapping) Changed() {
	for i := range m.Curves {
		m.Curves[i].sort()
	}
	m.premultiplied = false
	m.version.Add(1)
}

// Version returns the edit counter.
func (m *CurveMapping) Version() uint64 {
	return m.version.Load()
}

// Copy returns a deep copy sharing no storage with m. The copy keeps m's
// version.
func (m *CurveMapping) Copy() *CurveMapping {
	c := &CurveMapping{
		Black:         m.Black,
		White:         m.White,
		Extrapolate:   m.Extrapolate,
		premultiplied: m.premultiplied,
	}
	for i := range m.Curves {
		c.Curves[i] = m.Curves[i].clone()
	}
	c.version.Store(m.Version())
	return c
}

// IsPremultiplied reports whether Premultiply has been applied since the
// last edit.
func (m *CurveMapping) IsPremultiplied() bool {
	return m.premultiplied
}

// Premultiply folds the combined curve into the red, green and blue curve
// tables, so EvaluatePremulRGB applies both. The combined curve is left
// untouched. Calling it twice has no further effect.
func (m *CurveMapping) Premultiply() {
	if m.premultiplied {
		return
	}
	comb := &m.Curves[Combined]
	for i := Red; i <= Blue; i++ {
		c := &m.Curves[i]
		c.build(m.Extrapolate)
		for j, v := range c.table {
			c.table[j] = comb.evalPoints(v, m.Extrapolate)
		}
	}
	m.premultiplied = true
}

// Evaluate evaluates curve index (Red, Green, Blue or Combined) at v.
func (m *CurveMapping) Evaluate(index int, v float32) float32 {
	return m.Curves[index].eval(v, m.Extrapolate)
}

// EvaluatePremulRGB applies the black and white levels and the channel
// curves to the first three values of pixel.
func (m *CurveMapping) EvaluatePremulRGB(pixel []float32) {
	for i := Red; i <= Blue; i++ {
		v := pixel[i] - m.Black[i]
		if d := m.White[i] - m.Black[i]; d != 0 {
			v /= d
		}
		pixel[i] = m.Curves[i].eval(v, m.Extrapolate)
	}
}

// ApplyPixel applies the mapping to a pixel with the given channel count.
// One and two channel pixels run each value through the red curve; wider
// pixels use EvaluatePremulRGB.
func (m *CurveMapping) ApplyPixel(pixel []float32, channels int) {
	switch channels {
	case 1:
		pixel[0] = m.Evaluate(Red, pixel[0])
	case 2:
		pixel[0] = m.Evaluate(Red, pixel[0])
		pixel[1] = m.Evaluate(Red, pixel[1])
	default:
		m.EvaluatePremulRGB(pixel)
	}
}
