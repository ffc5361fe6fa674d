package engine

import "math"

// Op is a single step of a color transform operating on an RGB triple in place.
//
// Ops must be pure functions of their input: processors built from them are
// shared between goroutines.
type Op interface {
	Apply(rgb *[3]float32)
}

// Matrix is a row-major 3x3 color matrix.
type Matrix [9]float32

// Apply multiplies rgb by the matrix.
func (m Matrix) Apply(rgb *[3]float32) {
	r, g, b := rgb[0], rgb[1], rgb[2]
	rgb[0] = m[0]*r + m[1]*g + m[2]*b
	rgb[1] = m[3]*r + m[4]*g + m[5]*b
	rgb[2] = m[6]*r + m[7]*g + m[8]*b
}

// Invert returns the inverse of m. The second result is false when m is singular.
func (m Matrix) Invert() (Matrix, bool) {
	a := [9]float64{}
	for i, v := range m {
		a[i] = float64(v)
	}
	c00 := a[4]*a[8] - a[5]*a[7]
	c01 := a[5]*a[6] - a[3]*a[8]
	c02 := a[3]*a[7] - a[4]*a[6]
	det := a[0]*c00 + a[1]*c01 + a[2]*c02
	if math.Abs(det) < 1e-12 {
		return Matrix{}, false
	}
	inv := 1 / det
	return Matrix{
		float32(c00 * inv),
		float32((a[2]*a[7] - a[1]*a[8]) * inv),
		float32((a[1]*a[5] - a[2]*a[4]) * inv),
		float32(c01 * inv),
		float32((a[0]*a[8] - a[2]*a[6]) * inv),
		float32((a[2]*a[3] - a[0]*a[5]) * inv),
		float32(c02 * inv),
		float32((a[1]*a[6] - a[0]*a[7]) * inv),
		float32((a[0]*a[4] - a[1]*a[3]) * inv),
	}, true
}

// Scale multiplies every channel by a constant. Used for exposure.
type Scale float32

// Apply implements Op.
func (s Scale) Apply(rgb *[3]float32) {
	f := float32(s)
	rgb[0] *= f
	rgb[1] *= f
	rgb[2] *= f
}

// Exponent raises every non-negative channel to a power. Used for display gamma.
// Negative values pass through unchanged.
type Exponent float32

// Apply implements Op.
func (e Exponent) Apply(rgb *[3]float32) {
	p := float64(e)
	for i, v := range rgb {
		if v > 0 {
			rgb[i] = float32(math.Pow(float64(v), p))
		}
	}
}

// TransferKind selects a one-dimensional transfer function.
type TransferKind uint8

const (
	// TransferSRGB is the IEC 61966-2-1 piecewise curve.
	TransferSRGB TransferKind = iota
	// TransferRec709 is the ITU-R BT.709 camera OETF.
	TransferRec709
	// TransferGamma is a pure power curve with exponent Gamma.
	TransferGamma
	// TransferLog2 is a normalized log2 encoding around middle gray, as used
	// by log working spaces. Range is [MinStops, MaxStops] relative to 0.18.
	TransferLog2
)

// Transfer applies a transfer function channel-wise. When Inverse is false it
// encodes (linear -> non-linear), otherwise it decodes.
type Transfer struct {
	Kind     TransferKind
	Inverse  bool
	Gamma    float64
	MinStops float64
	MaxStops float64
}

// Apply implements Op.
func (t Transfer) Apply(rgb *[3]float32) {
	for i, v := range rgb {
		if t.Inverse {
			rgb[i] = float32(t.decode(float64(v)))
		} else {
			rgb[i] = float32(t.encode(float64(v)))
		}
	}
}

// Invert returns the transfer in the opposite direction.
func (t Transfer) Invert() Transfer {
	t.Inverse = !t.Inverse
	return t
}

func (t Transfer) encode(v float64) float64 {
	switch t.Kind {
	case TransferSRGB:
		if v <= 0.0031308 {
			return v * 12.92
		}
		return 1.055*math.Pow(v, 1.0/2.4) - 0.055
	case TransferRec709:
		if v < 0.018 {
			return v * 4.5
		}
		return 1.099*math.Pow(v, 0.45) - 0.099
	case TransferGamma:
		if v <= 0 {
			return v
		}
		return math.Pow(v, 1/t.Gamma)
	case TransferLog2:
		if v <= 0 {
			v = 1e-10
		}
		stops := math.Log2(v / 0.18)
		return (stops - t.MinStops) / (t.MaxStops - t.MinStops)
	}
	return v
}

func (t Transfer) decode(v float64) float64 {
	switch t.Kind {
	case TransferSRGB:
		if v <= 0.04045 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	case TransferRec709:
		if v < 0.081 {
			return v / 4.5
		}
		return math.Pow((v+0.099)/1.099, 1/0.45)
	case TransferGamma:
		if v <= 0 {
			return v
		}
		return math.Pow(v, t.Gamma)
	case TransferLog2:
		stops := v*(t.MaxStops-t.MinStops) + t.MinStops
		return 0.18 * math.Exp2(stops)
	}
	return v
}

// Contrast pivots values around Pivot: out = pivot + (in - pivot) * Amount.
// Meant to run in a log process space.
type Contrast struct {
	Amount float32
	Pivot  float32
}

// Apply implements Op.
func (c Contrast) Apply(rgb *[3]float32) {
	for i, v := range rgb {
		rgb[i] = c.Pivot + (v-c.Pivot)*c.Amount
	}
}

// Saturation blends each channel toward the pixel luma.
type Saturation struct {
	Amount float32
	Luma   [3]float32
}

// Apply implements Op.
func (s Saturation) Apply(rgb *[3]float32) {
	l := rgb[0]*s.Luma[0] + rgb[1]*s.Luma[1] + rgb[2]*s.Luma[2]
	for i, v := range rgb {
		rgb[i] = l + (v-l)*s.Amount
	}
}

// Sigmoid is a display tone curve mapping [0,1] log values to display code
// values with an S shape. It clamps its input to [0,1] and is not invertible.
type Sigmoid struct {
	Power float64
}

// Apply implements Op.
func (s Sigmoid) Apply(rgb *[3]float32) {
	for i, v := range rgb {
		x := math.Min(math.Max(float64(v), 0), 1)
		a := math.Pow(x, s.Power)
		b := math.Pow(1-x, s.Power)
		if a+b == 0 {
			rgb[i] = 0
			continue
		}
		rgb[i] = float32(a / (a + b))
	}
}
