package color

import "math"

// sRGBToLinearLUT maps an sRGB encoded byte to linear float. Entries equal
// SRGBToLinear(ToFloat(b)) exactly.
var sRGBToLinearLUT [256]float32

func init() {
	for i := range 256 {
		sRGBToLinearLUT[i] = SRGBToLinear(ToFloat(uint8(i)))
	}
}

func srgbDecode(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// SRGBToLinear decodes an sRGB encoded value in [0,1].
func SRGBToLinear(s float32) float32 {
	return float32(srgbDecode(float64(s)))
}
