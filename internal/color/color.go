// Package color provides pixel conversions shared by the display pipeline:
// byte <-> float quantization, alpha association and ordered dithering.
package color

// ToByte converts a [0,1] float to a byte with rounding, clamping out of
// range values. NaN maps to 0.
func ToByte(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1-0.5/255 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}

// ToFloat maps a byte to [0,1].
func ToFloat(b uint8) float32 {
	return float32(b) / 255.0
}

// Premultiply associates color with alpha in an RGBA float pixel.
func Premultiply(px []float32) {
	a := px[3]
	px[0] *= a
	px[1] *= a
	px[2] *= a
}

// Unpremultiply divides color by alpha in an RGBA float pixel. Pixels with
// alpha of zero or one are left unchanged.
func Unpremultiply(px []float32) {
	a := px[3]
	if a == 0 || a == 1 {
		return
	}
	inv := 1 / a
	px[0] *= inv
	px[1] *= inv
	px[2] *= inv
}

// PremultiplyBuffer premultiplies every pixel of an RGBA float buffer.
// Buffers with other channel counts are left unchanged.
func PremultiplyBuffer(buf []float32, channels int) {
	if channels != 4 {
		return
	}
	for i := 0; i+4 <= len(buf); i += 4 {
		Premultiply(buf[i : i+4])
	}
}
