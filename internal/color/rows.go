package color

import "math"

// FloatFromByte converts RGBA bytes to RGBA floats without any transfer
// function. dst must hold len(src) values.
func FloatFromByte(dst []float32, src []byte) {
	for i, b := range src {
		dst[i] = ToFloat(b)
	}
}

// LinearFromSRGBByte converts sRGB encoded RGBA bytes to linear RGBA floats
// through the lookup table. Alpha is not encoded and maps linearly.
func LinearFromSRGBByte(dst []float32, src []byte) {
	for i := 0; i+4 <= len(src); i += 4 {
		dst[i+0] = sRGBToLinearLUT[src[i+0]]
		dst[i+1] = sRGBToLinearLUT[src[i+1]]
		dst[i+2] = sRGBToLinearLUT[src[i+2]]
		dst[i+3] = ToFloat(src[i+3])
	}
}

// Noise returns a deterministic value in [0,1) for an image coordinate.
// The result only depends on the absolute position, so a region rendered on
// its own matches the same region of a full render.
func Noise(x, y int) float32 {
	v := math.Sin(float64(x)*12.9898+float64(y)*78.233) * 43758.5453
	return float32(v - math.Floor(v))
}

// ByteRowFromFloat quantizes one row of float pixels into RGBA bytes.
//
// src holds len(dst)/4 pixels with the given channel count (1, 3 or 4).
// Single channel pixels become gray, missing alpha becomes 255. (x, y) is the
// absolute image coordinate of the first pixel and seeds the dither noise;
// dither is the amplitude in byte steps, zero disables it. With predivide,
// four channel pixels are unpremultiplied before quantization.
//
// Panics on other channel counts.
func ByteRowFromFloat(dst []byte, src []float32, channels, x, y int, dither float32, predivide bool) {
	if channels != 1 && channels != 3 && channels != 4 {
		panic("color: unsupported channel count")
	}
	width := len(dst) / 4
	amp := dither / 255
	var px [4]float32
	for i := range width {
		s := src[i*channels : i*channels+channels]
		switch channels {
		case 1:
			px = [4]float32{s[0], s[0], s[0], 1}
		case 3:
			px = [4]float32{s[0], s[1], s[2], 1}
		case 4:
			px = [4]float32{s[0], s[1], s[2], s[3]}
			if predivide {
				Unpremultiply(px[:])
			}
		}
		if amp != 0 {
			d := amp * (Noise(x+i, y) - 0.5)
			px[0] += d
			px[1] += d
			px[2] += d
		}
		o := dst[i*4 : i*4+4]
		o[0] = ToByte(px[0])
		o[1] = ToByte(px[1])
		o[2] = ToByte(px[2])
		o[3] = ToByte(px[3])
	}
}
