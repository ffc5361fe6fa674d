package colorman

import (
	"testing"
)

func newTestManager(t testing.TB, opts ...Option) *Manager {
	t.Helper()
	m := NewManager(opts...)
	t.Cleanup(m.Close)
	return m
}

func floatNear(a, b, epsilon float32) bool {
	d := a - b
	return d < epsilon && d > -epsilon
}

// gradientImage returns a premultiplied RGBA float image whose pixels vary
// along both axes, with alpha below one in the right half.
func gradientImage(width, height int) *ImageBuffer {
	img := NewFloatImage(width, height, 4)
	fillGradient(img, 0)
	return img
}

func fillGradient(img *ImageBuffer, shift float32) {
	for y := range img.Height {
		for x := range img.Width {
			i := (y*img.Width + x) * 4
			a := float32(1)
			if x >= img.Width/2 {
				a = 0.6
			}
			img.RectFloat[i+0] = (float32(x)/float32(img.Width) + shift) * a
			img.RectFloat[i+1] = float32(y) / float32(img.Height) * a
			img.RectFloat[i+2] = (0.5 + shift) * a
			img.RectFloat[i+3] = a
		}
	}
}

func solidFloatImage(width, height int, v float32) *ImageBuffer {
	img := NewFloatImage(width, height, 4)
	for i := 0; i < len(img.RectFloat); i += 4 {
		img.RectFloat[i+0] = v
		img.RectFloat[i+1] = v
		img.RectFloat[i+2] = v
		img.RectFloat[i+3] = 1
	}
	return img
}

func byteGradientImage(width, height int) *ImageBuffer {
	img := NewByteImage(width, height)
	for y := range height {
		for x := range width {
			i := (y*width + x) * 4
			img.Rect[i+0] = uint8(x * 255 / width)
			img.Rect[i+1] = uint8(y * 255 / height)
			img.Rect[i+2] = 90
			img.Rect[i+3] = 255
		}
	}
	return img
}
