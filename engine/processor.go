package engine

// PackedImage describes interleaved float pixels handed to a processor.
// Channels must be 3 or 4; row stride is Width*Channels.
type PackedImage struct {
	Data     []float32
	Width    int
	Height   int
	Channels int
}

// CPUProcessor is an immutable, compiled color transform. It is safe for
// concurrent use.
type CPUProcessor struct {
	ops []Op
}

// NewCPUProcessor compiles a processor from a list of ops applied in order.
func NewCPUProcessor(ops ...Op) *CPUProcessor {
	return &CPUProcessor{ops: append([]Op(nil), ops...)}
}

// IsNoOp reports whether the processor leaves pixels untouched.
func (p *CPUProcessor) IsNoOp() bool {
	return p == nil || len(p.ops) == 0
}

// ApplyRGB transforms the first three values of pixel.
func (p *CPUProcessor) ApplyRGB(pixel []float32) {
	if p.IsNoOp() {
		return
	}
	rgb := [3]float32{pixel[0], pixel[1], pixel[2]}
	p.apply(&rgb)
	pixel[0], pixel[1], pixel[2] = rgb[0], rgb[1], rgb[2]
}

// ApplyRGBA transforms the color of a straight-alpha RGBA pixel. Alpha is kept.
func (p *CPUProcessor) ApplyRGBA(pixel []float32) {
	p.ApplyRGB(pixel)
}

// ApplyRGBAPredivide transforms a premultiplied RGBA pixel: color is divided
// by alpha before the transform and multiplied back after. Pixels with alpha
// of zero or one are transformed directly.
func (p *CPUProcessor) ApplyRGBAPredivide(pixel []float32) {
	if p.IsNoOp() {
		return
	}
	alpha := pixel[3]
	if alpha == 1 || alpha == 0 {
		p.ApplyRGB(pixel)
		return
	}
	inv := 1 / alpha
	rgb := [3]float32{pixel[0] * inv, pixel[1] * inv, pixel[2] * inv}
	p.apply(&rgb)
	pixel[0], pixel[1], pixel[2] = rgb[0]*alpha, rgb[1]*alpha, rgb[2]*alpha
}

// Apply transforms every pixel of img treating alpha as straight.
func (p *CPUProcessor) Apply(img PackedImage) {
	p.applyImage(img, false)
}

// ApplyPredivide transforms every pixel of img treating alpha as premultiplied.
// Three-channel images are transformed directly.
func (p *CPUProcessor) ApplyPredivide(img PackedImage) {
	p.applyImage(img, true)
}

func (p *CPUProcessor) applyImage(img PackedImage, predivide bool) {
	if p.IsNoOp() {
		return
	}
	if img.Channels != 3 && img.Channels != 4 {
		panic("engine: packed image must have 3 or 4 channels")
	}
	n := img.Width * img.Height * img.Channels
	for i := 0; i < n; i += img.Channels {
		px := img.Data[i : i+img.Channels]
		if predivide && img.Channels == 4 {
			p.ApplyRGBAPredivide(px)
		} else {
			p.ApplyRGB(px)
		}
	}
}

func (p *CPUProcessor) apply(rgb *[3]float32) {
	for _, op := range p.ops {
		op.Apply(rgb)
	}
}
