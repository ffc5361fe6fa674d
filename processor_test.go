package colorman

import (
	"testing"

	"github.com/gogpu/colorman/curvemap"
)

func TestDisplayProcessorStandard(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))
	p := m.NewDisplayProcessor(nil, DisplaySettings{Display: "sRGB"})

	px := []float32{0.5, 0.5, 0.5, 1}
	p.ApplyV4(px)
	for i := range 3 {
		if !floatNear(px[i], 0.735358, 1e-4) {
			t.Errorf("px[%d] = %v, want 0.735358", i, px[i])
		}
	}
	if px[3] != 1 {
		t.Errorf("alpha = %v, want 1", px[3])
	}
	if p.IsDataResult {
		t.Error("IsDataResult = true for the Standard view")
	}
}

func TestDisplayProcessorExposureAndGamma(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))

	tests := []struct {
		name     string
		exposure float32
		gamma    float32
		in       float32
		want     float32
	}{
		{"neutral", 0, 1, 0.5, 0.735358},
		{"exposure doubles", 1, 1, 0.25, 0.735358},
		{"gamma 2", 0, 2, 0.5, 0.857530},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := m.DefaultViewSettings(DisplaySettings{})
			view.Exposure = tt.exposure
			view.Gamma = tt.gamma
			p := m.NewDisplayProcessor(&view, DisplaySettings{})

			px := []float32{tt.in, tt.in, tt.in}
			p.ApplyV3(px)
			if !floatNear(px[0], tt.want, 1e-4) {
				t.Errorf("ApplyV3(%v) = %v, want %v", tt.in, px[0], tt.want)
			}
		})
	}
}

func TestDisplayProcessorRawViewIsData(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))
	view := ViewSettings{View: "Raw", Look: "None", Gamma: 1}
	p := m.NewDisplayProcessor(&view, DisplaySettings{Display: "sRGB"})
	if !p.IsDataResult {
		t.Error("IsDataResult = false for the Raw view")
	}
}

func TestDisplayProcessorLookNeedsCompatibleView(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))

	apply := func(view, look string) float32 {
		vs := ViewSettings{View: view, Look: look, Gamma: 1}
		px := []float32{0.3, 0.3, 0.3}
		m.NewDisplayProcessor(&vs, DisplaySettings{Display: "sRGB"}).ApplyV3(px)
		return px[0]
	}

	if got, want := apply("Standard", "Filmic - High Contrast"), apply("Standard", "None"); got != want {
		t.Errorf("Filmic look under Standard = %v, want it ignored (%v)", got, want)
	}
	if got, base := apply("Filmic", "Filmic - High Contrast"), apply("Filmic", "None"); got == base {
		t.Errorf("Filmic look under Filmic = %v, want it to differ from %v", got, base)
	}
}

func TestDisplayProcessorCurvesRunFirst(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))

	curve := curvemap.New()
	curve.Curves[curvemap.Combined].Points = []curvemap.Point{{X: 0, Y: 0}, {X: 1, Y: 0.5}}
	curve.Changed()

	view := m.DefaultViewSettings(DisplaySettings{})
	view.Curve = curve
	view.Flag = ViewUseCurves
	p := m.NewDisplayProcessor(&view, DisplaySettings{})

	px := []float32{1, 1, 1}
	p.ApplyV3(px)
	if !floatNear(px[0], 0.735358, 1e-3) {
		t.Errorf("curve then display = %v, want 0.735358", px[0])
	}

	// The processor owns a copy; editing the mapping does not affect it.
	curve.Curves[curvemap.Combined].Points = []curvemap.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	curve.Changed()
	px = []float32{1, 1, 1}
	p.ApplyV3(px)
	if !floatNear(px[0], 0.735358, 1e-3) {
		t.Errorf("after editing the source mapping = %v, want 0.735358", px[0])
	}
}

func TestDisplayProcessorCurvesIgnoredWithoutFlag(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))

	curve := curvemap.New()
	curve.Curves[curvemap.Combined].Points = []curvemap.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	curve.Changed()

	view := m.DefaultViewSettings(DisplaySettings{})
	view.Curve = curve
	px := []float32{0.5, 0.5, 0.5}
	m.NewDisplayProcessor(&view, DisplaySettings{}).ApplyV3(px)
	if !floatNear(px[0], 0.735358, 1e-4) {
		t.Errorf("ApplyV3 = %v, want curve ignored (0.735358)", px[0])
	}
}

func TestColorSpaceProcessor(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))

	if p := m.NewColorSpaceProcessor("sRGB", "sRGB"); !p.IsIdentity() {
		t.Error("same space processor is not the identity")
	}
	if p := m.NewColorSpaceProcessor("Linear", "Non-Color"); !p.IsDataResult {
		t.Error("IsDataResult = false for a data target")
	}

	p := m.NewColorSpaceProcessor("Linear", "sRGB")
	px := []float32{0.5, 0.5, 0.5, 1}
	p.ApplyV4(px)
	if !floatNear(px[0], 0.735358, 1e-4) {
		t.Errorf("Linear -> sRGB = %v, want 0.735358", px[0])
	}
}

func TestColorSpaceProcessorUnknownIsIdentity(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))
	p := m.NewColorSpaceProcessor("Linear", "no such space")
	if !p.IsIdentity() {
		t.Error("processor for an unknown space is not the identity")
	}
	px := []float32{0.25, 0.5, 0.75}
	p.ApplyV3(px)
	if px[0] != 0.25 || px[1] != 0.5 || px[2] != 0.75 {
		t.Errorf("identity changed pixel to %v", px)
	}
}

func TestProcessorApplyPredivide(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))
	p := m.NewColorSpaceProcessor("Linear", "sRGB")

	buf := []float32{0.25, 0.25, 0.25, 0.5}
	p.Apply(buf, 1, 1, 4, true)
	// 0.25 premultiplied by 0.5 is straight 0.5.
	if !floatNear(buf[0], 0.735358*0.5, 1e-4) {
		t.Errorf("predivided apply = %v, want %v", buf[0], 0.735358*0.5)
	}
	if buf[3] != 0.5 {
		t.Errorf("alpha = %v, want 0.5", buf[3])
	}
}

func TestProcessorApplySingleChannelOnlyCurves(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))
	p := m.NewColorSpaceProcessor("Linear", "sRGB")

	buf := []float32{0.5, 0.25}
	p.Apply(buf, 2, 1, 1, false)
	if buf[0] != 0.5 || buf[1] != 0.25 {
		t.Errorf("single channel buffer changed to %v", buf)
	}
}

func TestProcessorApplyByte(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))
	p := m.NewColorSpaceProcessor("sRGB", "Linear")

	buf := []byte{188, 188, 188, 255}
	p.ApplyByte(buf, 1, 1, 4)
	if buf[0] != 128 || buf[3] != 255 {
		t.Errorf("ApplyByte = %v, want [128 128 128 255]", buf)
	}
}

func TestProcessorApplyBytePanicsOnThreeChannels(t *testing.T) {
	m := newTestManager(t, WithWorkers(1))
	p := m.NewColorSpaceProcessor("sRGB", "Linear")

	defer func() {
		if recover() == nil {
			t.Error("ApplyByte with 3 channels did not panic")
		}
	}()
	p.ApplyByte(make([]byte, 3), 1, 1, 3)
}
