package registry

import (
	"math"

	"github.com/gogpu/colorman/engine"
	"github.com/gogpu/colorman/internal/color"
)

// ToSceneLinear returns the processor from cs to the scene-linear role, or
// nil when the engine cannot build it. A nil processor is the identity.
func (cs *ColorSpace) ToSceneLinear() *engine.CPUProcessor {
	r := cs.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	return cs.toSceneLinearLocked()
}

func (cs *ColorSpace) toSceneLinearLocked() *engine.CPUProcessor {
	r := cs.reg
	if !cs.toBuilt && !r.closed {
		cs.toSceneLinear = r.processor(cs.Name, r.roles[engine.RoleSceneLinear])
		cs.toBuilt = true
	}
	return cs.toSceneLinear
}

// FromSceneLinear returns the processor from the scene-linear role to cs, or
// nil when the engine cannot build it.
func (cs *ColorSpace) FromSceneLinear() *engine.CPUProcessor {
	r := cs.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	if !cs.fromBuilt && !r.closed {
		cs.fromSceneLinear = r.processor(r.roles[engine.RoleSceneLinear], cs.Name)
		cs.fromBuilt = true
	}
	return cs.fromSceneLinear
}

// IsSceneLinear reports whether cs is numerically the scene-linear space.
// Data spaces are never scene linear. The answer is computed once.
func (cs *ColorSpace) IsSceneLinear() bool {
	if cs == nil {
		return false
	}
	cs.ensureInfo()
	return cs.isSceneLinear
}

// IsSRGB reports whether cs decodes with the sRGB transfer function into
// the scene-linear space. The answer is computed once.
func (cs *ColorSpace) IsSRGB() bool {
	if cs == nil {
		return false
	}
	cs.ensureInfo()
	return cs.isSRGB
}

// probeValues are the inputs used to classify a color space.
var probeValues = [...]float32{0.02, 0.18, 0.5, 0.9}

const probeTolerance = 1e-4

func (cs *ColorSpace) ensureInfo() {
	r := cs.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	if cs.infoCached {
		return
	}
	cs.infoCached = true
	if cs.IsData {
		return
	}

	p := cs.toSceneLinearLocked()
	if p == nil {
		return
	}
	linear, srgb := true, true
	for _, v := range probeValues {
		px := []float32{v, v, v}
		p.ApplyRGB(px)
		exact := color.SRGBToLinear(v)
		for _, got := range px {
			if math.Abs(float64(got-v)) > probeTolerance {
				linear = false
			}
			if math.Abs(float64(got-exact)) > probeTolerance {
				srgb = false
			}
		}
	}
	cs.isSceneLinear = linear
	cs.isSRGB = srgb && !linear
}

// ColorSpaceName returns the color space the display renders into through
// its default view.
func (d *Display) ColorSpaceName() string {
	r := d.reg
	return r.config.DisplayColorSpaceName(d.Name, r.config.DefaultView(d.Name))
}

// ToSceneLinear returns the processor from the display color space to the
// scene-linear role, or nil when the engine cannot build it.
func (d *Display) ToSceneLinear() *engine.CPUProcessor {
	r := d.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	if !d.toBuilt && !r.closed {
		d.toSceneLinear = r.processor(d.ColorSpaceName(), r.roles[engine.RoleSceneLinear])
		d.toBuilt = true
	}
	return d.toSceneLinear
}

// FromSceneLinear returns the processor from the scene-linear role to the
// display color space, or nil when the engine cannot build it.
func (d *Display) FromSceneLinear() *engine.CPUProcessor {
	r := d.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	if !d.fromBuilt && !r.closed {
		d.fromSceneLinear = r.processor(r.roles[engine.RoleSceneLinear], d.ColorSpaceName())
		d.fromBuilt = true
	}
	return d.fromSceneLinear
}

// View returns the display view with the exact name, or nil.
func (d *Display) View(name string) *View {
	for _, v := range d.Views {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// processor builds an engine processor, logging failures.
func (r *Registry) processor(from, to string) *engine.CPUProcessor {
	p, err := r.config.Processor(from, to)
	if err != nil {
		slogger().Warn("registry: cannot create processor", "from", from, "to", to, "err", err)
		return nil
	}
	slogger().Debug("registry: created processor", "from", from, "to", to)
	return p
}
