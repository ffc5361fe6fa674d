package colorman

import (
	"github.com/gogpu/colorman/curvemap"
	"github.com/gogpu/colorman/registry"
)

// ViewFlag holds view settings switches.
type ViewFlag uint8

const (
	// ViewUseCurves applies ViewSettings.Curve before the view transform.
	ViewUseCurves ViewFlag = 1 << iota
)

// standardView is preferred as the default view when a display offers it.
const standardView = "Standard"

// ViewSettings selects how scene-linear pixels are rendered for a display.
//
// Curve is compared by identity and version: edit it in place and call
// Changed to invalidate cached display buffers built with it.
type ViewSettings struct {
	View     string
	Look     string
	Exposure float32
	Gamma    float32
	Flag     ViewFlag
	Curve    *curvemap.CurveMapping
}

// DisplaySettings names the target display device. An empty name selects the
// default display.
type DisplaySettings struct {
	Display string
}

// useCurves reports whether the curve mapping takes part in the transform.
func (v *ViewSettings) useCurves() bool {
	return v.Flag&ViewUseCurves != 0 && v.Curve != nil
}

// DefaultDisplaySettings returns settings for the default display.
func (m *Manager) DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{Display: m.reg.DefaultDisplayName()}
}

// DefaultViewSettings returns neutral view settings for display: the
// "Standard" view when the display has one, its default view otherwise, no
// look, no exposure and unit gamma.
func (m *Manager) DefaultViewSettings(display DisplaySettings) ViewSettings {
	name := m.displayName(display)
	vs := ViewSettings{Look: registry.NoneLook, Gamma: 1}
	view := m.reg.ViewNamedForDisplay(name, standardView)
	if view == nil {
		view = m.reg.DefaultView(m.reg.DisplayNamed(name))
	}
	if view != nil {
		vs.View = view.Name
	}
	return vs
}

// ValidateDisplaySettings replaces an empty or unknown display with the
// default display.
func (m *Manager) ValidateDisplaySettings(display *DisplaySettings) {
	if display.Display == "" {
		display.Display = m.reg.DefaultDisplayName()
		return
	}
	if m.reg.DisplayNamed(display.Display) == nil {
		def := m.reg.DefaultDisplayName()
		m.logger().Warn("colorman: display not found, using default",
			"display", display.Display, "default", def)
		display.Display = def
	}
}

// ValidateViewSettings repairs view settings against the registry: a view
// the display does not offer becomes the display default view, an empty or
// unknown look becomes "None", and an all-zero exposure and gamma pair
// becomes unit gamma.
func (m *Manager) ValidateViewSettings(view *ViewSettings, display DisplaySettings) {
	name := m.displayName(display)
	d := m.reg.DisplayNamed(name)
	if d != nil && d.View(view.View) == nil {
		if def := m.reg.DefaultView(d); def != nil {
			if view.View != "" {
				m.logger().Warn("colorman: view not found, using default",
					"view", view.View, "display", name, "default", def.Name)
			}
			view.View = def.Name
		}
	}

	switch {
	case view.Look == "":
		view.Look = registry.NoneLook
	case m.reg.LookNamed(view.Look) == nil:
		m.logger().Warn("colorman: look not found, using default",
			"look", view.Look, "default", registry.NoneLook)
		view.Look = registry.NoneLook
	}

	if view.Exposure == 0 && view.Gamma == 0 {
		view.Gamma = 1
	}
}

// displayName resolves an empty display name to the default display.
func (m *Manager) displayName(display DisplaySettings) string {
	if display.Display == "" {
		return m.reg.DefaultDisplayName()
	}
	return display.Display
}

// resolveViewSettings returns a copy of view, or the defaults for display
// when view is nil.
func (m *Manager) resolveViewSettings(view *ViewSettings, display DisplaySettings) ViewSettings {
	if view == nil {
		return m.DefaultViewSettings(display)
	}
	return *view
}

// displaySpaceName returns the color space name the view renders into.
func (m *Manager) displaySpaceName(view *ViewSettings, display DisplaySettings) string {
	return m.reg.DisplayColorSpaceName(m.displayName(display), view.View)
}
