package registry

import (
	"slices"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/text/cases"

	"github.com/gogpu/colorman/engine"
)

// NoneLook is the name of the look that leaves colors unchanged.
const NoneLook = "None"

// NoneDisplay is the conventional name of a display without a transform.
const NoneDisplay = "None"

// roleBackups lists the loaded roles in load order. A role missing from the
// config resolves through its backup role, if any.
var roleBackups = []struct {
	role, backup string
}{
	{engine.RoleData, ""},
	{engine.RoleSceneLinear, ""},
	{engine.RoleColorPicking, ""},
	{engine.RoleTexturePaint, ""},
	{engine.RoleDefaultSequencer, engine.RoleSceneLinear},
	{engine.RoleDefaultByte, engine.RoleTexturePaint},
	{engine.RoleDefaultFloat, engine.RoleSceneLinear},
}

// Registry is the loaded view of one engine.Config.
//
// Lookups are safe for concurrent use once New returns. The mutex only
// guards lazily created processors and the cached color space info.
type Registry struct {
	config *engine.Config

	spaces   []*ColorSpace
	displays []*Display
	views    []*View
	looks    []*Look
	roles    map[string]string

	mu     sync.Mutex
	closed bool
}

// New loads cfg into a registry. A nil cfg loads engine.Builtin. When cfg
// provides no display or no view the engine.Fallback config is loaded
// instead.
func New(cfg *engine.Config) *Registry {
	if cfg == nil {
		cfg = engine.Builtin()
	}
	r := load(cfg)
	if len(r.displays) == 0 || len(r.views) == 0 {
		slogger().Warn("registry: no displays or views in config, using fallback",
			"config", cfg.Name())
		r = load(engine.Fallback())
	}
	return r
}

func load(cfg *engine.Config) *Registry {
	r := &Registry{
		config: cfg,
		roles:  make(map[string]string, len(roleBackups)),
	}

	for _, rb := range roleBackups {
		cs, ok := cfg.ColorSpace(rb.role)
		if !ok && rb.backup != "" {
			cs, ok = cfg.ColorSpace(rb.backup)
		}
		if !ok {
			slogger().Warn("registry: could not find role", "role", rb.role)
			continue
		}
		r.roles[rb.role] = cs.Name
	}

	for _, cs := range cfg.ColorSpaces() {
		r.addColorSpace(cs.Name, cs.Description, cs.IsInvertible(), cs.IsData)
	}

	for _, d := range cfg.Displays() {
		display := r.addDisplay(d.Name)
		for _, v := range d.Views {
			view := r.viewNamed(v.Name)
			if view == nil {
				view = r.addView(v.Name)
			}
			display.Views = append(display.Views, view)
		}
	}

	r.addLook(NoneLook, "", true)
	for _, l := range cfg.Looks() {
		r.addLook(l.Name, l.ProcessSpace, false)
	}

	slogger().Debug("registry: loaded config",
		"config", cfg.Name(),
		"colorspaces", len(r.spaces),
		"displays", len(r.displays),
		"views", len(r.views),
		"looks", len(r.looks))
	return r
}

// addColorSpace inserts a color space keeping the list sorted by
// case-folded name, then renumbers every index.
func (r *Registry) addColorSpace(name, description string, invertible, data bool) *ColorSpace {
	cs := &ColorSpace{
		Name:         name,
		Description:  cleanDescription(description),
		IsInvertible: invertible,
		IsData:       data,
		reg:          r,
	}

	fold := cases.Fold()
	key := fold.String(name)
	pos := slices.IndexFunc(r.spaces, func(other *ColorSpace) bool {
		return fold.String(other.Name) > key
	})
	if pos < 0 {
		pos = len(r.spaces)
	}
	r.spaces = slices.Insert(r.spaces, pos, cs)
	for i, s := range r.spaces {
		s.Index = i + 1
	}
	return cs
}

func (r *Registry) addDisplay(name string) *Display {
	d := &Display{Name: name, Index: len(r.displays) + 1, reg: r}
	r.displays = append(r.displays, d)
	return d
}

func (r *Registry) addView(name string) *View {
	v := &View{Name: name, Index: len(r.views) + 1}
	r.views = append(r.views, v)
	return v
}

func (r *Registry) addLook(name, processSpace string, noop bool) *Look {
	l := newLook(name, processSpace, noop, len(r.looks)+1)
	r.looks = append(r.looks, l)
	return l
}

// Config returns the configuration the registry was loaded from.
func (r *Registry) Config() *engine.Config {
	return r.config
}

// LumaCoefficients returns the luminance weights of the scene-linear space.
func (r *Registry) LumaCoefficients() [3]float32 {
	return r.config.LumaCoefs()
}

// RoleColorSpaceName returns the color space name bound to role, or "".
func (r *Registry) RoleColorSpaceName(role string) string {
	return r.roles[role]
}

// RoleColorSpace returns the color space bound to role, or nil.
func (r *Registry) RoleColorSpace(role string) *ColorSpace {
	return r.ColorSpaceNamed(r.roles[role])
}

// ColorSpaces returns the color spaces sorted by name.
func (r *Registry) ColorSpaces() []*ColorSpace { return r.spaces }

// ColorSpaceNames returns the sorted color space names.
func (r *Registry) ColorSpaceNames() []string {
	return lo.Map(r.spaces, func(cs *ColorSpace, _ int) string { return cs.Name })
}

// ColorSpaceNamed returns the color space with the exact name, or nil.
func (r *Registry) ColorSpaceNamed(name string) *ColorSpace {
	cs, ok := lo.Find(r.spaces, func(cs *ColorSpace) bool { return cs.Name == name })
	if !ok {
		if name != "" {
			slogger().Debug("registry: unknown color space", "name", name)
		}
		return nil
	}
	return cs
}

// ColorSpaceIndexed returns the color space with the 1-based index, or nil.
func (r *Registry) ColorSpaceIndexed(index int) *ColorSpace {
	if index < 1 || index > len(r.spaces) {
		return nil
	}
	return r.spaces[index-1]
}

// ColorSpaceNamedIndex returns the index of the named color space, or 0.
func (r *Registry) ColorSpaceNamedIndex(name string) int {
	if cs := r.ColorSpaceNamed(name); cs != nil {
		return cs.Index
	}
	return 0
}

// ColorSpaceIndexedName returns the name of the indexed color space, or "".
func (r *Registry) ColorSpaceIndexedName(index int) string {
	if cs := r.ColorSpaceIndexed(index); cs != nil {
		return cs.Name
	}
	return ""
}

// Displays returns the displays in load order.
func (r *Registry) Displays() []*Display { return r.displays }

// DisplayNames returns the display names in load order.
func (r *Registry) DisplayNames() []string {
	return lo.Map(r.displays, func(d *Display, _ int) string { return d.Name })
}

// DisplayNamed returns the display with the exact name, or nil.
func (r *Registry) DisplayNamed(name string) *Display {
	d, ok := lo.Find(r.displays, func(d *Display) bool { return d.Name == name })
	if !ok {
		if name != "" {
			slogger().Debug("registry: unknown display", "name", name)
		}
		return nil
	}
	return d
}

// DisplayIndexed returns the display with the 1-based index, or nil.
func (r *Registry) DisplayIndexed(index int) *Display {
	if index < 1 || index > len(r.displays) {
		return nil
	}
	return r.displays[index-1]
}

// DisplayNamedIndex returns the index of the named display, or 0.
func (r *Registry) DisplayNamedIndex(name string) int {
	if d := r.DisplayNamed(name); d != nil {
		return d.Index
	}
	return 0
}

// DisplayIndexedName returns the name of the indexed display, or "".
func (r *Registry) DisplayIndexedName(index int) string {
	if d := r.DisplayIndexed(index); d != nil {
		return d.Name
	}
	return ""
}

// DefaultDisplay returns the configured default display, or nil.
func (r *Registry) DefaultDisplay() *Display {
	return r.DisplayNamed(r.config.DefaultDisplay())
}

// DefaultDisplayName returns the name of the default display, or "".
func (r *Registry) DefaultDisplayName() string {
	if d := r.DefaultDisplay(); d != nil {
		return d.Name
	}
	return ""
}

// DisplayNoneName returns NoneDisplay when such a display exists and the
// default display name otherwise.
func (r *Registry) DisplayNoneName() string {
	if r.DisplayNamed(NoneDisplay) != nil {
		return NoneDisplay
	}
	return r.DefaultDisplayName()
}

// Views returns every registered view in load order.
func (r *Registry) Views() []*View { return r.views }

// viewNamed looks a view up without logging.
func (r *Registry) viewNamed(name string) *View {
	v, _ := lo.Find(r.views, func(v *View) bool { return v.Name == name })
	return v
}

// ViewNamed returns the view with the exact name, or nil.
func (r *Registry) ViewNamed(name string) *View {
	v := r.viewNamed(name)
	if v == nil && name != "" {
		slogger().Debug("registry: unknown view", "name", name)
	}
	return v
}

// ViewIndexed returns the view with the 1-based index, or nil.
func (r *Registry) ViewIndexed(index int) *View {
	if index < 1 || index > len(r.views) {
		return nil
	}
	return r.views[index-1]
}

// ViewNamedIndex returns the index of the named view, or 0.
func (r *Registry) ViewNamedIndex(name string) int {
	if v := r.ViewNamed(name); v != nil {
		return v.Index
	}
	return 0
}

// ViewIndexedName returns the name of the indexed view, or "".
func (r *Registry) ViewIndexedName(index int) string {
	if v := r.ViewIndexed(index); v != nil {
		return v.Name
	}
	return ""
}

// DefaultView returns the default view of display, or nil.
func (r *Registry) DefaultView(display *Display) *View {
	if display == nil {
		return nil
	}
	return r.ViewNamed(r.config.DefaultView(display.Name))
}

// ViewNamedForDisplay returns the view of the named display whose name
// matches name ignoring case, or nil.
func (r *Registry) ViewNamedForDisplay(display, name string) *View {
	d := r.DisplayNamed(display)
	if d == nil {
		return nil
	}
	fold := cases.Fold()
	key := fold.String(name)
	v, _ := lo.Find(d.Views, func(v *View) bool { return fold.String(v.Name) == key })
	return v
}

// ViewNames returns the view names of the named display.
func (r *Registry) ViewNames(display string) []string {
	d := r.DisplayNamed(display)
	if d == nil {
		return nil
	}
	return lo.Map(d.Views, func(v *View, _ int) string { return v.Name })
}

// Looks returns the looks in load order, starting with NoneLook.
func (r *Registry) Looks() []*Look { return r.looks }

// LooksForView returns the looks that may be applied under view.
func (r *Registry) LooksForView(view string) []*Look {
	return lo.Filter(r.looks, func(l *Look, _ int) bool { return l.CompatibleWith(view) })
}

// LookNamed returns the look with the exact name, or nil.
func (r *Registry) LookNamed(name string) *Look {
	l, ok := lo.Find(r.looks, func(l *Look) bool { return l.Name == name })
	if !ok {
		if name != "" {
			slogger().Debug("registry: unknown look", "name", name)
		}
		return nil
	}
	return l
}

// LookIndexed returns the look with the 1-based index, or nil.
func (r *Registry) LookIndexed(index int) *Look {
	if index < 1 || index > len(r.looks) {
		return nil
	}
	return r.looks[index-1]
}

// LookNamedIndex returns the index of the named look, or 0.
func (r *Registry) LookNamedIndex(name string) int {
	if l := r.LookNamed(name); l != nil {
		return l.Index
	}
	return 0
}

// LookIndexedName returns the name of the indexed look, or "".
func (r *Registry) LookIndexedName(index int) string {
	if l := r.LookIndexed(index); l != nil {
		return l.Name
	}
	return ""
}

// UseLook reports whether the named look changes colors under view: it
// exists, is not the no-op look and is compatible with view.
func (r *Registry) UseLook(look, view string) bool {
	l := r.LookNamed(look)
	return l != nil && !l.IsNoop && l.CompatibleWith(view)
}

// DisplayColorSpaceName returns the color space a (display, view) pair
// renders into, or "".
func (r *Registry) DisplayColorSpaceName(display, view string) string {
	return r.config.DisplayColorSpaceName(display, view)
}

// Close drops every lazily created processor. Lookups keep working and
// processors are not created again.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, cs := range r.spaces {
		cs.toSceneLinear, cs.fromSceneLinear = nil, nil
	}
	for _, d := range r.displays {
		d.toSceneLinear, d.fromSceneLinear = nil, nil
	}
}
