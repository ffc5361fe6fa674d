package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/colorman/cache"
)

// Role names understood by Config.Role and Config.ColorSpace.
const (
	RoleSceneLinear      = "scene_linear"
	RoleData             = "data"
	RoleColorPicking     = "color_picking"
	RoleTexturePaint     = "texture_paint"
	RoleDefaultByte      = "default_byte"
	RoleDefaultFloat     = "default_float"
	RoleDefaultSequencer = "default_sequencer"
)

// Errors returned while building processors.
var (
	// ErrUnknownColorSpace is returned when a color space or role name is not in the config.
	ErrUnknownColorSpace = errors.New("engine: unknown color space")

	// ErrUnknownDisplay is returned when a display name is not in the config.
	ErrUnknownDisplay = errors.New("engine: unknown display")

	// ErrUnknownView is returned when a display has no view with the given name.
	ErrUnknownView = errors.New("engine: unknown view")

	// ErrUnknownLook is returned when a look name is not in the config.
	ErrUnknownLook = errors.New("engine: unknown look")

	// ErrNotInvertible is returned when a transform direction is not defined.
	ErrNotInvertible = errors.New("engine: transform direction not available")
)

// processorCacheCapacity bounds the number of compiled processors kept per config.
const processorCacheCapacity = 128

// ColorSpaceDesc defines a color space relative to the scene-linear reference.
//
// A nil ToReference or FromReference means that direction is not available.
// Use an empty, non-nil slice for an identity direction.
type ColorSpaceDesc struct {
	Name          string
	Description   string
	Family        string
	IsData        bool
	ToReference   []Op
	FromReference []Op
}

// IsInvertible reports whether the space converts both to and from the reference.
func (c *ColorSpaceDesc) IsInvertible() bool {
	return c.ToReference != nil && c.FromReference != nil
}

// ViewDesc binds a view name to the color space it renders into on one display.
type ViewDesc struct {
	Name       string
	ColorSpace string
}

// DisplayDesc is a display device with its ordered views. The first view is
// the display default.
type DisplayDesc struct {
	Name  string
	Views []ViewDesc
}

// LookDesc is a creative transform applied in ProcessSpace.
type LookDesc struct {
	Name         string
	ProcessSpace string
	Ops          []Op
}

// DisplayRequest describes a scene-linear to display processor.
type DisplayRequest struct {
	From     string
	View     string
	Display  string
	Look     string
	Scale    float32
	Exponent float32
}

// Config is an in-memory color configuration: roles, color spaces, displays
// and looks. Configs are built once and then treated as read-only; building
// processors is safe for concurrent use.
type Config struct {
	name           string
	roles          map[string]string
	spaces         []*ColorSpaceDesc
	spaceByName    map[string]*ColorSpaceDesc
	displays       []DisplayDesc
	looks          []LookDesc
	defaultDisplay string
	luma           [3]float32
	xyzToRGB       Matrix

	processors *cache.MovieCache[string, *CPUProcessor]
}

// NewConfig creates an empty config with Rec.709 luma coefficients.
func NewConfig(name string) *Config {
	return &Config{
		name:        name,
		roles:       make(map[string]string),
		spaceByName: make(map[string]*ColorSpaceDesc),
		luma:        [3]float32{0.2126, 0.7152, 0.0722},
		xyzToRGB:    xyzToRec709,
		processors: cache.New[string, *CPUProcessor]("engine processors",
			processorCacheCapacity, cache.StringHasher, cache.ComparableEqual[string]),
	}
}

// Name returns the config name.
func (c *Config) Name() string { return c.name }

// AddColorSpace appends a color space. A later space with the same name replaces
// the earlier lookup entry.
func (c *Config) AddColorSpace(cs ColorSpaceDesc) *Config {
	p := &cs
	c.spaces = append(c.spaces, p)
	c.spaceByName[cs.Name] = p
	return c
}

// AddDisplay appends a display.
func (c *Config) AddDisplay(d DisplayDesc) *Config {
	c.displays = append(c.displays, d)
	return c
}

// AddLook appends a look.
func (c *Config) AddLook(l LookDesc) *Config {
	c.looks = append(c.looks, l)
	return c
}

// SetRole maps a role to a color space name.
func (c *Config) SetRole(role, colorspace string) *Config {
	c.roles[role] = colorspace
	return c
}

// SetDefaultDisplay overrides the default display; otherwise the first display is used.
func (c *Config) SetDefaultDisplay(name string) *Config {
	c.defaultDisplay = name
	return c
}

// Role returns the color space name bound to role, or "" if unset.
func (c *Config) Role(role string) string {
	return c.roles[role]
}

// ColorSpace looks up a color space by name, falling back to role names.
func (c *Config) ColorSpace(name string) (*ColorSpaceDesc, bool) {
	if cs, ok := c.spaceByName[name]; ok {
		return cs, true
	}
	if target, ok := c.roles[name]; ok {
		cs, ok := c.spaceByName[target]
		return cs, ok
	}
	return nil, false
}

// ColorSpaces returns the color spaces in config order.
func (c *Config) ColorSpaces() []*ColorSpaceDesc {
	return c.spaces
}

// Displays returns the displays in config order.
func (c *Config) Displays() []DisplayDesc {
	return c.displays
}

// Looks returns the looks in config order.
func (c *Config) Looks() []LookDesc {
	return c.looks
}

// Look returns the look named name.
func (c *Config) Look(name string) (*LookDesc, bool) {
	for i := range c.looks {
		if c.looks[i].Name == name {
			return &c.looks[i], true
		}
	}
	return nil, false
}

// DefaultDisplay returns the default display name, or "" for a config without displays.
func (c *Config) DefaultDisplay() string {
	if c.defaultDisplay != "" {
		return c.defaultDisplay
	}
	if len(c.displays) > 0 {
		return c.displays[0].Name
	}
	return ""
}

// DefaultView returns the first view of display, or "".
func (c *Config) DefaultView(display string) string {
	d := c.display(display)
	if d == nil || len(d.Views) == 0 {
		return ""
	}
	return d.Views[0].Name
}

// DisplayColorSpaceName returns the color space a (display, view) pair renders into.
func (c *Config) DisplayColorSpaceName(display, view string) string {
	d := c.display(display)
	if d == nil {
		return ""
	}
	for _, v := range d.Views {
		if v.Name == view {
			return v.ColorSpace
		}
	}
	return ""
}

// LumaCoefs returns the luminance weights of the reference space.
func (c *Config) LumaCoefs() [3]float32 { return c.luma }

// XYZToRGB returns the matrix from CIE XYZ to the reference space.
func (c *Config) XYZToRGB() Matrix { return c.xyzToRGB }

// Processor returns a processor converting from one color space to another.
// Conversions involving a data space are no-ops.
func (c *Config) Processor(from, to string) (*CPUProcessor, error) {
	key := "cs\x00" + from + "\x00" + to
	return c.processors.GetOrCreate(key, func() (*CPUProcessor, error) {
		return c.buildProcessor(from, to)
	})
}

func (c *Config) buildProcessor(from, to string) (*CPUProcessor, error) {
	src, ok := c.ColorSpace(from)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColorSpace, from)
	}
	dst, ok := c.ColorSpace(to)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColorSpace, to)
	}
	if src == dst || src.IsData || dst.IsData {
		return NewCPUProcessor(), nil
	}
	if src.ToReference == nil {
		return nil, fmt.Errorf("%w: %q to reference", ErrNotInvertible, src.Name)
	}
	if dst.FromReference == nil {
		return nil, fmt.Errorf("%w: reference to %q", ErrNotInvertible, dst.Name)
	}
	ops := make([]Op, 0, len(src.ToReference)+len(dst.FromReference))
	ops = append(ops, src.ToReference...)
	ops = append(ops, dst.FromReference...)
	return NewCPUProcessor(ops...), nil
}

// DisplayProcessor returns a processor from req.From to the color space of
// (req.Display, req.View), applying exposure scale, look and display exponent.
func (c *Config) DisplayProcessor(req DisplayRequest) (*CPUProcessor, error) {
	key := fmt.Sprintf("dp\x00%s\x00%s\x00%s\x00%s\x00%g\x00%g",
		req.From, req.View, req.Display, req.Look, req.Scale, req.Exponent)
	return c.processors.GetOrCreate(key, func() (*CPUProcessor, error) {
		return c.buildDisplayProcessor(req)
	})
}

func (c *Config) buildDisplayProcessor(req DisplayRequest) (*CPUProcessor, error) {
	src, ok := c.ColorSpace(req.From)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColorSpace, req.From)
	}
	d := c.display(req.Display)
	if d == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDisplay, req.Display)
	}
	target := c.DisplayColorSpaceName(req.Display, req.View)
	if target == "" {
		return nil, fmt.Errorf("%w: %q on display %q", ErrUnknownView, req.View, req.Display)
	}
	dst, ok := c.ColorSpace(target)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColorSpace, target)
	}
	if src.IsData || dst.IsData {
		return NewCPUProcessor(), nil
	}
	if src.ToReference == nil {
		return nil, fmt.Errorf("%w: %q to reference", ErrNotInvertible, src.Name)
	}
	if dst.FromReference == nil {
		return nil, fmt.Errorf("%w: reference to %q", ErrNotInvertible, dst.Name)
	}

	var ops []Op
	ops = append(ops, src.ToReference...)
	if req.Scale != 0 && req.Scale != 1 {
		ops = append(ops, Scale(req.Scale))
	}
	for _, name := range splitLooks(req.Look) {
		lookOps, err := c.lookOps(name)
		if err != nil {
			return nil, err
		}
		ops = append(ops, lookOps...)
	}
	ops = append(ops, dst.FromReference...)
	if req.Exponent != 0 && req.Exponent != 1 {
		ops = append(ops, Exponent(req.Exponent))
	}
	return NewCPUProcessor(ops...), nil
}

func (c *Config) lookOps(name string) ([]Op, error) {
	look, ok := c.Look(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLook, name)
	}
	if look.ProcessSpace == "" {
		return look.Ops, nil
	}
	ps, ok := c.ColorSpace(look.ProcessSpace)
	if !ok {
		return nil, fmt.Errorf("%w: %q (process space of look %q)", ErrUnknownColorSpace, look.ProcessSpace, name)
	}
	if ps.ToReference == nil || ps.FromReference == nil {
		return nil, fmt.Errorf("%w: process space %q", ErrNotInvertible, ps.Name)
	}
	ops := make([]Op, 0, len(ps.FromReference)+len(look.Ops)+len(ps.ToReference))
	ops = append(ops, ps.FromReference...)
	ops = append(ops, look.Ops...)
	ops = append(ops, ps.ToReference...)
	return ops, nil
}

func (c *Config) display(name string) *DisplayDesc {
	for i := range c.displays {
		if c.displays[i].Name == name {
			return &c.displays[i]
		}
	}
	return nil
}

// splitLooks parses a comma separated look list, dropping empty entries.
func splitLooks(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
