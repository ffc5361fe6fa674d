package registry

import (
	"strings"

	"github.com/gogpu/colorman/engine"
)

// ColorSpace is a named color space of the loaded configuration.
type ColorSpace struct {
	Name         string
	Description  string
	IsInvertible bool
	IsData       bool
	Index        int

	reg *Registry

	infoCached    bool
	isSceneLinear bool
	isSRGB        bool

	toSceneLinear   *engine.CPUProcessor
	fromSceneLinear *engine.CPUProcessor
	toBuilt         bool
	fromBuilt       bool
}

// Display is a display device with its views in configuration order.
type Display struct {
	Name  string
	Index int
	Views []*View

	reg *Registry

	toSceneLinear   *engine.CPUProcessor
	fromSceneLinear *engine.CPUProcessor
	toBuilt         bool
	fromBuilt       bool
}

// View is a view transform name. Views are shared between displays.
type View struct {
	Name  string
	Index int
}

// Look is a creative transform. View is the view the look is restricted to,
// parsed from a "<view> - <label>" name; UIName is the label part.
type Look struct {
	Name         string
	UIName       string
	View         string
	ProcessSpace string
	IsNoop       bool
	Index        int
}

// lookSeparator splits view specific look names.
const lookSeparator = " - "

func newLook(name, processSpace string, noop bool, index int) *Look {
	l := &Look{
		Name:         name,
		UIName:       name,
		ProcessSpace: processSpace,
		IsNoop:       noop,
		Index:        index,
	}
	if view, label, ok := strings.Cut(name, lookSeparator); ok {
		l.View = view
		l.UIName = label
	}
	return l
}

// CompatibleWith reports whether the look may be applied under view.
// The no-op look and looks without a view restriction are compatible with
// every view.
func (l *Look) CompatibleWith(view string) bool {
	if l.IsNoop {
		return true
	}
	return l.View == "" || l.View == view
}

// cleanDescription turns a multi-line description into a single line: trailing
// line breaks are dropped and inner ones become spaces.
func cleanDescription(s string) string {
	s = strings.TrimRight(s, "\r\n")
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return ' '
		}
		return r
	}, s)
}
