package registry

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/colorman/engine"
)

func TestNew_BuiltinRoles(t *testing.T) {
	r := New(nil)
	defer r.Close()

	tests := []struct {
		role string
		want string
	}{
		{engine.RoleSceneLinear, "Linear"},
		{engine.RoleData, "Non-Color"},
		{engine.RoleColorPicking, "sRGB"},
		{engine.RoleTexturePaint, "Linear"},
		{engine.RoleDefaultByte, "sRGB"},
		{engine.RoleDefaultFloat, "Linear"},
		{engine.RoleDefaultSequencer, "sRGB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.RoleColorSpaceName(tt.role), "role %s", tt.role)
	}
	assert.Equal(t, "", r.RoleColorSpaceName("no_such_role"))
}

func TestNew_RoleBackups(t *testing.T) {
	cfg := engine.NewConfig("backups").
		AddColorSpace(engine.ColorSpaceDesc{Name: "lin", ToReference: []engine.Op{}, FromReference: []engine.Op{}}).
		AddColorSpace(engine.ColorSpaceDesc{Name: "paint", ToReference: []engine.Op{}, FromReference: []engine.Op{}}).
		AddDisplay(engine.DisplayDesc{Name: "d", Views: []engine.ViewDesc{{Name: "v", ColorSpace: "lin"}}}).
		SetRole(engine.RoleSceneLinear, "lin").
		SetRole(engine.RoleTexturePaint, "paint")

	r := New(cfg)
	assert.Equal(t, "lin", r.RoleColorSpaceName(engine.RoleDefaultSequencer))
	assert.Equal(t, "lin", r.RoleColorSpaceName(engine.RoleDefaultFloat))
	assert.Equal(t, "paint", r.RoleColorSpaceName(engine.RoleDefaultByte))
	assert.Equal(t, "", r.RoleColorSpaceName(engine.RoleData))
}

func TestColorSpaces_SortedCaseInsensitive(t *testing.T) {
	r := &Registry{roles: map[string]string{}}
	for _, name := range []string{"beta", "Alpha", "gamma", "ALPHA2", "Beta2"} {
		r.addColorSpace(name, "", true, false)
	}

	assert.Equal(t, []string{"Alpha", "ALPHA2", "beta", "Beta2", "gamma"}, r.ColorSpaceNames())
	for i, cs := range r.ColorSpaces() {
		assert.Equal(t, i+1, cs.Index, "index of %s", cs.Name)
	}
}

func TestColorSpace_Lookups(t *testing.T) {
	r := New(nil)

	cs := r.ColorSpaceNamed("sRGB")
	require.NotNil(t, cs)
	assert.Equal(t, cs, r.ColorSpaceIndexed(cs.Index))
	assert.Equal(t, cs.Index, r.ColorSpaceNamedIndex("sRGB"))
	assert.Equal(t, "sRGB", r.ColorSpaceIndexedName(cs.Index))

	assert.Nil(t, r.ColorSpaceNamed("srgb"), "color space names are case sensitive")
	assert.Nil(t, r.ColorSpaceIndexed(0))
	assert.Nil(t, r.ColorSpaceIndexed(len(r.ColorSpaces())+1))
	assert.Equal(t, 0, r.ColorSpaceNamedIndex("nope"))
	assert.Equal(t, "", r.ColorSpaceIndexedName(-1))
}

func TestColorSpace_DescriptionCleaned(t *testing.T) {
	r := &Registry{roles: map[string]string{}}
	cs := r.addColorSpace("x", "first line\r\nsecond\nthird\n\r\n", true, false)
	assert.Equal(t, "first line  second third", cs.Description)

	r = New(nil)
	assert.NotContains(t, r.ColorSpaceNamed("Filmic Log").Description, "\n")
}

func TestColorSpace_Flags(t *testing.T) {
	r := New(nil)

	assert.True(t, r.ColorSpaceNamed("Non-Color").IsData)
	assert.False(t, r.ColorSpaceNamed("Filmic sRGB").IsInvertible)
	assert.True(t, r.ColorSpaceNamed("sRGB").IsInvertible)
}

func TestColorSpace_Classification(t *testing.T) {
	r := New(nil)

	tests := []struct {
		name        string
		sceneLinear bool
		srgb        bool
	}{
		{"Linear", true, false},
		{"sRGB", false, true},
		{"Rec.709", false, false},
		{"Non-Color", false, false},
		{"Filmic sRGB", false, false},
	}
	for _, tt := range tests {
		cs := r.ColorSpaceNamed(tt.name)
		require.NotNil(t, cs, tt.name)
		assert.Equal(t, tt.sceneLinear, cs.IsSceneLinear(), "%s IsSceneLinear", tt.name)
		assert.Equal(t, tt.srgb, cs.IsSRGB(), "%s IsSRGB", tt.name)
	}

	var nilSpace *ColorSpace
	assert.False(t, nilSpace.IsSceneLinear())
	assert.False(t, nilSpace.IsSRGB())
}

func TestColorSpace_ProcessorsAreLazyAndShared(t *testing.T) {
	r := New(nil)
	cs := r.ColorSpaceNamed("sRGB")

	var wg sync.WaitGroup
	got := make([]*engine.CPUProcessor, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = cs.ToSceneLinear()
		}()
	}
	wg.Wait()

	require.NotNil(t, got[0])
	for _, p := range got[1:] {
		assert.Same(t, got[0], p)
	}

	px := []float32{0.5, 0.5, 0.5}
	cs.ToSceneLinear().ApplyRGB(px)
	cs.FromSceneLinear().ApplyRGB(px)
	assert.InDeltaSlice(t, []float32{0.5, 0.5, 0.5}, px, 1e-5)

	assert.Nil(t, r.ColorSpaceNamed("Filmic sRGB").ToSceneLinear(), "non invertible space has no inverse")
}

func TestDisplays_AndViews(t *testing.T) {
	r := New(nil)

	assert.Equal(t, []string{"sRGB", "Rec.709", "XYZ", "None"}, r.DisplayNames())
	for i, d := range r.Displays() {
		assert.Equal(t, i+1, d.Index)
	}

	// Views are shared across displays and indexed in first-seen order.
	assert.Equal(t, []string{"Standard", "Filmic", "Raw"},
		[]string{r.ViewIndexedName(1), r.ViewIndexedName(2), r.ViewIndexedName(3)})
	assert.Len(t, r.Views(), 3)
	assert.Same(t, r.DisplayNamed("sRGB").View("Raw"), r.DisplayNamed("None").View("Raw"))

	assert.Equal(t, []string{"Standard", "Raw"}, r.ViewNames("Rec.709"))
	assert.Nil(t, r.ViewNames("nope"))
}

func TestDefaults(t *testing.T) {
	r := New(nil)

	d := r.DefaultDisplay()
	require.NotNil(t, d)
	assert.Equal(t, "sRGB", d.Name)
	assert.Equal(t, "Standard", r.DefaultView(d).Name)
	assert.Nil(t, r.DefaultView(nil))
	assert.Equal(t, "sRGB", d.ColorSpaceName())
	assert.Equal(t, "None", r.DisplayNoneName())
}

func TestDisplayNoneName_FallsBackToDefault(t *testing.T) {
	r := New(engine.Fallback())
	assert.Equal(t, "sRGB", r.DisplayNoneName())
}

func TestViewNamedForDisplay_IgnoresCase(t *testing.T) {
	r := New(nil)

	v := r.ViewNamedForDisplay("sRGB", "standard")
	require.NotNil(t, v)
	assert.Equal(t, "Standard", v.Name)

	assert.Nil(t, r.ViewNamedForDisplay("None", "Standard"))
	assert.Nil(t, r.ViewNamedForDisplay("missing", "Standard"))
}

func TestLooks(t *testing.T) {
	r := New(nil)

	none := r.LookIndexed(1)
	require.NotNil(t, none)
	assert.Equal(t, NoneLook, none.Name)
	assert.True(t, none.IsNoop)

	low := r.LookNamed("Filmic - Low Contrast")
	require.NotNil(t, low)
	assert.Equal(t, "Filmic", low.View)
	assert.Equal(t, "Low Contrast", low.UIName)
	assert.Equal(t, "Filmic Log", low.ProcessSpace)
	assert.Equal(t, low.Index, r.LookNamedIndex(low.Name))
	assert.Equal(t, low.Name, r.LookIndexedName(low.Index))

	desat := r.LookNamed("Desaturated")
	require.NotNil(t, desat)
	assert.Equal(t, "", desat.View)
	assert.Equal(t, "Desaturated", desat.UIName)
}

func TestUseLook(t *testing.T) {
	r := New(nil)

	assert.False(t, r.UseLook(NoneLook, "Filmic"))
	assert.True(t, r.UseLook("Filmic - High Contrast", "Filmic"))
	assert.False(t, r.UseLook("Filmic - High Contrast", "Standard"))
	assert.True(t, r.UseLook("Desaturated", "Standard"))
	assert.False(t, r.UseLook("missing", "Standard"))

	names := func(ls []*Look) []string {
		out := make([]string, len(ls))
		for i, l := range ls {
			out[i] = l.Name
		}
		return out
	}
	assert.Equal(t, []string{NoneLook, "Desaturated"}, names(r.LooksForView("Standard")))
	assert.Len(t, r.LooksForView("Filmic"), 5)
}

func TestDisplayProcessors(t *testing.T) {
	r := New(nil)
	d := r.DisplayNamed("sRGB")

	px := []float32{0.5, 0.5, 0.5}
	d.FromSceneLinear().ApplyRGB(px)
	assert.InDelta(t, 0.7354, px[0], 1e-3)

	d.ToSceneLinear().ApplyRGB(px)
	assert.InDelta(t, 0.5, px[0], 1e-4)
}

func TestNew_FallbackWithoutDisplays(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	cfg := engine.NewConfig("empty").
		AddColorSpace(engine.ColorSpaceDesc{Name: "only", ToReference: []engine.Op{}, FromReference: []engine.Op{}})

	r := New(cfg)
	assert.Equal(t, "fallback", r.Config().Name())
	assert.Equal(t, []string{"sRGB"}, r.DisplayNames())
	assert.True(t, strings.Contains(buf.String(), "using fallback"), "fallback should be logged")
	assert.True(t, strings.Contains(buf.String(), "could not find role"), "missing roles should be logged")
}

func TestClose(t *testing.T) {
	r := New(nil)
	cs := r.ColorSpaceNamed("sRGB")
	require.NotNil(t, cs.ToSceneLinear())

	r.Close()
	r.Close()

	assert.Nil(t, cs.ToSceneLinear())
	assert.Nil(t, r.DisplayNamed("sRGB").FromSceneLinear())
	assert.NotNil(t, r.ColorSpaceNamed("sRGB"), "lookups survive Close")
}
