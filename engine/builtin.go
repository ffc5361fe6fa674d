package engine

// Standard matrices, row-major, D65.
var (
	rec709ToXYZ = Matrix{
		0.4124564, 0.3575761, 0.1804375,
		0.2126729, 0.7151522, 0.0721750,
		0.0193339, 0.1191920, 0.9503041,
	}
	xyzToRec709 = mustInvert(rec709ToXYZ)

	aces2065ToRec709 = Matrix{
		2.52168619, -1.13413099, -0.38755520,
		-0.27647991, 1.37271909, -0.09623918,
		-0.01537806, -0.15297531, 1.16835336,
	}
	rec709ToACES2065 = mustInvert(aces2065ToRec709)
)

// Filmic log encoding covers about 25 stops around middle gray.
var filmicLog = Transfer{Kind: TransferLog2, MinStops: -12.473931188, MaxStops: 12.526068812}

var (
	srgbEncode   = Transfer{Kind: TransferSRGB}
	rec709Encode = Transfer{Kind: TransferRec709}
	gamma22      = Transfer{Kind: TransferGamma, Gamma: 2.2}
)

func mustInvert(m Matrix) Matrix {
	inv, ok := m.Invert()
	if !ok {
		panic("engine: singular built-in matrix")
	}
	return inv
}

// Builtin returns the built-in configuration used when no external config is
// supplied. It mirrors a small production setup: a scene-linear Rec.709
// reference, common display encodings, a Filmic view with contrast looks and a
// non-color data space.
func Builtin() *Config {
	c := NewConfig("builtin")

	c.AddColorSpace(ColorSpaceDesc{
		Name:          "Linear",
		Description:   "Rec. 709 (Full Range), native scene linear space",
		Family:        "linear",
		ToReference:   []Op{},
		FromReference: []Op{},
	})
	c.AddColorSpace(ColorSpaceDesc{
		Name:          "sRGB",
		Description:   "Standard RGB Display Space",
		Family:        "display",
		ToReference:   []Op{srgbEncode.Invert()},
		FromReference: []Op{srgbEncode},
	})
	c.AddColorSpace(ColorSpaceDesc{
		Name:          "Rec.709",
		Description:   "Rec. 709 (Full Range) Display Space",
		Family:        "display",
		ToReference:   []Op{rec709Encode.Invert()},
		FromReference: []Op{rec709Encode},
	})
	c.AddColorSpace(ColorSpaceDesc{
		Name:          "Gamma 2.2",
		Description:   "Pure power 2.2 display encoding",
		Family:        "display",
		ToReference:   []Op{gamma22.Invert()},
		FromReference: []Op{gamma22},
	})
	c.AddColorSpace(ColorSpaceDesc{
		Name:          "XYZ",
		Description:   "CIE XYZ, D65 white point",
		Family:        "linear",
		ToReference:   []Op{xyzToRec709},
		FromReference: []Op{rec709ToXYZ},
	})
	c.AddColorSpace(ColorSpaceDesc{
		Name:          "Linear ACES",
		Description:   "ACES2065-1 linear, AP0 primaries",
		Family:        "linear",
		ToReference:   []Op{aces2065ToRec709},
		FromReference: []Op{rec709ToACES2065},
	})
	c.AddColorSpace(ColorSpaceDesc{
		Name:          "Filmic Log",
		Description:   "Log based filmic shaper with 16.5 stops of latitude,\nand 25 stops of dynamic range",
		Family:        "log",
		ToReference:   []Op{filmicLog.Invert()},
		FromReference: []Op{filmicLog},
	})
	c.AddColorSpace(ColorSpaceDesc{
		Name:          "Filmic sRGB",
		Description:   "sRGB display space with Filmic view transform",
		Family:        "display",
		FromReference: []Op{filmicLog, Sigmoid{Power: 1.6}},
	})
	c.AddColorSpace(ColorSpaceDesc{
		Name:        "Non-Color",
		Description: "Color space used for images which contains non-color data (i.e. normal maps)",
		Family:      "raw",
		IsData:      true,
	})
	c.AddColorSpace(ColorSpaceDesc{
		Name:        "Raw",
		Description: "Raw data without color management",
		Family:      "raw",
		IsData:      true,
	})

	c.AddDisplay(DisplayDesc{Name: "sRGB", Views: []ViewDesc{
		{Name: "Standard", ColorSpace: "sRGB"},
		{Name: "Filmic", ColorSpace: "Filmic sRGB"},
		{Name: "Raw", ColorSpace: "Raw"},
	}})
	c.AddDisplay(DisplayDesc{Name: "Rec.709", Views: []ViewDesc{
		{Name: "Standard", ColorSpace: "Rec.709"},
		{Name: "Raw", ColorSpace: "Raw"},
	}})
	c.AddDisplay(DisplayDesc{Name: "XYZ", Views: []ViewDesc{
		{Name: "Standard", ColorSpace: "XYZ"},
		{Name: "Raw", ColorSpace: "Raw"},
	}})
	c.AddDisplay(DisplayDesc{Name: "None", Views: []ViewDesc{
		{Name: "Raw", ColorSpace: "Raw"},
	}})

	logPivot := float32(-filmicLog.MinStops / (filmicLog.MaxStops - filmicLog.MinStops))
	c.AddLook(LookDesc{Name: "Filmic - Low Contrast", ProcessSpace: "Filmic Log",
		Ops: []Op{Contrast{Amount: 0.8, Pivot: logPivot}}})
	c.AddLook(LookDesc{Name: "Filmic - Base Contrast", ProcessSpace: "Filmic Log"})
	c.AddLook(LookDesc{Name: "Filmic - High Contrast", ProcessSpace: "Filmic Log",
		Ops: []Op{Contrast{Amount: 1.25, Pivot: logPivot}}})
	c.AddLook(LookDesc{Name: "Desaturated", ProcessSpace: "Linear",
		Ops: []Op{Saturation{Amount: 0.5, Luma: c.luma}}})

	c.SetRole(RoleSceneLinear, "Linear")
	c.SetRole(RoleData, "Non-Color")
	c.SetRole(RoleColorPicking, "sRGB")
	c.SetRole(RoleTexturePaint, "Linear")
	c.SetRole(RoleDefaultByte, "sRGB")
	c.SetRole(RoleDefaultFloat, "Linear")
	c.SetRole(RoleDefaultSequencer, "sRGB")
	c.SetDefaultDisplay("sRGB")

	return c
}

// Fallback returns the minimal configuration used when a config provides no
// displays or views.
func Fallback() *Config {
	c := NewConfig("fallback")
	c.AddColorSpace(ColorSpaceDesc{
		Name:          "Linear",
		Family:        "linear",
		ToReference:   []Op{},
		FromReference: []Op{},
	})
	c.AddColorSpace(ColorSpaceDesc{
		Name:          "sRGB",
		Family:        "display",
		ToReference:   []Op{srgbEncode.Invert()},
		FromReference: []Op{srgbEncode},
	})
	c.AddColorSpace(ColorSpaceDesc{Name: "Raw", Family: "raw", IsData: true})
	c.AddDisplay(DisplayDesc{Name: "sRGB", Views: []ViewDesc{
		{Name: "Standard", ColorSpace: "sRGB"},
		{Name: "Raw", ColorSpace: "Raw"},
	}})
	c.SetRole(RoleSceneLinear, "Linear")
	c.SetRole(RoleData, "Raw")
	c.SetRole(RoleColorPicking, "sRGB")
	c.SetRole(RoleTexturePaint, "Linear")
	c.SetRole(RoleDefaultByte, "sRGB")
	c.SetRole(RoleDefaultFloat, "Linear")
	return c
}
