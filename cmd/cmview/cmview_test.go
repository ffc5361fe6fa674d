package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cmview %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestListAll(t *testing.T) {
	out := runCmd(t, "list")
	for _, want := range []string{"Filmic Log", "sRGB (default)", "Filmic - High Contrast", "None"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestListUnknown(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"list", "cameras"})
	if err := cmd.Execute(); err == nil {
		t.Error("list cameras succeeded, want error")
	}
}

func TestRenderIdentity(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 180
	}
	writePNG(t, in, src)

	out := filepath.Join(dir, "out.png")
	runCmd(t, "render", "--workers", "1", "-o", out, in)

	got := decodeFile(t, out)
	if c := color.NRGBAModel.Convert(got.At(1, 1)).(color.NRGBA); c != (color.NRGBA{R: 180, G: 180, B: 180, A: 180}) {
		t.Errorf("pixel = %v, want the input unchanged", c)
	}
}

func TestRenderExposureBatch(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, name := range []string{"a.png", "b.png"} {
		src := image.NewNRGBA(image.Rect(0, 0, 8, 6))
		for i := range src.Pix {
			src.Pix[i] = 100
			if i%4 == 3 {
				src.Pix[i] = 255
			}
		}
		p := filepath.Join(dir, name)
		writePNG(t, p, src)
		inputs = append(inputs, p)
	}

	args := append([]string{"render", "--out-dir", dir, "--exposure", "1", "--width", "4"}, inputs...)
	runCmd(t, args...)

	for _, name := range []string{"a.display.png", "b.display.png"} {
		img := decodeFile(t, filepath.Join(dir, name))
		if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
			t.Errorf("%s size = %v, want 4x3", name, b)
		}
		r, _, _, _ := img.At(1, 1).RGBA()
		if r>>8 <= 100 {
			t.Errorf("%s red = %d, want brighter than 100", name, r>>8)
		}
	}
}

func TestRenderOutputNeedsSingleInput(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"render", "-o", "x.png", "a.png", "b.png"})
	if err := cmd.Execute(); err != errOutputForMany {
		t.Errorf("Execute() = %v, want %v", err, errOutputForMany)
	}
}

func TestScaledSize(t *testing.T) {
	b := image.Rect(0, 0, 200, 100)
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{50, 0, 50, 25},
		{0, 20, 40, 20},
		{30, 30, 30, 30},
	}
	for _, tt := range tests {
		w, h := scaledSize(b, tt.w, tt.h)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("scaledSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}
