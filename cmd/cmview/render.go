package main

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/colorman"
)

var errOutputForMany = errors.New("cmview: --output needs exactly one input, use --out-dir")

type renderOptions struct {
	output     string
	outDir     string
	display    string
	view       string
	look       string
	colorspace string
	exposure   float32
	gamma      float32
	dither     float32
	width      int
	height     int
	jobs       int
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [flags] <image>...",
		Short: "Render PNG, JPEG, TIFF or BMP images for a display and view",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) != 1 {
				return errOutputForMany
			}
			m := root.manager()
			defer m.Close()
			return opts.run(cmd, m, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output PNG for a single input")
	f.StringVar(&opts.outDir, "out-dir", ".", "directory for <name>.display.png outputs")
	f.StringVar(&opts.display, "display", "", "display device (default: config default)")
	f.StringVar(&opts.view, "view", "", "view transform (default: Standard or display default)")
	f.StringVar(&opts.look, "look", "None", "look applied before the view")
	f.StringVar(&opts.colorspace, "colorspace", "", "color space of the input pixels (default: default_byte role)")
	f.Float32Var(&opts.exposure, "exposure", 0, "exposure in stops")
	f.Float32Var(&opts.gamma, "gamma", 1, "display gamma")
	f.Float32Var(&opts.dither, "dither", 0, "dither amplitude in byte steps")
	f.IntVar(&opts.width, "width", 0, "resample to this width before rendering")
	f.IntVar(&opts.height, "height", 0, "resample to this height before rendering")
	f.IntVarP(&opts.jobs, "jobs", "j", 4, "images rendered concurrently")
	return cmd
}

func (o *renderOptions) run(cmd *cobra.Command, m *colorman.Manager, inputs []string) error {
	display := colorman.DisplaySettings{Display: o.display}
	m.ValidateDisplaySettings(&display)

	view := m.DefaultViewSettings(display)
	if o.view != "" {
		view.View = o.view
	}
	view.Look = o.look
	view.Exposure = o.exposure
	view.Gamma = o.gamma
	m.ValidateViewSettings(&view, display)

	var g errgroup.Group
	g.SetLimit(max(o.jobs, 1))
	for _, in := range inputs {
		g.Go(func() error {
			out := o.outputPath(in)
			if err := o.renderFile(m, in, out, &view, display); err != nil {
				return fmt.Errorf("cmview: %s: %w", in, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, %s)\n", in, out, display.Display, view.View)
			return nil
		})
	}
	return g.Wait()
}

func (o *renderOptions) outputPath(in string) string {
	if o.output != "" {
		return o.output
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return filepath.Join(o.outDir, base+".display.png")
}

func (o *renderOptions) renderFile(m *colorman.Manager, in, out string, view *colorman.ViewSettings, display colorman.DisplaySettings) error {
	src, err := decodeImage(in)
	if err != nil {
		return err
	}

	var img *colorman.ImageBuffer
	if o.width > 0 || o.height > 0 {
		w, h := scaledSize(src.Bounds(), o.width, o.height)
		img = colorman.FromImageScaled(src, w, h)
	} else {
		img = colorman.FromImage(src)
	}
	img.Dither = o.dither
	if o.colorspace != "" {
		m.AssignRectColorspace(img, o.colorspace)
	} else {
		m.SetDefaultSpaces(img)
	}

	buf, h := m.AcquireDisplayBuffer(img, view, display)
	defer m.ReleaseDisplayBuffer(h)
	return encodePNG(out, colorman.ToNRGBA(buf, img.Width, img.Height))
}

// scaledSize fills a missing dimension keeping the aspect ratio of b.
func scaledSize(b image.Rectangle, width, height int) (int, int) {
	switch {
	case width > 0 && height > 0:
		return width, height
	case width > 0:
		return width, max(1, b.Dy()*width/max(1, b.Dx()))
	default:
		return max(1, b.Dx()*height/max(1, b.Dy())), height
	}
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func encodePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
