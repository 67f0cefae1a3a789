package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

var ErrUnknownFormat = errors.New("export: unknown image format")

type encoder func(p *plot.Plot, opts Options, path string) error

// Formats lists the supported output formats.
var Formats = []string{"png", "svg", "pdf"}

func encoderFor(format string) (encoder, error) {
	switch strings.ToLower(format) {
	case "png":
		return savePNG, nil
	case "svg":
		return saveVector(func(w, h vg.Length) vg.CanvasWriterTo { return vgsvg.New(w, h) }), nil
	case "pdf":
		return saveVector(func(w, h vg.Length) vg.CanvasWriterTo { return vgpdf.New(w, h) }), nil
	}
	return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
}

func size(opts Options) (vg.Length, vg.Length) {
	d := DefaultOptions()
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = d.Width
	}
	if h <= 0 {
		h = d.Height
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

func savePNG(p *plot.Plot, opts Options, path string) error {
	w, h := size(opts)
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultOptions().DPI
	}
	c := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))
	return writeFile(path, vgimg.PngCanvas{Canvas: c})
}

func saveVector(newCanvas func(w, h vg.Length) vg.CanvasWriterTo) encoder {
	return func(p *plot.Plot, opts Options, path string) error {
		c := newCanvas(size(opts))
		p.Draw(draw.New(c))
		return writeFile(path, c)
	}
}

func writeFile(path string, wt io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if _, err := wt.WriteTo(bw); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
