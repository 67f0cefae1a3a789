// Package export writes velocity charts to image files with gonum/plot.
package export

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/san-kum/bubblesim/internal/viz"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var seriesColors = map[string]color.Color{
	"rk1": color.RGBA{B: 255, A: 255},
	"rk2": color.RGBA{G: 128, A: 255},
	"rk4": color.RGBA{R: 255, A: 255},
}

func seriesColor(label string) color.Color {
	if c, ok := seriesColors[label]; ok {
		return c
	}
	return color.Black
}

type Options struct {
	Dir    string
	Format string
	// Width and Height are in inches.
	Width  float64
	Height float64
	DPI    int
}

func DefaultOptions() Options {
	return Options{
		Dir:    "plots",
		Format: "png",
		Width:  8,
		Height: 6,
		DPI:    300,
	}
}

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	maxLabels = max(maxLabels, 2)
	return plot.TickerFunc(func(lo, hi float64) []plot.Tick {
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return nil
		}
		if lo == hi {
			return []plot.Tick{{Value: lo, Label: fmt.Sprintf(labelFmt, lo)}}
		}
		step := (hi - lo) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := range maxLabels {
			v := lo + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = viz.XLabel
	p.Y.Label.Text = viz.YLabel

	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(10)
	p.X.Label.TextStyle.Font.Size = vg.Points(13)
	p.Y.Label.TextStyle.Font.Size = vg.Points(13)
	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)
	p.X.Tick.Marker = limitedTicker(6, "%.3g")
	p.Y.Tick.Marker = limitedTicker(8, "%.3g")

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false
	return p
}

func addSeries(p *plot.Plot, s viz.Series) error {
	if len(s.Xs) == 0 || len(s.Xs) != len(s.Ys) {
		return fmt.Errorf("%s: %w", s.Method, viz.ErrEmptySeries)
	}
	pts := make(plotter.XYs, len(s.Xs))
	for i := range s.Xs {
		pts[i].X = s.Xs[i]
		pts[i].Y = s.Ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Method, err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = seriesColor(s.Label)
	p.Add(line)
	p.Legend.Add(s.Label, line)
	return nil
}

// MethodPlot builds the chart for a single method.
func MethodPlot(s viz.Series) (*plot.Plot, error) {
	p := newPlot(viz.MethodTitle(s.Method))
	if err := addSeries(p, s); err != nil {
		return nil, err
	}
	return p, nil
}

// ComparisonPlot overlays every series, higher order methods drawn first.
func ComparisonPlot(series []viz.Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, viz.ErrEmptySeries
	}
	ordered := slices.Clone(series)
	slices.SortStableFunc(ordered, func(a, b viz.Series) int { return b.Order - a.Order })

	p := newPlot(viz.ComparisonTitle)
	for _, s := range ordered {
		if err := addSeries(p, s); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// WriteAll writes one chart per series plus the comparison chart into
// opts.Dir and returns the paths written.
func WriteAll(series []viz.Series, opts Options) ([]string, error) {
	enc, err := encoderFor(opts.Format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create directory: %w", err)
	}

	var paths []string
	write := func(p *plot.Plot, name string) error {
		path := filepath.Join(opts.Dir, name+"."+opts.Format)
		if err := enc(p, opts, path); err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	}

	for _, s := range series {
		p, err := MethodPlot(s)
		if err != nil {
			return paths, err
		}
		if err := write(p, s.Method); err != nil {
			return paths, err
		}
	}
	if len(series) > 1 {
		p, err := ComparisonPlot(series)
		if err != nil {
			return paths, err
		}
		if err := write(p, "comparison"); err != nil {
			return paths, err
		}
	}
	return paths, nil
}
