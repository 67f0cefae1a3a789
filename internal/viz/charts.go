package viz

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bubblesim/internal/experiment"
	"gonum.org/v1/gonum/interp"
)

const (
	XLabel          = "Tempo (s)"
	YLabel          = "Velocidade (mm/s)"
	ComparisonTitle = "Comparação:"
)

var (
	ErrEmptySeries = errors.New("viz: series has no samples")
	ErrUnordered   = errors.New("viz: sample times are not strictly monotonic")
)

// MethodTitle returns the chart heading for a canonical method name.
func MethodTitle(method string) string {
	switch method {
	case "euler":
		return "Bolha de ar em xampu (usando Euler):"
	case "heun":
		return "Bolha de ar em xampu (usando Euler Aperfeiçoado):"
	case "rk4":
		return "Bolha de ar em xampu (usando RK4):"
	}
	return fmt.Sprintf("Bolha de ar em xampu (usando %s):", method)
}

// Series is one velocity curve.
type Series struct {
	Method string
	Label  string
	Order  int
	Xs     []float64
	Ys     []float64
}

// SeriesFromRuns converts experiment runs to chart series. Runs without a
// trajectory are skipped.
func SeriesFromRuns(runs []experiment.Run) []Series {
	out := make([]Series, 0, len(runs))
	for _, r := range runs {
		if r.Trajectory == nil || r.Trajectory.Len() == 0 {
			continue
		}
		out = append(out, Series{
			Method: r.Method,
			Label:  r.Label(),
			Order:  r.Order,
			Xs:     r.Trajectory.Xs,
			Ys:     r.Trajectory.Ys,
		})
	}
	return out
}

// Span returns the smallest and largest x of the series.
func (s Series) Span() (lo, hi float64) {
	if len(s.Xs) == 0 {
		return 0, 0
	}
	return min(s.Xs[0], s.Xs[len(s.Xs)-1]), max(s.Xs[0], s.Xs[len(s.Xs)-1])
}

// Resample evaluates the piecewise linear interpolant of s at n evenly
// spaced points on [lo, hi]. Points past either end take the end value.
func Resample(s Series, lo, hi float64, n int) ([]float64, error) {
	if len(s.Xs) == 0 || len(s.Xs) != len(s.Ys) {
		return nil, ErrEmptySeries
	}
	n = max(n, 2)
	out := make([]float64, n)
	if len(s.Xs) == 1 {
		for i := range out {
			out[i] = s.Ys[0]
		}
		return out, nil
	}

	xs, ys := s.Xs, s.Ys
	if xs[0] > xs[len(xs)-1] {
		xs, ys = slices.Clone(xs), slices.Clone(ys)
		slices.Reverse(xs)
		slices.Reverse(ys)
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, ErrUnordered
		}
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, err
	}
	for i := range out {
		x := lo + (hi-lo)*float64(i)/float64(n-1)
		out[i] = pl.Predict(x)
	}
	return out, nil
}

type ChartOptions struct {
	Width     int
	Height    int
	Precision uint
	Theme     Theme
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:     80,
		Height:    15,
		Precision: 4,
		Theme:     ThemeClassic,
	}
}

func (o ChartOptions) normalized() ChartOptions {
	d := DefaultChartOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Theme.Name == "" {
		o.Theme = d.Theme
	}
	return o
}

// MethodChart plots one series of velocity against time.
func MethodChart(s Series, opts ChartOptions) (string, error) {
	opts = opts.normalized()
	lo, hi := s.Span()
	data, err := Resample(s, lo, hi, opts.Width)
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.Method, err)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(opts.Height),
		asciigraph.Precision(opts.Precision),
		asciigraph.Caption(MethodTitle(s.Method)),
		asciigraph.AxisColor(opts.Theme.Axis),
		asciigraph.SeriesColors(opts.Theme.SeriesColor(s.Label)),
		asciigraph.SeriesLegends(s.Label),
	)
	return graph + "\n" + axisFooter(lo, hi), nil
}

// ComparisonChart draws every series on a shared time grid, higher order
// methods first.
func ComparisonChart(series []Series, opts ChartOptions) (string, error) {
	opts = opts.normalized()
	if len(series) == 0 {
		return "", ErrEmptySeries
	}

	ordered := slices.Clone(series)
	slices.SortStableFunc(ordered, func(a, b Series) int { return b.Order - a.Order })

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range ordered {
		slo, shi := s.Span()
		lo, hi = min(lo, slo), max(hi, shi)
	}

	data := make([][]float64, len(ordered))
	colors := make([]asciigraph.AnsiColor, len(ordered))
	legends := make([]string, len(ordered))
	for i, s := range ordered {
		ys, err := Resample(s, lo, hi, opts.Width)
		if err != nil {
			return "", fmt.Errorf("%s: %w", s.Method, err)
		}
		data[i] = ys
		colors[i] = opts.Theme.SeriesColor(s.Label)
		legends[i] = s.Label
	}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(opts.Height),
		asciigraph.Precision(opts.Precision),
		asciigraph.Caption(ComparisonTitle),
		asciigraph.AxisColor(opts.Theme.Axis),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	)
	return graph + "\n" + axisFooter(lo, hi), nil
}

func axisFooter(lo, hi float64) string {
	return fmt.Sprintf("%s: %.4g → %.4g   %s", XLabel, lo, hi, YLabel)
}

// Pages builds one pager page per series plus a comparison page.
func Pages(series []Series, opts ChartOptions) ([]Page, error) {
	pages := make([]Page, 0, len(series)+1)
	for _, s := range series {
		body, err := MethodChart(s, opts)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{Title: MethodTitle(s.Method), Body: body})
	}
	if len(series) > 1 {
		body, err := ComparisonChart(series, opts)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{Title: ComparisonTitle, Body: body})
	}
	return pages, nil
}
