// Package report prints experiment results to the console.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/bubblesim/internal/experiment"
	"github.com/san-kum/bubblesim/internal/physics"
	"github.com/san-kum/bubblesim/internal/viz"
)

type Reporter struct {
	w       io.Writer
	Verbose bool
}

func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Nanoseconds converts seconds to nanoseconds rounded to four decimals.
func Nanoseconds(seconds float64) float64 {
	return math.Round(seconds*1e9*1e4) / 1e4
}

func tag(r experiment.Run) string {
	return strings.ToUpper(r.Label())
}

// Summary prints the terminal velocity of every run, the tolerance and the
// time each run took to get there.
func (r *Reporter) Summary(runs []experiment.Run, tolerance float64) {
	for _, run := range runs {
		fmt.Fprintf(r.w, "Velocidade limite usando %s: %smm/s\n",
			tag(run), viz.MetricValue.Render(fmt.Sprint(run.Summary.Final.Y)))
	}
	fmt.Fprintf(r.w, "Precisão: %vmm/s\n\n", tolerance)
	for _, run := range runs {
		fmt.Fprintf(r.w, "Tempo até atingir a velocidade limite (%s): %vns\n",
			tag(run), Nanoseconds(run.Summary.Final.X))
	}
}

// Table prints a side by side comparison of the runs and the closed-form
// terminal velocity of the model.
func (r *Reporter) Table(runs []experiment.Run, model *physics.Bubble) error {
	fmt.Fprintln(r.w, viz.HeaderStyle.Render("comparison"))

	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "method\torder\tv_final (mm/s)\tt_final (ns)\tsteps\tconverged\twall")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%d\t%.8f\t%.4f\t%d\t%v\t%v\n",
			run.Method,
			run.Order,
			run.Summary.Final.Y,
			Nanoseconds(run.Summary.Final.X),
			run.Summary.Steps,
			run.Summary.Converged,
			run.Elapsed.Round(time.Microsecond),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if model != nil {
		fmt.Fprintf(r.w, "\n%s %s\n",
			viz.MetricLabel.Render("analytic v*:"),
			viz.MetricValue.Render(fmt.Sprintf("%.8f mm/s", model.TerminalVelocity())))
	}
	return nil
}

// Progress prints, per run, a sparkline of the velocity curve and how close
// the final velocity came to vStar.
func (r *Reporter) Progress(runs []experiment.Run, vStar float64) {
	for _, run := range runs {
		if run.Trajectory == nil {
			continue
		}
		frac := 0.0
		if vStar != 0 {
			frac = run.Summary.Final.Y / vStar
		}
		fmt.Fprintf(r.w, "%-6s %s %s %s\n",
			run.Label(),
			viz.Sparkline(run.Trajectory.Ys, 32),
			viz.ProgressBar(frac, 16),
			viz.Subtle.Render(fmt.Sprintf("%.2f%%", 100*frac)))
	}
}

// Timing prints per-method wall time; only in verbose mode.
func (r *Reporter) Timing(runs []experiment.Run) {
	if !r.Verbose {
		return
	}
	for _, run := range runs {
		fmt.Fprintf(r.w, "%s %s %s\n",
			viz.StatusOK.Render("✓"),
			viz.MetricLabel.Render(fmt.Sprintf("%-6s", run.Method)),
			viz.Subtle.Render(fmt.Sprintf("%d steps in %v", run.Summary.Steps, run.Elapsed.Round(time.Microsecond))))
	}
}

// Failure prints a failed run result.
func (r *Reporter) Failure(err error) {
	fmt.Fprintf(r.w, "%s %v\n", viz.StatusFail.Render("✗"), err)
}
