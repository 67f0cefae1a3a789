package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/bubblesim/internal/config"
	"github.com/san-kum/bubblesim/internal/experiment"
	"github.com/san-kum/bubblesim/internal/export"
	"github.com/san-kum/bubblesim/internal/optim"
	"github.com/san-kum/bubblesim/internal/report"
	"github.com/san-kum/bubblesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	dt         float64
	tol        float64
	v0         float64
	t0         float64
	maxSteps   int
	stopRule   string
	methods    []string
	sets       []string
	verbose    bool
	noPlot     bool
	// plot / view
	outDir string
	format string
	theme  string
	// sweep
	axes        []string
	sweepMethod string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		report.New(os.Stderr).Failure(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bubblesim",
		Short:         "terminal velocity of an air bubble rising through shampoo",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAll,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "step size (s)")
	pf.Float64Var(&tol, "tol", config.DefaultTolerance, "relative change tolerance")
	pf.Float64Var(&v0, "v0", config.DefaultV0, "initial velocity (mm/s)")
	pf.Float64Var(&t0, "t0", config.DefaultT0, "initial time (s)")
	pf.IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "step cap")
	pf.StringVar(&stopRule, "stop-rule", config.DefaultStopRule, "stop rule (signed|absolute)")
	pf.StringSliceVar(&methods, "methods", []string{"euler", "heun", "rk4"}, "integration methods")
	pf.StringArrayVar(&sets, "set", nil, "bubble parameter override, name=value (repeatable)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "print per-method timing")
	pf.BoolVar(&noPlot, "no-plot", false, "skip terminal charts")
	pf.StringVar(&theme, "theme", viz.ThemeClassic.Name, "chart theme ("+strings.Join(viz.ThemeNames(), "|")+")")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the selected methods and print the report",
		Args:  cobra.NoArgs,
		RunE:  runAll,
	}

	methodCmd := &cobra.Command{
		Use:   "method [name]",
		Short: "run a single method",
		Args:  cobra.ExactArgs(1),
		RunE:  runMethod,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare methods in a table",
		Args:  cobra.NoArgs,
		RunE:  compareMethods,
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "write chart files",
		Args:  cobra.NoArgs,
		RunE:  plotFiles,
	}
	plotCmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")
	plotCmd.Flags().StringVar(&format, "format", "", "image format ("+strings.Join(export.Formats, "|")+")")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "browse the charts interactively",
		Args:  cobra.NoArgs,
		RunE:  viewCharts,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one method over a grid of bubble parameters",
		Args:  cobra.NoArgs,
		RunE:  sweepParams,
	}
	sweepCmd.Flags().StringArrayVar(&axes, "param", nil, "sweep axis, name=v1,v2 or name=lo:hi:n (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMethod, "method", "rk4", "integration method")
	sweepCmd.MarkFlagRequired("param")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "presets:")
			for _, p := range config.ListPresets() {
				c := config.GetPreset(p)
				fmt.Fprintf(w, "  %-8s dt=%g tol=%g rule=%s\n", p, c.Dt, c.Tolerance, c.StopRule)
			}
		},
	}

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list integration methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "method\torder\taliases")
			for _, name := range reg.ListMethods() {
				m, err := reg.GetMethod(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", name, m.Order(), strings.Join(reg.Aliases(name), ", "))
			}
			return tw.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, methodCmd, compareCmd, plotCmd, viewCmd, sweepCmd, presetsCmd, methodsCmd, initCmd)
	return rootCmd
}

// loadConfig layers defaults, preset, config file, and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tol
	}
	if flags.Changed("v0") {
		cfg.V0 = v0
	}
	if flags.Changed("t0") {
		cfg.T0 = t0
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("stop-rule") {
		cfg.StopRule = stopRule
	}
	if flags.Changed("methods") {
		cfg.Methods = methods
	}

	for _, kv := range sets {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, want name=value", kv)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", kv, err)
		}
		if err := cfg.Bubble.SetParam(strings.TrimSpace(name), val); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runExperiment(ctx context.Context, cfg *config.Config, summaryOnly bool) ([]experiment.Run, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	exp := experiment.New(experiment.Config{
		Methods:     cfg.Methods,
		Params:      params,
		Model:       &cfg.Bubble,
		SummaryOnly: summaryOnly,
	})
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func chartOptions(cfg *config.Config) viz.ChartOptions {
	return viz.ChartOptions{
		Width:     cfg.Plot.AsciiWidth,
		Height:    cfg.Plot.AsciiHeight,
		Precision: 4,
		Theme:     viz.GetTheme(theme),
	}
}

func printCharts(w io.Writer, cfg *config.Config, runs []experiment.Run) error {
	pages, err := viz.Pages(viz.SeriesFromRuns(runs), chartOptions(cfg))
	if err != nil {
		return err
	}
	for i, p := range pages {
		if i > 0 {
			fmt.Fprintln(w, viz.Separator(cfg.Plot.AsciiWidth))
		}
		fmt.Fprintf(w, "\n%s\n\n", p.Body)
	}
	return nil
}

func runAll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return runAndReport(cmd, cfg)
}

func runMethod(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Methods = []string{args[0]}
	return runAndReport(cmd, cfg)
}

func runAndReport(cmd *cobra.Command, cfg *config.Config) error {
	w := cmd.OutOrStdout()
	runs, err := runExperiment(cmd.Context(), cfg, noPlot)
	if err != nil {
		return err
	}

	rep := report.New(w)
	rep.Verbose = verbose
	rep.Summary(runs, cfg.Tolerance)
	rep.Timing(runs)
	if noPlot {
		return nil
	}
	return printCharts(w, cfg, runs)
}

func compareMethods(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s (dt=%g, tol=%g, rule=%s)\n\n", viz.Title.Render("comparing methods"), cfg.Dt, cfg.Tolerance, cfg.StopRule)

	runs, err := runExperiment(cmd.Context(), cfg, noPlot)
	if err != nil {
		return err
	}
	rep := report.New(w)
	rep.Verbose = verbose
	if err := rep.Table(runs, &cfg.Bubble); err != nil {
		return err
	}
	if !noPlot {
		fmt.Fprintln(w)
		rep.Progress(runs, cfg.Bubble.TerminalVelocity())
	}
	return nil
}

func plotFiles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runs, err := runExperiment(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}

	opts := export.Options{
		Dir:    cfg.Plot.Dir,
		Format: cfg.Plot.Format,
		Width:  cfg.Plot.Width,
		Height: cfg.Plot.Height,
		DPI:    cfg.Plot.DPI,
	}
	if outDir != "" {
		opts.Dir = outDir
	}
	if format != "" {
		opts.Format = format
	}

	paths, err := export.WriteAll(viz.SeriesFromRuns(runs), opts)
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
	}
	return err
}

func viewCharts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runs, err := runExperiment(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	return viz.RunPager(viz.SeriesFromRuns(runs), chartOptions(cfg))
}

func sweepParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(axes))
	ranges := make([][]float64, 0, len(axes))
	for _, a := range axes {
		name, vals, err := optim.ParseAxis(a)
		if err != nil {
			return err
		}
		if _, ok := cfg.Bubble.GetParams()[name]; !ok {
			return fmt.Errorf("unknown param: %s", name)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	points, err := grid.Search(cmd.Context(), func(p map[string]float64) (*experiment.Experiment, error) {
		model := cfg.Bubble.Clone()
		for name, v := range p {
			if err := model.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(experiment.Config{
			Methods:     []string{sweepMethod},
			Params:      params,
			Model:       model,
			SummaryOnly: true,
		})
		return exp, exp.Setup(experiment.NewRegistry())
	})

	w := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tv_final (mm/s)\tv* (mm/s)\tt_final (ns)\tsteps\n", strings.Join(names, "\t"))
	for _, pt := range points {
		model := cfg.Bubble.Clone()
		cols := make([]string, len(names))
		for i, n := range names {
			cols[i] = strconv.FormatFloat(pt.Params[n], 'g', -1, 64)
			if serr := model.SetParam(n, pt.Params[n]); serr != nil {
				return serr
			}
		}
		run := pt.Runs[0]
		fmt.Fprintf(tw, "%s\t%.8f\t%.8f\t%.4f\t%d\n",
			strings.Join(cols, "\t"),
			run.Summary.Final.Y,
			model.TerminalVelocity(),
			report.Nanoseconds(run.Summary.Final.X),
			run.Summary.Steps)
	}
	if ferr := tw.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
