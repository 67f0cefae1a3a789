package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/bubblesim/internal/dynamo"
	"github.com/san-kum/bubblesim/internal/physics"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Methods []string
	Params  dynamo.Params
	Model   *physics.Bubble
	// SummaryOnly folds each run instead of keeping its samples.
	SummaryOnly bool
}

// Run is the outcome of integrating the model with one method.
type Run struct {
	Method string
	Order  int
	// Trajectory is nil when the experiment was configured SummaryOnly.
	Trajectory *dynamo.Trajectory
	Summary    dynamo.Summary
	Elapsed    time.Duration
}

// Label is the short legend name, rk1, rk2 or rk4.
func (r Run) Label() string {
	return fmt.Sprintf("rk%d", r.Order)
}

type Experiment struct {
	cfg     Config
	methods []dynamo.Method
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup resolves method names against the registry. Names that resolve to
// the same method are run once.
func (e *Experiment) Setup(reg *Registry) error {
	if e.cfg.Model == nil {
		return fmt.Errorf("experiment: model is required")
	}
	if err := e.cfg.Model.Validate(); err != nil {
		return err
	}
	if err := e.cfg.Params.Validate(); err != nil {
		return err
	}
	if len(e.cfg.Methods) == 0 {
		return fmt.Errorf("experiment: no methods selected")
	}

	seen := make(map[string]bool)
	e.methods = e.methods[:0]
	for _, name := range e.cfg.Methods {
		m, err := reg.GetMethod(name)
		if err != nil {
			return err
		}
		if seen[m.Name()] {
			continue
		}
		seen[m.Name()] = true
		e.methods = append(e.methods, m)
	}
	return nil
}

// Run integrates the model with every selected method concurrently and
// returns the runs in selection order. The first failure cancels the rest.
func (e *Experiment) Run(ctx context.Context) ([]Run, error) {
	if len(e.methods) == 0 {
		return nil, fmt.Errorf("experiment not setup")
	}

	f := e.cfg.Model.Clone().Derive
	runs := make([]Run, len(e.methods))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range e.methods {
		g.Go(func() error {
			run, err := e.runOne(gctx, f, m)
			if err != nil {
				return fmt.Errorf("%s: %w", m.Name(), err)
			}
			runs[i] = run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (e *Experiment) runOne(ctx context.Context, f dynamo.Func, m dynamo.Method) (Run, error) {
	run := Run{Method: m.Name(), Order: m.Order()}
	start := time.Now()

	if e.cfg.SummaryOnly {
		sum, err := dynamo.Summarize(ctx, f, m, e.cfg.Params)
		if err != nil {
			return run, err
		}
		run.Summary = sum
	} else {
		tr, err := dynamo.Integrate(ctx, f, m, e.cfg.Params)
		if err != nil {
			return run, err
		}
		run.Trajectory = tr
		run.Summary = dynamo.Summary{Final: tr.Final(), Steps: tr.Steps(), Converged: true}
	}

	run.Elapsed = time.Since(start)
	return run, nil
}

// Methods returns the resolved methods in run order.
func (e *Experiment) Methods() []dynamo.Method {
	return e.methods
}
