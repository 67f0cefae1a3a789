package dynamo

import (
	"fmt"
	"math"
	"strings"
)

// DefaultMaxSteps bounds a run when Params.MaxSteps is zero.
const DefaultMaxSteps = 10_000_000

// Func is the right-hand side of dy/dx = f(y, x). It must be pure.
type Func func(y, x float64) float64

// Stepper advances y by one step of size h from (x, y).
type Stepper interface {
	Step(f Func, y, x, h float64) float64
}

// Method is a Stepper that can describe itself.
type Method interface {
	Stepper
	Name() string
	Order() int
}

// StepperFunc adapts a plain function to the Stepper interface.
type StepperFunc func(f Func, y, x, h float64) float64

func (s StepperFunc) Step(f Func, y, x, h float64) float64 {
	return s(f, y, x, h)
}

// StopRule selects how the relative change between consecutive values is
// compared against the tolerance.
type StopRule int

const (
	// StopSigned stops when (y1-y0)/y1 < tol. A decreasing positive state
	// yields a negative ratio and stops on the first step.
	StopSigned StopRule = iota
	// StopAbsolute stops when |y1-y0|/|y1| < tol.
	StopAbsolute
)

func (r StopRule) String() string {
	switch r {
	case StopSigned:
		return "signed"
	case StopAbsolute:
		return "absolute"
	default:
		return fmt.Sprintf("StopRule(%d)", int(r))
	}
}

// ParseStopRule accepts "signed" or "absolute" (case-insensitive).
// The empty string selects StopSigned.
func ParseStopRule(s string) (StopRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "signed":
		return StopSigned, nil
	case "absolute", "abs":
		return StopAbsolute, nil
	default:
		return StopSigned, fmt.Errorf("%w: unknown stop rule %q", ErrParameterBounds, s)
	}
}

// Converged reports whether the step from prev to next passes the stopping
// test. A zero next value, or a sign change between prev and next, never
// converges.
func (r StopRule) Converged(prev, next, tol float64) bool {
	if next == 0 || prev*next < 0 {
		return false
	}
	ratio := (next - prev) / next
	if r == StopAbsolute {
		ratio = math.Abs(ratio)
	}
	return ratio < tol
}

// Params holds the inputs of one run.
type Params struct {
	Y0        float64
	X0        float64
	H         float64
	Tolerance float64
	// MaxSteps caps the number of steps; zero means DefaultMaxSteps.
	MaxSteps int
	Rule     StopRule
}

func (p Params) maxSteps() int {
	if p.MaxSteps == 0 {
		return DefaultMaxSteps
	}
	return p.MaxSteps
}

// Validate checks the parameters before any step is taken.
func (p Params) Validate() error {
	if math.IsNaN(p.Y0) || math.IsInf(p.Y0, 0) || math.IsNaN(p.X0) || math.IsInf(p.X0, 0) {
		return fmt.Errorf("%w: initial point (%g, %g)", ErrInvalidState, p.X0, p.Y0)
	}
	if p.H == 0 || math.IsNaN(p.H) || math.IsInf(p.H, 0) {
		return fmt.Errorf("%w: step size must be finite and nonzero, got %g", ErrParameterBounds, p.H)
	}
	if math.IsNaN(p.Tolerance) || p.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be >= 0, got %g", ErrParameterBounds, p.Tolerance)
	}
	if p.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must be >= 0, got %d", ErrParameterBounds, p.MaxSteps)
	}
	if p.Rule != StopSigned && p.Rule != StopAbsolute {
		return fmt.Errorf("%w: unknown stop rule %v", ErrParameterBounds, p.Rule)
	}
	return nil
}

// XAt returns x0 + n*h.
func (p Params) XAt(n int) float64 {
	return p.X0 + float64(n)*p.H
}

// Sample is one (x, y) point of a run.
type Sample struct {
	X float64
	Y float64
}

// Trajectory is the ordered output of one run. Xs and Ys have equal length.
type Trajectory struct {
	Xs []float64
	Ys []float64
}

func newTrajectory(capacity int) *Trajectory {
	return &Trajectory{
		Xs: make([]float64, 0, capacity),
		Ys: make([]float64, 0, capacity),
	}
}

func (t *Trajectory) append(s Sample) {
	t.Xs = append(t.Xs, s.X)
	t.Ys = append(t.Ys, s.Y)
}

// Len returns the number of samples.
func (t *Trajectory) Len() int { return len(t.Ys) }

// Steps returns the number of steps taken, Len()-1.
func (t *Trajectory) Steps() int { return len(t.Ys) - 1 }

// At returns the i-th sample.
func (t *Trajectory) At(i int) Sample { return Sample{X: t.Xs[i], Y: t.Ys[i]} }

// Final returns the last sample. It panics on an empty trajectory.
func (t *Trajectory) Final() Sample { return t.At(len(t.Ys) - 1) }

// Summary is the fold of a run that does not keep its samples.
type Summary struct {
	Final     Sample
	Steps     int
	Converged bool
}

// Configurable is implemented by models whose constants can be changed by
// name at runtime.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
