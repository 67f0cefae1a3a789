package dynamo

import (
	"context"
	"fmt"
	"iter"
	"math"
)

const initialCapacity = 1024

// Walk runs the fixed-step loop from (X0, Y0) and hands every sample,
// starting with the initial point, to visit. The run ends when the stopping
// test passes, when visit returns false, or with an error.
//
// A nil visit only folds the run into the returned Summary.
func Walk(ctx context.Context, f Func, s Stepper, p Params, visit func(Sample) bool) (Summary, error) {
	if err := p.Validate(); err != nil {
		return Summary{}, err
	}
	if f == nil || s == nil {
		return Summary{}, fmt.Errorf("%w: derivative and stepper are required", ErrParameterBounds)
	}

	cur := Sample{X: p.X0, Y: p.Y0}
	sum := Summary{Final: cur}
	if visit != nil && !visit(cur) {
		return sum, nil
	}

	limit := p.maxSteps()
	for n := 0; n < limit; n++ {
		select {
		case <-ctx.Done():
			return sum, &SimulationError{Step: n, X: cur.X, Y: cur.Y, Wrapped: fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())}
		default:
		}

		next := s.Step(f, cur.Y, cur.X, p.H)
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return sum, &SimulationError{Step: n, X: cur.X, Y: cur.Y, Wrapped: ErrInvalidState}
		}

		prev := cur.Y
		cur = Sample{X: p.XAt(n + 1), Y: next}
		sum.Final = cur
		sum.Steps = n + 1

		done := p.Rule.Converged(prev, next, p.Tolerance)
		if visit != nil && !visit(cur) {
			sum.Converged = done
			return sum, nil
		}
		if done {
			sum.Converged = true
			return sum, nil
		}
	}

	return sum, &SimulationError{Step: limit, X: cur.X, Y: cur.Y, Wrapped: ErrNotConverged}
}

// Integrate runs the loop and returns every sample. On a failed run the
// samples produced so far are returned together with the error; a
// parameter error returns a nil trajectory.
func Integrate(ctx context.Context, f Func, s Stepper, p Params) (*Trajectory, error) {
	tr := newTrajectory(initialCapacity)
	_, err := Walk(ctx, f, s, p, func(smp Sample) bool {
		tr.append(smp)
		return true
	})
	if err != nil {
		if tr.Len() == 0 {
			return nil, err
		}
		return tr, err
	}
	return tr, nil
}

// Summarize runs the loop without keeping samples.
func Summarize(ctx context.Context, f Func, s Stepper, p Params) (Summary, error) {
	return Walk(ctx, f, s, p, nil)
}

// Samples returns a producer over the run. Each range over it starts a
// fresh run. A failure is yielded once as the final pair with a zero Sample.
func Samples(ctx context.Context, f Func, s Stepper, p Params) iter.Seq2[Sample, error] {
	return func(yield func(Sample, error) bool) {
		stopped := false
		_, err := Walk(ctx, f, s, p, func(smp Sample) bool {
			if !yield(smp, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(Sample{}, err)
		}
	}
}
