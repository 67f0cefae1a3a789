package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidState indicates a NaN or Inf value in the initial
	// condition or in a computed step.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a run parameter outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrNotConverged indicates the step cap was reached before the
	// stopping test passed.
	ErrNotConverged = errors.New("dynamo: stopping test not met within step limit")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("dynamo: integration canceled by context")
)

// SimulationError wraps an error with the position at which the run stopped.
// Y is the last valid value, reached at X = X0 + Step*H.
type SimulationError struct {
	Step    int
	X       float64
	Y       float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (x=%g, y=%g): %v", e.Step, e.X, e.Y, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
