// Package dynamo provides the fixed-step driver for scalar ordinary
// differential equations dy/dx = f(y, x).
//
// The package defines the primitives shared by every integration method:
//
//   - [Func]: the right-hand side f(y, x)
//   - [Stepper]: a single-step update rule (Euler, Heun, RK4, ...)
//   - [Params]: initial condition, step size and stopping tolerance
//   - [Trajectory]: the (x, y) samples produced by one run
//
// A run advances y in steps of h until the relative change between two
// consecutive values drops below the tolerance (see [StopRule]).
//
// # Example
//
//	f := physics.NewBubble().Derive
//	tr, err := dynamo.Integrate(ctx, f, integrators.NewRK4(), dynamo.Params{
//		H:         1e-9,
//		Tolerance: 1e-5,
//	})
//
// # Streaming
//
// For very small steps the full trajectory can be large. [Walk],
// [Samples] and [Summarize] drive the same loop without storing it.
//
// # Thread Safety
//
// Runs share no state; distinct runs may execute concurrently as long as
// the supplied [Func] is itself safe for concurrent use.
package dynamo
