// Package physics provides the models integrated by bubblesim.
//
// [Bubble] describes an air bubble rising through a viscous liquid under
// buoyancy and a power-law drag. Its [Bubble.Derive] method has the
// [dynamo.Func] signature and is passed directly to the integrators:
//
//	b := physics.NewBubble()
//	tr, err := dynamo.Integrate(ctx, b.Derive, integrators.NewRK4(), params)
//
// Units are millimetres, grams and seconds throughout. Bubble also
// implements [dynamo.Configurable] so constants can be overridden from the
// command line or a config file.
package physics
