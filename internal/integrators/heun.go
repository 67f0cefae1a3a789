package integrators

import "github.com/san-kum/bubblesim/internal/dynamo"

// Heun is the improved Euler method: an Euler predictor followed by a
// trapezoidal corrector.
type Heun struct{}

func NewHeun() *Heun {
	return &Heun{}
}

func (m *Heun) Name() string { return "heun" }
func (m *Heun) Order() int   { return 2 }

func (m *Heun) Step(f dynamo.Func, y, x, h float64) float64 {
	slope := f(y, x)
	predicted := y + h*slope
	return y + 0.5*h*(slope+f(predicted, x+h))
}
