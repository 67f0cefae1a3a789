package integrators

import "github.com/san-kum/bubblesim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }
func (r *RK4) Order() int   { return 4 }

func (r *RK4) Step(f dynamo.Func, y, x, h float64) float64 {
	halfH := h / 2

	k1 := h * f(y, x)
	k2 := h * f(y+k1/2, x+halfH)
	k3 := h * f(y+k2/2, x+halfH)
	k4 := h * f(y+k3, x+h)

	return y + (k1+2*k2+2*k3+k4)/6
}
