package integrators

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/bubblesim/internal/dynamo"
)

func exponentialDecay(y, x float64) float64 {
	return -y
}

func solveTo(m dynamo.Stepper, f dynamo.Func, y0, h float64, steps int) float64 {
	y := y0
	for i := 0; i < steps; i++ {
		y = m.Step(f, y, float64(i)*h, h)
	}
	return y
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	dt := 0.01
	steps := 100

	y := solveTo(integ, exponentialDecay, 1.0, dt, steps)
	expected := math.Exp(-float64(steps) * dt)

	if math.Abs(y-expected) > 1e-9 {
		t.Errorf("rk4 error too large: got %.12f, expected %.12f", y, expected)
	}
}

func TestRK4BeatsEulerOnDecay(t *testing.T) {
	h := 0.1
	steps := 10
	exact := math.Exp(-1.0)

	errEuler := math.Abs(solveTo(NewEuler(), exponentialDecay, 1, h, steps) - exact)
	errHeun := math.Abs(solveTo(NewHeun(), exponentialDecay, 1, h, steps) - exact)
	errRK4 := math.Abs(solveTo(NewRK4(), exponentialDecay, 1, h, steps) - exact)

	t.Logf("euler=%.3e heun=%.3e rk4=%.3e", errEuler, errHeun, errRK4)

	if !(errRK4 < errHeun && errHeun < errEuler) {
		t.Errorf("expected rk4 < heun < euler, got %.3e, %.3e, %.3e", errRK4, errHeun, errEuler)
	}
}

func TestConvergenceOrder(t *testing.T) {
	exact := math.Exp(-1.0)

	for _, m := range []dynamo.Method{NewEuler(), NewHeun(), NewRK4()} {
		t.Run(m.Name(), func(t *testing.T) {
			coarse := math.Abs(solveTo(m, exponentialDecay, 1, 0.1, 10) - exact)
			fine := math.Abs(solveTo(m, exponentialDecay, 1, 0.05, 20) - exact)

			observed := math.Log2(coarse / fine)
			if math.Abs(observed-float64(m.Order())) > 0.3 {
				t.Errorf("observed order %.2f, want %d", observed, m.Order())
			}
		})
	}
}

func TestConstantDerivativeIdenticalAcrossMethods(t *testing.T) {
	f := func(y, x float64) float64 { return 5 }
	p := dynamo.Params{Y0: 0, X0: 0, H: 0.1, Tolerance: 1e-3}

	ref, err := dynamo.Integrate(context.Background(), f, NewEuler(), p)
	if err != nil {
		t.Fatalf("euler: %v", err)
	}

	for _, m := range []dynamo.Method{NewHeun(), NewRK4()} {
		tr, err := dynamo.Integrate(context.Background(), f, m, p)
		if err != nil {
			t.Fatalf("%s: %v", m.Name(), err)
		}
		if tr.Len() != ref.Len() {
			t.Fatalf("%s: length %d, euler %d", m.Name(), tr.Len(), ref.Len())
		}
		for i := range tr.Ys {
			if tr.Ys[i] != ref.Ys[i] {
				t.Fatalf("%s: y[%d] = %v, euler %v", m.Name(), i, tr.Ys[i], ref.Ys[i])
			}
		}
	}

	if ref.Len() != 1002 || ref.Final().Y != 500.5 {
		t.Errorf("unexpected termination: len=%d final=%v", ref.Len(), ref.Final())
	}
}

func TestGridIsFixedForAllMethods(t *testing.T) {
	f := func(y, x float64) float64 { return 1 + x }
	p := dynamo.Params{Y0: 1, X0: 0.5, H: 0.03, Tolerance: 1e-3}

	for _, m := range []dynamo.Method{NewEuler(), NewHeun(), NewRK4()} {
		tr, err := dynamo.Integrate(context.Background(), f, m, p)
		if err != nil {
			t.Fatalf("%s: %v", m.Name(), err)
		}
		for n, x := range tr.Xs {
			if x != p.X0+float64(n)*p.H {
				t.Fatalf("%s: x[%d] = %v", m.Name(), n, x)
			}
		}
	}
}

func TestHeunMatchesClosedFormOnLinear(t *testing.T) {
	// f = x has y = x^2/2; the trapezoidal corrector is exact for it
	f := func(y, x float64) float64 { return x }
	y := solveTo(NewHeun(), f, 0, 0.5, 4)
	if y != 2.0 {
		t.Errorf("heun on f=x: got %v, want 2", y)
	}
}
