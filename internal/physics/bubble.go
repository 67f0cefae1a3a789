package physics

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Shampoo defaults (mm, g, s).
const (
	DefaultRadius       = 2.5
	DefaultAirDensity   = 1.25e-6
	DefaultFluidDensity = 1.03e-3
	DefaultGravity      = 9.78e3
	DefaultExponent     = 1.7
	DefaultDrag         = 420.0
)

var ErrInvalidModel = errors.New("physics: invalid model parameters")

// Bubble is an air bubble of radius R rising through a liquid. Its velocity
// obeys
//
//	dv/dt = (ρf-ρa)·g/ρa - 3·b·vⁿ / (4·π·R³·ρa)
type Bubble struct {
	Radius       float64 `yaml:"radius"`
	AirDensity   float64 `yaml:"air_density"`
	FluidDensity float64 `yaml:"fluid_density"`
	Gravity      float64 `yaml:"gravity"`
	Exponent     float64 `yaml:"exponent"`
	Drag         float64 `yaml:"drag"`
}

func NewBubble() *Bubble {
	return &Bubble{
		Radius:       DefaultRadius,
		AirDensity:   DefaultAirDensity,
		FluidDensity: DefaultFluidDensity,
		Gravity:      DefaultGravity,
		Exponent:     DefaultExponent,
		Drag:         DefaultDrag,
	}
}

// Derive returns dv/dt at velocity v. A negative v with a fractional
// exponent yields NaN.
func (b *Bubble) Derive(v, t float64) float64 {
	return (b.FluidDensity-b.AirDensity)*b.Gravity/b.AirDensity -
		3*b.Drag*math.Pow(v, b.Exponent)/(4*math.Pi*b.Radius*b.Radius*b.Radius*b.AirDensity)
}

// Buoyancy is the net upward acceleration at rest.
func (b *Bubble) Buoyancy() float64 {
	return (b.FluidDensity - b.AirDensity) * b.Gravity / b.AirDensity
}

// DragCoefficient multiplies vⁿ in the drag term.
func (b *Bubble) DragCoefficient() float64 {
	return 3 * b.Drag / (4 * math.Pi * b.Radius * b.Radius * b.Radius * b.AirDensity)
}

// TerminalVelocity is the velocity at which Derive vanishes.
func (b *Bubble) TerminalVelocity() float64 {
	return math.Pow(b.Buoyancy()/b.DragCoefficient(), 1/b.Exponent)
}

func (b *Bubble) Validate() error {
	params := b.GetParams()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := params[name]
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %g", ErrInvalidModel, name, v)
		}
	}
	if b.FluidDensity <= b.AirDensity {
		return fmt.Errorf("%w: fluid density %g must exceed air density %g", ErrInvalidModel, b.FluidDensity, b.AirDensity)
	}
	return nil
}

func (b *Bubble) Clone() *Bubble {
	c := *b
	return &c
}

func (b *Bubble) GetParams() map[string]float64 {
	return map[string]float64{
		"radius":        b.Radius,
		"air_density":   b.AirDensity,
		"fluid_density": b.FluidDensity,
		"gravity":       b.Gravity,
		"exponent":      b.Exponent,
		"drag":          b.Drag,
	}
}

func (b *Bubble) SetParam(name string, value float64) error {
	switch name {
	case "radius":
		b.Radius = value
	case "air_density":
		b.AirDensity = value
	case "fluid_density":
		b.FluidDensity = value
	case "gravity":
		b.Gravity = value
	case "exponent":
		b.Exponent = value
	case "drag":
		b.Drag = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
