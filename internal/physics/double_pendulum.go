package physics

import (
	"errors"
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// G is the gravitational constant in pixels per step squared.
const G = 0.5

const (
	DefaultLength = 150.0
	DefaultMass   = 10.0
	DefaultAngle  = math.Pi / 1.5
)

// Editing bounds. The integrator itself never checks them.
var (
	LengthRange = dynamo.Range{Min: 50, Max: 200}
	MassRange   = dynamo.Range{Min: 5, Max: 30}
	AngleRange  = dynamo.Range{Min: 0, Max: 360} // degrees
)

// Params is the physical description of one double pendulum. Masses double
// as bob radii when drawing.
type Params struct {
	L1, L2 float64
	M1, M2 float64
}

func DefaultParams() Params {
	return Params{L1: DefaultLength, L2: DefaultLength, M1: DefaultMass, M2: DefaultMass}
}

// Validate checks the parameters against the editing bounds.
func (p Params) Validate() error {
	return errors.Join(
		LengthRange.Check("l1", p.L1),
		LengthRange.Check("l2", p.L2),
		MassRange.Check("m1", p.M1),
		MassRange.Check("m2", p.M2),
	)
}

// Clamp pulls every field back inside the editing bounds.
func (p Params) Clamp() Params {
	return Params{
		L1: LengthRange.Clamp(p.L1),
		L2: LengthRange.Clamp(p.L2),
		M1: MassRange.Clamp(p.M1),
		M2: MassRange.Clamp(p.M2),
	}
}

// Angles are the initial arm angles in radians, measured from straight down.
type Angles struct {
	A1, A2 float64
}

func DefaultAngles() Angles {
	return Angles{A1: DefaultAngle, A2: DefaultAngle}
}

// AnglesFromDegrees converts degree inputs, as supplied by configuration.
func AnglesFromDegrees(d1, d2 float64) Angles {
	return Angles{A1: d1 * math.Pi / 180, A2: d2 * math.Pi / 180}
}

// Degrees returns both angles in degrees.
func (a Angles) Degrees() (float64, float64) {
	return a.A1 * 180 / math.Pi, a.A2 * 180 / math.Pi
}

// Validate checks both angles against [0, 360] degrees.
func (a Angles) Validate() error {
	d1, d2 := a.Degrees()
	return errors.Join(
		AngleRange.Check("a1", d1),
		AngleRange.Check("a2", d2),
	)
}

// State is the mutable dynamical state. Angles are not wrapped; velocities
// are in radians per simulation step.
type State struct {
	A1, A2 float64
	V1, V2 float64
}

// NewState seeds a state at rest from the given angles.
func NewState(a Angles) State {
	return State{A1: a.A1, A2: a.A2}
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range [4]float64{s.A1, s.A2, s.V1, s.V2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Accelerations evaluates the coupled equations of motion. A zero
// denominator (degenerate masses or lengths) yields NaN or Inf, which is
// propagated unchanged.
func Accelerations(p Params, s State) (acc1, acc2 float64) {
	l1, l2, m1, m2 := p.L1, p.L2, p.M1, p.M2
	a1, a2, v1, v2 := s.A1, s.A2, s.V1, s.V2

	sinD, cosD := math.Sincos(a1 - a2)
	shared := 2*m1 + m2 - m2*math.Cos(2*a1-2*a2)

	num1 := -G * (2*m1 + m2) * math.Sin(a1)
	num2 := -m2 * G * math.Sin(a1-2*a2)
	num3 := -2 * sinD * m2
	num4 := v2*v2*l2 + v1*v1*l1*cosD
	acc1 = (num1 + num2 + num3*num4) / (l1 * shared)

	num1 = 2 * sinD
	num2 = v1 * v1 * l1 * (m1 + m2)
	num3 = G * (m1 + m2) * math.Cos(a1)
	num4 = v2 * v2 * l2 * m2 * cosD
	acc2 = num1 * (num2 + num3 + num4) / (l2 * shared)

	return acc1, acc2
}

// Derive returns the time derivative of s as a State:
// (dA1, dA2, dV1, dV2) = (V1, V2, acc1, acc2).
func Derive(p Params, s State) State {
	acc1, acc2 := Accelerations(p, s)
	return State{A1: s.V1, A2: s.V2, V1: acc1, V2: acc2}
}

// Bobs returns both bob positions for a pendulum hanging from pivot, with
// y growing downward as on a raster surface.
func Bobs(p Params, s State, pivot dynamo.Vec2) (bob1, bob2 dynamo.Vec2) {
	sin1, cos1 := math.Sincos(s.A1)
	sin2, cos2 := math.Sincos(s.A2)
	bob1 = dynamo.Vec2{X: pivot.X + p.L1*sin1, Y: pivot.Y + p.L1*cos1}
	bob2 = dynamo.Vec2{X: bob1.X + p.L2*sin2, Y: bob1.Y + p.L2*cos2}
	return bob1, bob2
}

// Energy returns kinetic plus potential energy in simulation units, with the
// pivot as the potential reference. The integrator does not conserve it; the
// value is reported for display only.
func Energy(p Params, s State) float64 {
	l1, l2, m1, m2 := p.L1, p.L2, p.M1, p.M2

	v1sq := l1 * l1 * s.V1 * s.V1
	v2sq := v1sq + l2*l2*s.V2*s.V2 + 2*l1*l2*s.V1*s.V2*math.Cos(s.A1-s.A2)
	ke := 0.5*m1*v1sq + 0.5*m2*v2sq

	y1 := -l1 * math.Cos(s.A1)
	y2 := y1 - l2*math.Cos(s.A2)
	pe := m1*G*y1 + m2*G*y2

	return ke + pe
}

// Appearance is purely cosmetic and has no effect on the dynamics.
type Appearance struct {
	TraceColor    string
	PendulumColor string
}

func DefaultAppearance() Appearance {
	return Appearance{TraceColor: "#29a6ec", PendulumColor: "#e9c46a"}
}
