package integrators

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
)

// referenceStep is the update written out term by term.
func referenceStep(p physics.Params, s physics.State) physics.State {
	const g = 0.5
	l1, l2, m1, m2 := p.L1, p.L2, p.M1, p.M2
	a1, a2, a1v, a2v := s.A1, s.A2, s.V1, s.V2

	num1 := -g * (2*m1 + m2) * math.Sin(a1)
	num2 := -m2 * g * math.Sin(a1-2*a2)
	num3 := -2 * math.Sin(a1-a2) * m2
	num4 := a2v*a2v*l2 + a1v*a1v*l1*math.Cos(a1-a2)
	den := l1 * (2*m1 + m2 - m2*math.Cos(2*a1-2*a2))
	a1a := (num1 + num2 + num3*num4) / den

	num1 = 2 * math.Sin(a1-a2)
	num2 = a1v * a1v * l1 * (m1 + m2)
	num3 = g * (m1 + m2) * math.Cos(a1)
	num4 = a2v * a2v * l2 * m2 * math.Cos(a1-a2)
	den = l2 * (2*m1 + m2 - m2*math.Cos(2*a1-2*a2))
	a2a := num1 * (num2 + num3 + num4) / den

	a1v += a1a
	a2v += a2a
	return physics.State{A1: a1 + a1v, A2: a2 + a2v, V1: a1v, V2: a2v}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Abs(b))
}

func TestSemiImplicitEulerMatchesReference(t *testing.T) {
	integ := NewSemiImplicitEuler()
	p := physics.DefaultParams()
	s := physics.NewState(physics.DefaultAngles())

	want := s
	for i := 0; i < 50; i++ {
		s = integ.Step(p, s)
		want = referenceStep(p, want)

		if !closeTo(s.A1, want.A1) || !closeTo(s.A2, want.A2) ||
			!closeTo(s.V1, want.V1) || !closeTo(s.V2, want.V2) {
			t.Fatalf("step %d: got %+v, want %+v", i, s, want)
		}
	}
}

func TestSemiImplicitEulerUsesUpdatedVelocity(t *testing.T) {
	integ := NewSemiImplicitEuler()
	p := physics.DefaultParams()
	s := physics.State{A1: 1, A2: 0.4}

	next := integ.Step(p, s)

	if next.A1 != s.A1+next.V1 {
		t.Errorf("angle1 should advance by the new velocity: a=%g want %g", next.A1, s.A1+next.V1)
	}
	if next.A2 != s.A2+next.V2 {
		t.Errorf("angle2 should advance by the new velocity: a=%g want %g", next.A2, s.A2+next.V2)
	}
}

func TestSemiImplicitEulerFiniteForValidParams(t *testing.T) {
	integ := NewSemiImplicitEuler()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		p := physics.Params{
			L1: physics.LengthRange.Min + rng.Float64()*(physics.LengthRange.Max-physics.LengthRange.Min),
			L2: physics.LengthRange.Min + rng.Float64()*(physics.LengthRange.Max-physics.LengthRange.Min),
			M1: physics.MassRange.Min + rng.Float64()*(physics.MassRange.Max-physics.MassRange.Min),
			M2: physics.MassRange.Min + rng.Float64()*(physics.MassRange.Max-physics.MassRange.Min),
		}
		s := physics.State{
			A1: rng.Float64() * 2 * math.Pi,
			A2: rng.Float64() * 2 * math.Pi,
			V1: rng.NormFloat64() * 0.1,
			V2: rng.NormFloat64() * 0.1,
		}

		if next := integ.Step(p, s); !next.IsValid() {
			t.Fatalf("non-finite step for params %+v state %+v: %+v", p, s, next)
		}
	}
}

func TestSemiImplicitEulerEquilibrium(t *testing.T) {
	integ := NewSemiImplicitEuler()
	p := physics.DefaultParams()
	s := physics.State{}

	for i := 0; i < 100; i++ {
		s = integ.Step(p, s)
	}
	if s != (physics.State{}) {
		t.Errorf("expected pendulum at rest to stay at rest, got %+v", s)
	}
}

func TestSemiImplicitEulerDegenerateNaN(t *testing.T) {
	integ := NewSemiImplicitEuler()
	next := integ.Step(physics.Params{L1: 100, L2: 100}, physics.State{A1: 1, A2: 1})
	if next.IsValid() {
		t.Errorf("expected NaN state for zero masses, got %+v", next)
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		integ, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if integ.Name() != name {
			t.Errorf("ByName(%q).Name() = %q", name, integ.Name())
		}
	}

	if _, err := ByName("leapfrog"); !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}
