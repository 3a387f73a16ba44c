package integrators

import "github.com/san-kum/pendulab/internal/physics"

// SemiImplicitEuler updates velocities first and then advances the angles
// with the new velocities, using a step size of one frame. It is the
// default integrator; its energy drift is part of the intended look.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() SemiImplicitEuler {
	return SemiImplicitEuler{}
}

func (SemiImplicitEuler) Name() string { return "euler" }

func (SemiImplicitEuler) Step(p physics.Params, s physics.State) physics.State {
	acc1, acc2 := physics.Accelerations(p, s)

	s.V1 += acc1
	s.V2 += acc2
	s.A1 += s.V1
	s.A2 += s.V2
	return s
}
