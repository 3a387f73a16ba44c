package integrators

import "github.com/san-kum/pendulab/internal/physics"

// RK4 integrates the same equations with the classical fourth order
// Runge-Kutta scheme at a fixed step of one frame.
type RK4 struct{}

func NewRK4() RK4 {
	return RK4{}
}

func (RK4) Name() string { return "rk4" }

func (RK4) Step(p physics.Params, s physics.State) physics.State {
	const dt = 1.0

	k1 := physics.Derive(p, s)
	k2 := physics.Derive(p, axpy(s, k1, dt*0.5))
	k3 := physics.Derive(p, axpy(s, k2, dt*0.5))
	k4 := physics.Derive(p, axpy(s, k3, dt))

	dt6 := dt / 6.0
	return physics.State{
		A1: s.A1 + dt6*(k1.A1+2*k2.A1+2*k3.A1+k4.A1),
		A2: s.A2 + dt6*(k1.A2+2*k2.A2+2*k3.A2+k4.A2),
		V1: s.V1 + dt6*(k1.V1+2*k2.V1+2*k3.V1+k4.V1),
		V2: s.V2 + dt6*(k1.V2+2*k2.V2+2*k3.V2+k4.V2),
	}
}

// axpy returns s + h*d.
func axpy(s, d physics.State, h float64) physics.State {
	return physics.State{
		A1: s.A1 + h*d.A1,
		A2: s.A2 + h*d.A2,
		V1: s.V1 + h*d.V1,
		V2: s.V2 + h*d.V2,
	}
}
