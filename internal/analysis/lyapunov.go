package analysis

import (
	"math"

	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
)

// LyapunovExponent estimates the largest Lyapunov exponent, in 1/frame,
// by the two-trajectory method: a twin offset by d0 in the first angle is
// stepped alongside s0, the log growth of their separation is accumulated
// and the twin is pulled back to distance d0 after every step. A positive
// value indicates chaos.
func LyapunovExponent(integ integrators.Integrator, p physics.Params, s0 physics.State, d0 float64, steps int) float64 {
	if steps <= 0 || d0 <= 0 {
		return 0
	}

	x := s0
	xp := s0
	xp.A1 += d0

	sumLog := 0.0
	count := 0
	for i := 0; i < steps; i++ {
		x = integ.Step(p, x)
		xp = integ.Step(p, xp)

		sep := separation(x, xp)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		scale := d0 / sep
		xp = physics.State{
			A1: x.A1 + (xp.A1-x.A1)*scale,
			A2: x.A2 + (xp.A2-x.A2)*scale,
			V1: x.V1 + (xp.V1-x.V1)*scale,
			V2: x.V2 + (xp.V2-x.V2)*scale,
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / float64(count)
}

func separation(a, b physics.State) float64 {
	d1 := b.A1 - a.A1
	d2 := b.A2 - a.A2
	d3 := b.V1 - a.V1
	d4 := b.V2 - a.V2
	return math.Sqrt(d1*d1 + d2*d2 + d3*d3 + d4*d4)
}
