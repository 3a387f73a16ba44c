package analysis

import (
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
)

// Divergence runs two pendulums with the same parameters whose first angle
// differs by delta radians and returns the distance between their outer
// bobs before the first step and after each of the following steps. The
// result has steps+1 entries; a negative steps counts as zero.
func Divergence(integ integrators.Integrator, p physics.Params, a physics.Angles, delta float64, steps int) []float64 {
	steps = max(steps, 0)
	twin := a
	twin.A1 += delta

	s1 := physics.NewState(a)
	s2 := physics.NewState(twin)

	out := make([]float64, 0, steps+1)
	out = append(out, bobDistance(p, s1, s2))
	for i := 0; i < steps; i++ {
		s1 = integ.Step(p, s1)
		s2 = integ.Step(p, s2)
		out = append(out, bobDistance(p, s1, s2))
	}
	return out
}

func bobDistance(p physics.Params, s1, s2 physics.State) float64 {
	_, b1 := physics.Bobs(p, s1, dynamo.Vec2{})
	_, b2 := physics.Bobs(p, s2, dynamo.Vec2{})
	return b1.Dist(b2)
}

// FirstCrossing returns the first index at which series reaches threshold,
// or -1.
func FirstCrossing(series []float64, threshold float64) int {
	for i, v := range series {
		if v >= threshold {
			return i
		}
	}
	return -1
}
