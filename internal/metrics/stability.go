package metrics

import (
	"math"

	"github.com/san-kum/pendulab/internal/physics"
)

// DefaultVelocityLimit in rad/frame. A swing this fast moves the outer bob
// further than its own arm length in one frame.
const DefaultVelocityLimit = 1.0

// Stability is the fraction of frames whose state is finite and whose
// angular velocities stay below the limit.
type Stability struct {
	limit      float64
	violations int
	samples    int
}

func NewStability(limit float64) *Stability {
	return &Stability{limit: limit}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(_ physics.Params, st physics.State) {
	s.samples++
	if !st.IsValid() || math.Abs(st.V1) > s.limit || math.Abs(st.V2) > s.limit {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
