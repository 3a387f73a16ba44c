package metrics

import (
	"math"

	"github.com/san-kum/pendulab/internal/physics"
)

// Energy is the mean total mechanical energy over the observed frames.
type Energy struct {
	total   float64
	samples int
}

func NewEnergy() *Energy { return &Energy{} }

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(p physics.Params, s physics.State) {
	e.total += physics.Energy(p, s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation from the energy of the
// first observed frame. The pendulum is conservative, so any drift is
// integration error.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(p physics.Params, s physics.State) {
	energy := physics.Energy(p, s)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
