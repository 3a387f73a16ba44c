// Package metrics accumulates per-pendulum statistics while a simulation
// runs.
package metrics

import "github.com/san-kum/pendulab/internal/physics"

// Metric observes one pendulum once per frame.
type Metric interface {
	Name() string
	Observe(p physics.Params, s physics.State)
	Value() float64
	Reset()
}

// Factory builds a fresh metric set for a newly seen pendulum.
type Factory func() []Metric

// DefaultSet is energy, energy drift and stability.
func DefaultSet() []Metric {
	return []Metric{NewEnergy(), NewEnergyDrift(), NewStability(DefaultVelocityLimit)}
}
