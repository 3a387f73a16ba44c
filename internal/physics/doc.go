// Package physics holds the two-link pendulum model driven by pendulab.
//
// The model works in screen units: arm lengths are pixels, masses double as
// bob radii, and [G] is expressed per simulation step, so one integrator call
// advances exactly one rendered frame.
//
//   - [Params]: arm lengths and masses, bounded by [LengthRange] and [MassRange]
//   - [State]: angles and angular velocities, advanced by package integrators
//   - [Accelerations]: the coupled equations of motion
//   - [Bobs]: bob positions relative to a pivot
//
// Angles are measured from straight down and are never wrapped. Degenerate
// parameters may yield NaN; validation happens at the editing boundary via
// [Params.Validate], never inside the equations.
package physics
