// Package analysis quantifies how quickly nearby double pendulums part
// ways.
//
//   - [Divergence]: outer bob distance between two twins, frame by frame
//   - [LyapunovExponent]: largest exponent per frame via repeated
//     renormalization
//   - [PowerSpectrum]: spectrum of an angle series
//   - [GeneratePhasePortrait], [GeneratePoincareSection]: 2D projections
//     with a character plot
//
// All runs use the same fixed one-frame step as the live view, so the
// numbers describe exactly what is drawn on screen.
package analysis
