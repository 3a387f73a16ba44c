package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
)

// AngleSeries records the first angle over steps frames, starting with the
// initial state.
func AngleSeries(integ integrators.Integrator, p physics.Params, s physics.State, steps int) []float64 {
	steps = max(steps, 0)
	out := make([]float64, 0, steps+1)
	out = append(out, s.A1)
	for i := 0; i < steps; i++ {
		s = integ.Step(p, s)
		out = append(out, s.A1)
	}
	return out
}

// PowerSpectrum returns |X_k|^2/N for k < N/2 of the mean-removed series.
// Bin k corresponds to k/N cycles per frame. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	spec := fft.FFTReal(centered)
	ps := make([]float64, n/2)
	for i := range ps {
		a := cmplx.Abs(spec[i])
		ps[i] = a * a / float64(n)
	}
	return ps
}

// DominantBin returns the index of the strongest non-DC bin, or -1.
func DominantBin(ps []float64) int {
	best := -1
	for i := 1; i < len(ps); i++ {
		if best < 0 || ps[i] > ps[best] {
			best = i
		}
	}
	return best
}
