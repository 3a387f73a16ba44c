// Package sim runs many headless pendulums in parallel to map how chaotic
// each starting position is.
package sim

import (
	"context"
	"runtime"
	"sync"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
)

type Config struct {
	Steps     int
	Offset    float64 // radians added to the twin's first angle
	Threshold float64 // bob distance in px
	Workers   int     // <= 0 uses GOMAXPROCS
}

func DefaultConfig() Config {
	return Config{Steps: 600, Offset: 1e-4, Threshold: 20}
}

type Result struct {
	Angles        physics.Angles
	Lyapunov      float64
	FinalDistance float64
	Crossing      int // first frame over Threshold, -1 if never
}

type Ensemble struct {
	integ  integrators.Integrator
	params physics.Params
	cfg    Config
}

func NewEnsemble(integ integrators.Integrator, p physics.Params, cfg Config) *Ensemble {
	if integ == nil {
		integ = integrators.NewSemiImplicitEuler()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{integ: integ, params: p, cfg: cfg}
}

// Run evaluates every starting position and returns the results in input
// order. On cancellation it returns the results finished so far, in
// place, together with ctx.Err().
func (e *Ensemble) Run(ctx context.Context, starts []physics.Angles) ([]Result, error) {
	results := make([]Result, len(starts))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(e.cfg.Workers, len(starts)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = e.evaluate(starts[idx])
			}
		}()
	}

	var err error
feed:
	for i := range starts {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results, err
}

func (e *Ensemble) evaluate(a physics.Angles) Result {
	series := analysis.Divergence(e.integ, e.params, a, e.cfg.Offset, e.cfg.Steps)
	return Result{
		Angles:        a,
		Lyapunov:      analysis.LyapunovExponent(e.integ, e.params, physics.NewState(a), e.cfg.Offset, e.cfg.Steps),
		FinalDistance: series[len(series)-1],
		Crossing:      analysis.FirstCrossing(series, e.cfg.Threshold),
	}
}

// AngleGrid spaces n starting positions evenly from fromDeg to toDeg on
// both arms.
func AngleGrid(fromDeg, toDeg float64, n int) []physics.Angles {
	if n <= 0 {
		return nil
	}
	out := make([]physics.Angles, n)
	for i := range out {
		deg := fromDeg
		if n > 1 {
			deg += (toDeg - fromDeg) * float64(i) / float64(n-1)
		}
		out[i] = physics.AnglesFromDegrees(deg, deg)
	}
	return out
}
