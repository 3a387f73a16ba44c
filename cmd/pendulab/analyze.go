package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/metrics"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/sim"
)

func newPhaseCmd() *cobra.Command {
	var (
		steps    int
		poincare bool
		width    int
		height   int
	)
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "phase portrait or Poincaré section of the first pendulum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupStderrLogger(cfg)

			integ, err := integrators.ByName(cfg.Integrator)
			if err != nil {
				return err
			}
			base := cfg.ResolvedSystems()[0]
			s := physics.NewState(base.Angles())

			var pp *analysis.PhasePortrait
			if poincare {
				pp = analysis.GeneratePoincareSection(integ, base.Params(), s, steps)
			} else {
				pp = analysis.GeneratePhasePortrait(integ, base.Params(), s, steps)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: x = %s, y = %s, %d points\n\n", base.ID, pp.XLabel, pp.YLabel, len(pp.Points))
			fmt.Fprint(w, pp.ASCII(width, height))
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 2000, "frames to simulate")
	cmd.Flags().BoolVar(&poincare, "poincare", false, "sample the outer arm when the inner arm swings up through vertical")
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	cmd.Flags().IntVar(&height, "height", 24, "plot height")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var (
		from, to float64
		points   int
		scfg     = sim.DefaultConfig()
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Lyapunov exponent across starting angles, computed in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := requirePositive("steps", scfg.Steps); err != nil {
				return err
			}
			if err := requirePositive("points", points); err != nil {
				return err
			}
			logger := setupStderrLogger(cfg)

			integ, err := integrators.ByName(cfg.Integrator)
			if err != nil {
				return err
			}
			base := cfg.ResolvedSystems()[0]

			ctx, cancel := signalContext(cmd)
			defer cancel()

			start := time.Now()
			results, err := sim.NewEnsemble(integ, base.Params(), scfg).Run(ctx, sim.AngleGrid(from, to, points))
			if err != nil {
				return err
			}
			logger.Info("sweep finished", "points", len(results), "elapsed", time.Since(start))

			lyap := make([]float64, len(results))
			for i, r := range results {
				lyap[i] = r.Lyapunov
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, asciigraph.Plot(lyap,
				asciigraph.Height(12),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("lyapunov per frame, %.0f..%.0f degrees", from, to)),
			))
			fmt.Fprintln(w)

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ANGLE\tLYAPUNOV\tFINAL_PX\tCROSSING")
			for _, r := range results {
				deg, _ := r.Angles.Degrees()
				fmt.Fprintf(tw, "%.1f\t%.5f\t%.2f\t%d\n", deg, r.Lyapunov, r.FinalDistance, r.Crossing)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&from, "from", 5, "first starting angle (degrees)")
	cmd.Flags().Float64Var(&to, "to", 175, "last starting angle (degrees)")
	cmd.Flags().IntVar(&points, "points", 35, "number of starting angles")
	cmd.Flags().IntVar(&scfg.Steps, "steps", scfg.Steps, "frames per run")
	cmd.Flags().Float64Var(&scfg.Offset, "offset", scfg.Offset, "twin offset (radians)")
	cmd.Flags().Float64Var(&scfg.Threshold, "threshold", scfg.Threshold, "crossing distance (px)")
	cmd.Flags().IntVar(&scfg.Workers, "workers", 0, "parallel workers (0 = all CPUs)")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the first pendulum",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupStderrLogger(cfg)

			names := args
			if len(names) == 0 {
				names = integrators.Names()
			}
			base := cfg.ResolvedSystems()[0]
			p := base.Params()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "INTEGRATOR\tFINAL_A1\tENERGY_DRIFT\tSTABILITY\tTIME")
			for _, name := range names {
				integ, err := integrators.ByName(name)
				if err != nil {
					fmt.Fprintf(tw, "%s\terror: %v\n", name, err)
					continue
				}

				drift := metrics.NewEnergyDrift()
				stab := metrics.NewStability(metrics.DefaultVelocityLimit)
				s := physics.NewState(base.Angles())

				start := time.Now()
				for i := 0; i < steps; i++ {
					drift.Observe(p, s)
					stab.Observe(p, s)
					s = integ.Step(p, s)
				}
				elapsed := time.Since(start)

				fmt.Fprintf(tw, "%s\t%.6f\t%.2e\t%.3f\t%v\n", name, s.A1, drift.Value(), stab.Value(), elapsed)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 3600, "frames to simulate")
	return cmd
}
