package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/driver"
	"github.com/san-kum/pendulab/internal/export"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/metrics"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/surface"
)

var headlessBackground = color.RGBA{R: 10, G: 10, B: 10, A: 255}

func newRenderCmd() *cobra.Command {
	var (
		frames        int
		width, height int
		every         int
		out           string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "simulate without a display and write a GIF or PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := setupStderrLogger(cfg)

			ext := strings.ToLower(filepath.Ext(out))
			if ext != ".gif" && ext != ".png" {
				return fmt.Errorf("render: unsupported output %q (want .gif or .png)", out)
			}

			raster := surface.NewRaster(width, height, headlessBackground)
			drv, err := newDriver(cfg, raster, logger)
			if err != nil {
				return err
			}
			drv.Surface().Resize(float64(width), float64(height), max(cfg.DPR, 1))

			loop := driver.NewLoop(drv)
			stats := metrics.NewCollector(nil)
			loop.AddObserver(stats)
			var rec *export.GIFRecorder
			if ext == ".gif" {
				rec = export.NewGIFRecorder(raster, every, cfg.FPS)
				loop.AddObserver(rec)
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()
			n, err := loop.Run(ctx, 0, frames)
			if err != nil {
				logger.Warn("render interrupted", "frames", n, "err", err)
			}

			if rec != nil {
				err = rec.WriteFile(out)
			} else {
				err = export.WritePNG(out, raster.Snapshot())
			}
			if err != nil {
				return err
			}
			pw, ph := drv.Surface().PhysicalSize()
			logger.Info("render written", "path", out, "frames", n, "width", pw, "height", ph)
			return stats.WriteTable(cmd.OutOrStdout(), drv.Registry().IDs())
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate")
	cmd.Flags().IntVar(&width, "width", 800, "logical width")
	cmd.Flags().IntVar(&height, "height", 600, "logical height")
	cmd.Flags().IntVar(&every, "every", 2, "keep one GIF frame out of every N")
	cmd.Flags().StringVarP(&out, "out", "o", "pendulab.gif", "output file (.gif or .png)")
	return cmd
}

func newSVGCmd() *cobra.Command {
	var (
		steps         int
		width, height int
		out           string
	)
	cmd := &cobra.Command{
		Use:   "svg",
		Short: "simulate without a display and write the traces as SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := setupStderrLogger(cfg)

			// Traces are only recorded while rendering, so a small raster
			// stands in for the display.
			drv, err := newDriver(cfg, surface.NewRaster(width, height, headlessBackground), logger)
			if err != nil {
				return err
			}
			drv.Surface().Resize(float64(width), float64(height), 1)

			ctx, cancel := signalContext(cmd)
			defer cancel()
			if _, err := driver.NewLoop(drv).Run(ctx, 0, steps); err != nil {
				return err
			}

			z := drv.Zoom()
			svg := export.SceneToSVG(drv.Registry(), drv.Surface().Pivot(z),
				float64(width)/z, float64(height)/z, "#0a0a0a")
			if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
				return err
			}
			logger.Info("svg written", "path", out, "steps", steps)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 500, "frames to simulate")
	cmd.Flags().IntVar(&width, "width", 800, "view width")
	cmd.Flags().IntVar(&height, "height", 600, "view height")
	cmd.Flags().StringVarP(&out, "out", "o", "pendulab.svg", "output file")
	return cmd
}

func newDivergeCmd() *cobra.Command {
	var (
		steps     int
		offset    float64
		threshold float64
		out       string
	)
	cmd := &cobra.Command{
		Use:   "diverge",
		Short: "measure how fast two nearly identical pendulums separate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := requirePositive("steps", steps); err != nil {
				return err
			}
			setupStderrLogger(cfg)

			integ, err := integrators.ByName(cfg.Integrator)
			if err != nil {
				return err
			}
			base := cfg.ResolvedSystems()[0]
			p, a := base.Params(), base.Angles()

			series := analysis.Divergence(integ, p, a, offset, steps)
			lyap := analysis.LyapunovExponent(integ, p, physics.NewState(a), offset, steps)
			crossing := analysis.FirstCrossing(series, threshold)

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, asciigraph.Plot(downsample(series, 120),
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("bob distance (px), offset %.1e rad, %s", offset, integ.Name())),
			))
			fmt.Fprintln(w)
			fmt.Fprintf(w, "initial distance: %.6f px\n", series[0])
			fmt.Fprintf(w, "final distance:   %.2f px\n", series[len(series)-1])
			fmt.Fprintf(w, "lyapunov:         %.5f per frame\n", lyap)
			if crossing >= 0 {
				fmt.Fprintf(w, "crossed %.0f px at frame %d\n", threshold, crossing)
			} else {
				fmt.Fprintf(w, "never crossed %.0f px\n", threshold)
			}

			if out == "" {
				return nil
			}
			a1, a2 := a.Degrees()
			return export.WriteReportFile(out, &export.DivergenceReport{
				Integrator: integ.Name(),
				Params:     p,
				A1Deg:      a1,
				A2Deg:      a2,
				Delta:      offset,
				Steps:      steps,
				Threshold:  threshold,
				Crossing:   crossing,
				Lyapunov:   lyap,
				Distances:  series,
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 600, "frames to simulate")
	cmd.Flags().Float64Var(&offset, "offset", 1e-4, "first-angle offset (radians)")
	cmd.Flags().Float64Var(&threshold, "threshold", 20, "distance to report the crossing of (px)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the report as .json or .csv")
	return cmd
}

func newSpectrumCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "spectrum",
		Short: "power spectrum of the first angle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := requirePositive("steps", steps); err != nil {
				return err
			}
			setupStderrLogger(cfg)

			integ, err := integrators.ByName(cfg.Integrator)
			if err != nil {
				return err
			}
			base := cfg.ResolvedSystems()[0]
			series := analysis.AngleSeries(integ, base.Params(), physics.NewState(base.Angles()), steps)

			n := 1
			for n < len(series) {
				n *= 2
			}
			padded := make([]float64, n)
			copy(padded, series)
			ps := analysis.PowerSpectrum(padded)
			plotData := ps[:max(len(ps)/4, 2)]

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, asciigraph.Plot(plotData,
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("power spectrum (angle 1), %s", base.ID)),
			))
			fmt.Fprintln(w)

			bin := analysis.DominantBin(plotData)
			if bin <= 0 {
				fmt.Fprintln(w, "no dominant frequency")
				return nil
			}
			freq := float64(bin) / float64(n)
			fmt.Fprintf(w, "dominant frequency: %.5f cycles/frame\n", freq)
			fmt.Fprintf(w, "period: %.1f frames (%.2f s at %d fps)\n", 1/freq, 1/freq/float64(cfg.FPS), cfg.FPS)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 4096, "frames to simulate")
	return cmd
}

// downsample keeps at most n evenly spaced points so the plot stays
// readable for long runs.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n {
		return data
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = data[i*(len(data)-1)/(n-1)]
	}
	return out
}
