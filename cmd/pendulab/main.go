package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/driver"
	"github.com/san-kum/pendulab/internal/gui"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/logging"
	"github.com/san-kum/pendulab/internal/registry"
	"github.com/san-kum/pendulab/internal/surface"
	"github.com/san-kum/pendulab/internal/viz"
)

var (
	configFile string
	preset     string
	logLevel   string
	logFile    string
	frameRate  int
	systems    int
	delta      float64
	integrator string
	zoom       float64
	dpr        float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "pendulab",
		Short:        "double pendulum chaos lab",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	pf.StringVar(&logFile, "log-file", "pendulab.log", "log file for the terminal UI")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frames per second")
	pf.IntVar(&systems, "systems", config.DefaultCount, "number of butterfly pendulums")
	pf.Float64Var(&delta, "delta", config.DefaultDeltaDeg, "first-angle offset between butterfly pendulums (degrees)")
	pf.StringVar(&integrator, "integrator", config.DefaultIntegrator, "euler or rk4")
	pf.Float64Var(&zoom, "zoom", config.DefaultZoom, "initial zoom")
	pf.Float64Var(&dpr, "dpr", 0, "device pixel ratio (0 = detect)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	})

	rootCmd.AddCommand(liveCmd, guiCmd, newRenderCmd(), newSVGCmd(), newDivergeCmd(), newSpectrumCmd(),
		newPhaseCmd(), newSweepCmd(), newCompareCmd(), presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig starts from the preset or config file and applies the flags
// the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	var err error
	switch {
	case preset != "" && configFile != "":
		return nil, fmt.Errorf("--preset and --config are mutually exclusive")
	case preset != "":
		cfg, err = config.GetPreset(preset)
	case configFile != "":
		cfg, err = config.Load(configFile)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("zoom") {
		cfg.Zoom = zoom
	}
	if flags.Changed("dpr") {
		cfg.DPR = dpr
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("systems") {
		cfg.Systems = nil
		cfg.Butterfly.Count = systems
	}
	if flags.Changed("delta") {
		cfg.Butterfly.Delta = delta
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config:\n%w", err)
	}
	return cfg, nil
}

func requirePositive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("--%s must be positive, got %d", name, v)
	}
	return nil
}

// setupStderrLogger logs to stderr, colored when it is a terminal.
func setupStderrLogger(cfg *config.Config) *slog.Logger {
	color := isatty.IsTerminal(os.Stderr.Fd())
	logger, err := logging.Setup(os.Stderr, cfg.LogLevel, color)
	if err != nil {
		logger.Warn("falling back to info level", "err", err)
	}
	return logger
}

// newDriver seeds a registry from cfg and wires it to a surface painting
// on p.
func newDriver(cfg *config.Config, p surface.Painter, logger *slog.Logger) (*driver.Driver, error) {
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	reg := registry.New()
	reg.Reconcile(cfg.Specs())

	drv := driver.New(reg, surface.NewManager(p, logger), integ, logger)
	drv.SetZoom(cfg.Zoom)
	logger.Info("simulation ready", "instances", reg.Len(), "integrator", integ.Name(), "fps", cfg.FPS)
	return drv, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.SetupFile(logFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	canvas := surface.NewBraille(80, 24, nil)
	drv, err := newDriver(cfg, canvas, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(cfg, drv, canvas, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	drv.Stop()
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupStderrLogger(cfg)

	raster := surface.NewRaster(1280, 720, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	drv, err := newDriver(cfg, raster, logger)
	if err != nil {
		return err
	}
	gui.Run(cfg, drv, raster, logger)
	drv.Stop()
	return nil
}

// signalContext is cancelled on interrupt so headless runs stop cleanly.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}
