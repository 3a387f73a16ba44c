package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/logging"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/registry"
)

const (
	DefaultFPS        = 60
	DefaultZoom       = 1.0
	DefaultIntegrator = "euler"
	DefaultLogLevel   = "info"
	DefaultAngleDeg   = 120.0
	DefaultCount      = 2
	DefaultDeltaDeg   = 0.01
)

var (
	FPSRange  = dynamo.Range{Min: 1, Max: 240}
	ZoomRange = dynamo.Range{Min: 0.1, Max: 10}
)

// Palette colors new systems in order.
var Palette = []string{
	"#29a6ec", "#e76f51", "#2a9d8f", "#f4a261", "#9b5de5",
	"#00f5d4", "#f15bb5", "#fee440", "#8ac926", "#ff595e",
}

type Config struct {
	FPS           int             `yaml:"fps"`
	Zoom          float64         `yaml:"zoom"`
	DPR           float64         `yaml:"dpr"`
	Integrator    string          `yaml:"integrator"`
	RestartOnEdit bool            `yaml:"restart_on_edit"`
	LogLevel      string          `yaml:"log_level"`
	Systems       []SystemConfig  `yaml:"systems,omitempty"`
	Butterfly     ButterflyConfig `yaml:"butterfly"`
}

// SystemConfig describes one pendulum. Angles are in degrees.
type SystemConfig struct {
	ID            string  `yaml:"id"`
	L1            float64 `yaml:"l1"`
	L2            float64 `yaml:"l2"`
	M1            float64 `yaml:"m1"`
	M2            float64 `yaml:"m2"`
	A1            float64 `yaml:"a1"`
	A2            float64 `yaml:"a2"`
	TraceColor    string  `yaml:"trace_color,omitempty"`
	PendulumColor string  `yaml:"pendulum_color,omitempty"`
}

// ButterflyConfig generates Count default pendulums whose first angle is
// offset by i*Delta degrees. It is used when Systems is empty.
type ButterflyConfig struct {
	Count int     `yaml:"count"`
	Delta float64 `yaml:"delta"`
	A1    float64 `yaml:"a1"`
	A2    float64 `yaml:"a2"`
}

func DefaultSystem(id string) SystemConfig {
	return SystemConfig{
		ID: id,
		L1: physics.DefaultLength, L2: physics.DefaultLength,
		M1: physics.DefaultMass, M2: physics.DefaultMass,
		A1: DefaultAngleDeg, A2: DefaultAngleDeg,
	}
}

func DefaultConfig() *Config {
	return &Config{
		FPS:           DefaultFPS,
		Zoom:          DefaultZoom,
		Integrator:    DefaultIntegrator,
		RestartOnEdit: true,
		LogLevel:      DefaultLogLevel,
		Butterfly: ButterflyConfig{
			Count: DefaultCount,
			Delta: DefaultDeltaDeg,
			A1:    DefaultAngleDeg,
			A2:    DefaultAngleDeg,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field against its bounds and reports all
// violations at once.
func (c *Config) Validate() error {
	var errs []error

	if err := FPSRange.Check("fps", float64(c.FPS)); err != nil {
		errs = append(errs, err)
	}
	if err := ZoomRange.Check("zoom", c.Zoom); err != nil {
		errs = append(errs, err)
	}
	if c.DPR < 0 {
		errs = append(errs, &dynamo.BoundsError{Param: "dpr", Value: c.DPR, Range: dynamo.Range{Min: 0, Max: 8}})
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		errs = append(errs, err)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if len(c.Systems) == 0 && c.Butterfly.Count < 1 {
		errs = append(errs, fmt.Errorf("butterfly count must be at least 1, got %d", c.Butterfly.Count))
		return errors.Join(errs...)
	}

	// Generated butterfly systems go through the same bounds as listed ones.
	systems := c.ResolvedSystems()
	seen := make(map[string]struct{}, len(systems))
	for i, s := range systems {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("systems[%d]: missing id", i))
		} else if _, dup := seen[s.ID]; dup {
			errs = append(errs, fmt.Errorf("systems[%d]: %w: %q", i, dynamo.ErrDuplicateInstance, s.ID))
		}
		seen[s.ID] = struct{}{}

		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("systems[%d] %q: %w", i, s.ID, err))
		}
	}

	return errors.Join(errs...)
}

func (s SystemConfig) Params() physics.Params {
	return physics.Params{L1: s.L1, L2: s.L2, M1: s.M1, M2: s.M2}
}

func (s SystemConfig) Angles() physics.Angles {
	return physics.AnglesFromDegrees(s.A1, s.A2)
}

func (s SystemConfig) Validate() error {
	var errs []error
	if err := s.Params().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := physics.AngleRange.Check("a1", s.A1); err != nil {
		errs = append(errs, err)
	}
	if err := physics.AngleRange.Check("a2", s.A2); err != nil {
		errs = append(errs, err)
	}
	for _, hex := range []string{s.TraceColor, s.PendulumColor} {
		if hex == "" {
			continue
		}
		if _, err := colorful.Hex(hex); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q", dynamo.ErrInvalidColor, hex))
		}
	}
	return errors.Join(errs...)
}

// Appearance fills missing colors: the trace from the palette by index
// and the body from the default appearance.
func (s SystemConfig) Appearance(index int) physics.Appearance {
	a := physics.Appearance{TraceColor: s.TraceColor, PendulumColor: s.PendulumColor}
	if a.TraceColor == "" {
		a.TraceColor = Palette[index%len(Palette)]
	}
	if a.PendulumColor == "" {
		a.PendulumColor = physics.DefaultAppearance().PendulumColor
	}
	return a
}

// ResolvedSystems returns the explicit systems, or the generated butterfly
// fan when none are listed.
func (c *Config) ResolvedSystems() []SystemConfig {
	if len(c.Systems) > 0 {
		return c.Systems
	}
	out := make([]SystemConfig, c.Butterfly.Count)
	for i := range out {
		s := DefaultSystem(fmt.Sprintf("p%d", i+1))
		s.A1 = c.Butterfly.A1 + float64(i)*c.Butterfly.Delta
		s.A2 = c.Butterfly.A2
		out[i] = s
	}
	return out
}

// Specs converts the configuration into a registry desired list.
func (c *Config) Specs() []registry.Spec {
	systems := c.ResolvedSystems()
	specs := make([]registry.Spec, len(systems))
	for i, s := range systems {
		specs[i] = registry.Spec{
			ID:         s.ID,
			Params:     s.Params(),
			Appearance: s.Appearance(i),
			Initial:    s.Angles(),
		}
	}
	return specs
}
