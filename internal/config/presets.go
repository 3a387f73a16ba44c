package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendulab/internal/dynamo"
)

type Preset struct {
	Description string
	Build       func() *Config
}

var Presets = map[string]Preset{
	"butterfly": {
		Description: "two identical pendulums 0.01 degrees apart",
		Build:       DefaultConfig,
	},
	"single": {
		Description: "one pendulum with the default parameters",
		Build: func() *Config {
			cfg := DefaultConfig()
			cfg.Systems = []SystemConfig{DefaultSystem("solo")}
			return cfg
		},
	},
	"trio": {
		Description: "three pendulums with different arms and masses",
		Build: func() *Config {
			cfg := DefaultConfig()
			short := DefaultSystem("short")
			short.L1, short.L2, short.M1, short.M2 = 80, 120, 20, 8
			mid := DefaultSystem("mid")
			long := DefaultSystem("long")
			long.L1, long.L2, long.M1, long.M2 = 190, 90, 8, 25
			cfg.Systems = []SystemConfig{short, mid, long}
			return cfg
		},
	},
	"symmetric": {
		Description: "mirror images swinging from opposite sides",
		Build: func() *Config {
			cfg := DefaultConfig()
			left := DefaultSystem("left")
			left.A1, left.A2 = 90, 90
			right := DefaultSystem("right")
			right.A1, right.A2 = 270, 270
			right.TraceColor = "#e76f51"
			cfg.Systems = []SystemConfig{left, right}
			return cfg
		},
	},
	"swarm": {
		Description: "a dozen pendulums fanned out by 0.001 degrees",
		Build: func() *Config {
			cfg := DefaultConfig()
			cfg.Butterfly.Count = 12
			cfg.Butterfly.Delta = 0.001
			return cfg
		},
	},
}

func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownPreset, name, ListPresets())
	}
	return p.Build(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
