package config

import (
	"sort"

	"github.com/san-kum/fdtdsim/internal/fdtd"
	"github.com/san-kum/fdtdsim/internal/sim"
)

func line(name string, n, steps int, boundary string, src SourceConfig, regions []fdtd.Region, probes ...sim.Probe) *Config {
	return &Config{
		Name:          name,
		Grid:          fdtd.Shape1D(n),
		Steps:         steps,
		Courant:       1,
		Boundary:      boundary,
		Sources:       []SourceConfig{src},
		Materials:     regions,
		Probes:        probes,
		SnapshotEvery: 10,
	}
}

func plane(name string, steps int, boundary string, src SourceConfig, regions []fdtd.Region) *Config {
	return &Config{
		Name:          name,
		Grid:          fdtd.Shape2D(200, 200),
		Steps:         steps,
		Courant:       0.5,
		Boundary:      boundary,
		Sources:       []SourceConfig{src},
		Materials:     regions,
		Probes:        []sim.Probe{{Name: "source", I: src.I, J: src.J}, {Name: "right", I: 160, J: 100}},
		SnapshotEvery: 5,
	}
}

var (
	hardPulse   = SourceConfig{I: 100, T0: 10, Sigma: 3, Mode: "overwrite", Window: 20}
	slabPulse   = SourceConfig{I: 80, T0: 10, Sigma: 3, Mode: "overwrite", Window: 20}
	centreBurst = SourceConfig{I: 100, J: 100, T0: 40, Sigma: 10, Mode: "additive"}
	sideBurst   = SourceConfig{I: 50, J: 100, T0: 40, Sigma: 10, Mode: "additive"}

	slab1D = []fdtd.Region{{Rect: fdtd.Rect{X0: 160, X1: 220, Y1: 1}, Index: 2}}
	glass  = []fdtd.Region{{Rect: fdtd.Rect{X0: 100, X1: 140, Y0: 0, Y1: 200}, Index: 2}}
)

var Presets = map[string]*Config{
	"1d-abc":       DefaultConfig(),
	"1d-fixed":     line("1d-fixed", 200, 500, "fixed", hardPulse, nil, sim.Probe{Name: "centre", I: 100}, sim.Probe{Name: "left", I: 1}),
	"1d-slab":      line("1d-slab", 300, 800, "absorbing", slabPulse, slab1D, sim.Probe{Name: "incident", I: 120}, sim.Probe{Name: "transmitted", I: 260}),
	"2d-vacuum":    plane("2d-vacuum", 300, "fixed", centreBurst, nil),
	"2d-absorbing": plane("2d-absorbing", 400, "absorbing", centreBurst, nil),
	"2d-glass":     plane("2d-glass", 500, "fixed", sideBurst, glass),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
