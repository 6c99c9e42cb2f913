package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fdtdsim/internal/fdtd"
	"github.com/san-kum/fdtdsim/internal/sim"
)

const (
	DefaultSize     = 200
	DefaultSteps    = 500
	DefaultCourant  = 1.0
	DefaultT0       = 10.0
	DefaultSigma    = 3.0
	DefaultWindow   = 20
	DefaultBoundary = "absorbing"
)

var (
	// ErrUnstable indicates a Courant number above the limit for the grid's dimensionality.
	ErrUnstable = errors.New("config: courant number above stability limit")

	// ErrInvalidSteps indicates a non-positive step count.
	ErrInvalidSteps = errors.New("config: steps must be positive")
)

type Config struct {
	Name          string         `yaml:"name"`
	Grid          fdtd.Shape     `yaml:"grid"`
	Steps         int            `yaml:"steps"`
	Courant       float64        `yaml:"courant"`
	Boundary      string         `yaml:"boundary"`
	Sources       []SourceConfig `yaml:"sources"`
	Materials     []fdtd.Region  `yaml:"materials,omitempty"`
	Probes        []sim.Probe    `yaml:"probes,omitempty"`
	SnapshotEvery int            `yaml:"snapshot_every"`
	AllowUnstable bool           `yaml:"allow_unstable,omitempty"`
	Workers       int            `yaml:"workers,omitempty"`
}

type SourceConfig struct {
	I      int     `yaml:"i"`
	J      int     `yaml:"j"`
	T0     float64 `yaml:"t0"`
	Sigma  float64 `yaml:"sigma"`
	Mode   string  `yaml:"mode"`
	Window int     `yaml:"window"`
}

// DefaultConfig is the 1D absorbing-boundary run: a hard Gaussian at the
// centre of a 200-cell vacuum line at the magic time step.
func DefaultConfig() *Config {
	return &Config{
		Name:     "1d-abc",
		Grid:     fdtd.Shape1D(DefaultSize),
		Steps:    DefaultSteps,
		Courant:  DefaultCourant,
		Boundary: DefaultBoundary,
		Sources: []SourceConfig{
			{I: DefaultSize / 2, T0: DefaultT0, Sigma: DefaultSigma, Mode: "overwrite", Window: DefaultWindow},
		},
		Probes: []sim.Probe{
			{Name: "centre", I: DefaultSize / 2},
			{Name: "left", I: 0},
		},
		SnapshotEvery: 10,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads the YAML file at path on top of a copy of base. Keys absent
// from the file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
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

// CourantLimit returns the largest stable S for a grid with dims axes.
func CourantLimit(dims int) float64 {
	if dims <= 1 {
		return 1
	}
	return 1 / math.Sqrt(float64(dims))
}

// Validate checks what the engine leaves to its caller: the step budget and
// the Courant limit. Everything else is checked when the stepper is built.
func (c *Config) Validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidSteps, c.Steps)
	}
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if _, err := fdtd.ParseBoundary(c.Boundary); err != nil {
		return err
	}
	limit := CourantLimit(c.Grid.Dims())
	// small slack so that 1/sqrt(2) written as 0.7071 still passes
	if c.Courant > limit+1e-4 && !c.AllowUnstable {
		return fmt.Errorf("%w: S=%g, limit %.4f for %dD", ErrUnstable, c.Courant, limit, c.Grid.Dims())
	}
	return nil
}

func (c *Config) BoundaryKind() (fdtd.BoundaryKind, error) {
	return fdtd.ParseBoundary(c.Boundary)
}

func (c *Config) EngineSources() ([]fdtd.Source, error) {
	out := make([]fdtd.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		mode, err := fdtd.ParseMode(s.Mode)
		if err != nil {
			return nil, err
		}
		out = append(out, fdtd.Source{
			I:      s.I,
			J:      s.J,
			Pulse:  fdtd.Pulse{T0: s.T0, Sigma: s.Sigma},
			Mode:   mode,
			Window: s.Window,
		})
	}
	return out, nil
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Steps:          c.Steps,
		SnapshotEvery:  c.SnapshotEvery,
		ValidateFields: true,
	}
}

// Clone returns a deep copy; presets and sweeps hand out clones.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Sources = append([]SourceConfig(nil), c.Sources...)
	cp.Materials = append([]fdtd.Region(nil), c.Materials...)
	cp.Probes = append([]sim.Probe(nil), c.Probes...)
	return &cp
}
