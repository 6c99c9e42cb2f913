package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/fdtdsim/internal/config"
	"github.com/san-kum/fdtdsim/internal/fdtd"
	"github.com/san-kum/fdtdsim/internal/sim"
)

// StabilityThreshold is the |Ez| above which a step counts as unstable. Unit
// pulses keep physical fields well below it.
const StabilityThreshold = 100.0

// Experiment is one fully wired run: grid, material map, sources, boundary,
// stepper and simulator, all built from a config.Config.
type Experiment struct {
	cfg       *config.Config
	stepper   *fdtd.Stepper
	simulator *sim.Simulator
}

// New validates cfg and builds the run. Metrics are looked up by name in the
// default registry; with no names the whole registry is attached.
func New(cfg *config.Config, metricNames ...string) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := fdtd.NewGrid(cfg.Grid)
	if err != nil {
		return nil, err
	}
	mats, err := fdtd.BuildMaterialMap(cfg.Grid, cfg.Courant, cfg.Materials)
	if err != nil {
		return nil, err
	}
	srcs, err := cfg.EngineSources()
	if err != nil {
		return nil, err
	}
	kind, err := cfg.BoundaryKind()
	if err != nil {
		return nil, err
	}
	stepper, err := fdtd.NewStepper(grid, mats, srcs, kind)
	if err != nil {
		return nil, err
	}
	stepper.SetWorkers(cfg.Workers)

	s := sim.New(stepper)
	for _, p := range cfg.Probes {
		if err := s.AddProbe(p); err != nil {
			return nil, err
		}
	}

	reg := DefaultRegistry()
	if len(metricNames) == 0 {
		metricNames = reg.Names()
	}
	for _, name := range metricNames {
		m, err := reg.Metric(name, cfg)
		if err != nil {
			return nil, err
		}
		s.AddMetric(m)
	}

	return &Experiment{cfg: cfg, stepper: stepper, simulator: s}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not set up")
	}
	return e.simulator.Run(ctx, e.cfg.SimConfig())
}

func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) Stepper() *fdtd.Stepper       { return e.stepper }
func (e *Experiment) Simulator() *sim.Simulator    { return e.simulator }
func (e *Experiment) Materials() *fdtd.MaterialMap { return e.stepper.Materials() }

// SettleStep returns the first step after which no source injects a
// noticeable amount: the end of the window, or t0 + 5σ for windowless pulses.
func SettleStep(cfg *config.Config) int {
	settle := 0
	for _, s := range cfg.Sources {
		end := s.Window
		if end <= 0 {
			end = int(math.Ceil(s.T0 + 5*s.Sigma))
		}
		if end > settle {
			settle = end
		}
	}
	return settle
}
