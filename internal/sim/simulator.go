package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/fdtdsim/internal/fdtd"
)

// Simulator drives a Stepper and fans every step out to probes, metrics and
// observers.
type Simulator struct {
	stepper   *fdtd.Stepper
	metrics   []Metric
	observers []Observer
	probes    []Probe
}

func New(stepper *fdtd.Stepper) *Simulator {
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		probes:    make([]Probe, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Stepper() *fdtd.Stepper { return s.stepper }

func (s *Simulator) AddProbe(p Probe) error {
	if !s.stepper.Grid().Shape().Contains(p.I, p.J) {
		return fmt.Errorf("%w: %q at (%d,%d)", ErrProbeOutside, p.Name, p.I, p.J)
	}
	if p.Name == "" {
		p.Name = fmt.Sprintf("p%d_%d", p.I, p.J)
	}
	s.probes = append(s.probes, p)
	return nil
}

// Run advances cfg.Steps steps from the stepper's current state. On
// cancellation or divergence the partial result is returned with the error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Probes:  make(map[string][]float64, len(s.probes)),
		Energy:  make([]float64, 0, cfg.Steps),
		Metrics: make(map[string]float64),
	}
	for _, p := range s.probes {
		result.Probes[p.Name] = make([]float64, 0, cfg.Steps)
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	every := cfg.SnapshotEvery
	if every <= 0 {
		every = 1
	}
	grid := s.stepper.Grid()

	var runErr error
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		s.stepper.Step()
		result.StepsTaken++

		if cfg.ValidateFields && !fieldsValid(grid) {
			runErr = &SimError{Step: grid.Step() - 1, Message: "invalid field", Wrapped: ErrDiverged}
			break
		}

		for _, p := range s.probes {
			result.Probes[p.Name] = append(result.Probes[p.Name], grid.At(p.I, p.J))
		}
		result.Energy = append(result.Energy, grid.Energy())
		for _, m := range s.metrics {
			m.Observe(grid)
		}
		if len(s.observers) > 0 && result.StepsTaken%every == 0 {
			snap := grid.Snapshot()
			for _, obs := range s.observers {
				obs.OnStep(snap)
			}
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = grid.Snapshot()
	return result, runErr
}

// RunWithCallback steps until the callback returns false, the step budget is
// spent, or ctx is done. steps <= 0 runs until one of the other two.
func (s *Simulator) RunWithCallback(ctx context.Context, steps int, validate bool, callback func(*fdtd.Snapshot) bool) error {
	grid := s.stepper.Grid()
	for i := 0; steps <= 0 || i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.stepper.Step()

		if validate && !fieldsValid(grid) {
			return &SimError{Step: grid.Step() - 1, Message: "invalid field", Wrapped: ErrDiverged}
		}
		if !callback(grid.Snapshot()) {
			return nil
		}
	}
	return nil
}

// fieldsValid reports whether Ez, Hx and Hy are all finite.
func fieldsValid(g *fdtd.Grid) bool {
	return g.Ez().IsValid() && g.Hx().IsValid() && g.Hy().IsValid()
}

func validateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidRun, cfg.Steps)
	}
	return nil
}
