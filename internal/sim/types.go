package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/fdtdsim/internal/fdtd"
)

var (
	// ErrDiverged indicates a non-finite field value, usually an unstable Courant number.
	ErrDiverged = errors.New("sim: fields diverged (NaN or Inf detected)")

	// ErrInvalidRun indicates run parameters that cannot be executed.
	ErrInvalidRun = errors.New("sim: invalid run parameters")

	// ErrProbeOutside indicates a probe placed outside the grid.
	ErrProbeOutside = errors.New("sim: probe outside grid")
)

// Metric accumulates a scalar over the steps of a run. Observe is called with
// the live grid right after each step and must not modify it.
type Metric interface {
	Name() string
	Observe(g *fdtd.Grid)
	Value() float64
	Reset()
}

// Observer receives a snapshot copy every Config.SnapshotEvery steps.
type Observer interface {
	OnStep(snap *fdtd.Snapshot)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(snap *fdtd.Snapshot)

func (f ObserverFunc) OnStep(snap *fdtd.Snapshot) { f(snap) }

// Probe records Ez at one cell after every step.
type Probe struct {
	Name string `yaml:"name" json:"name"`
	I    int    `yaml:"i" json:"i"`
	J    int    `yaml:"j" json:"j"`
}

type Config struct {
	Steps          int
	SnapshotEvery  int // <= 0 notifies observers after every step
	ValidateFields bool
}

func DefaultConfig() Config {
	return Config{
		Steps:          500,
		SnapshotEvery:  1,
		ValidateFields: true,
	}
}

type Result struct {
	StepsTaken int
	Probes     map[string][]float64
	Energy     []float64
	Metrics    map[string]float64
	Final      *fdtd.Snapshot
}

// PeakEnergy returns the largest recorded total field energy.
func (r *Result) PeakEnergy() float64 {
	peak := 0.0
	for _, e := range r.Energy {
		if e > peak {
			peak = e
		}
	}
	return peak
}

// SimError wraps an error with the step it happened at.
type SimError struct {
	Step    int
	Message string
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d: %s: %v", e.Step, e.Message, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
