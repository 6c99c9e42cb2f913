package metrics

import (
	"math"

	"github.com/san-kum/fdtdsim/internal/fdtd"
)

// Energy averages the total field energy E² + Hx² + Hy² over the run.
type Energy struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(g *fdtd.Grid) {
	e.last = g.Energy()
	e.total += e.last
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last returns the energy of the most recent step.
func (e *Energy) Last() float64 { return e.last }

func (e *Energy) Reset() {
	e.total = 0
	e.last = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure of the total energy from
// its value at step settle. Sources that are still injecting, and absorbing
// edges, both move the energy, so settle should come after the pulse.
type EnergyDrift struct {
	name      string
	settle    int
	reference float64
	maxDrift  float64
	armed     bool
}

func NewEnergyDrift(settle int) *EnergyDrift {
	return &EnergyDrift{
		name:   "energy_drift",
		settle: settle,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(g *fdtd.Grid) {
	if g.Step() < e.settle {
		return
	}
	energy := g.Energy()
	if !e.armed {
		e.reference = energy
		e.armed = true
		return
	}
	if e.reference != 0 {
		drift := math.Abs(energy-e.reference) / e.reference
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.reference = 0
	e.maxDrift = 0
	e.armed = false
}
