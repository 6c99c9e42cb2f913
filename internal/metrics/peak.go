package metrics

import (
	"math"

	"github.com/san-kum/fdtdsim/internal/fdtd"
	"github.com/san-kum/fdtdsim/internal/sim"
)

// PeakAmplitude is the largest |Ez| seen anywhere on the grid.
type PeakAmplitude struct {
	peak float64
}

func NewPeakAmplitude() *PeakAmplitude { return &PeakAmplitude{} }

func (p *PeakAmplitude) Name() string { return "peak_ez" }

func (p *PeakAmplitude) Observe(g *fdtd.Grid) {
	p.peak = math.Max(p.peak, g.Ez().MaxAbs())
}

func (p *PeakAmplitude) Value() float64 { return p.peak }
func (p *PeakAmplitude) Reset()         { p.peak = 0 }

// Standard returns the metric set attached to every run. settle is the step
// from which energy drift is measured.
func Standard(settle int, threshold float64) []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(settle),
		NewStability(threshold),
		NewPeakAmplitude(),
	}
}
