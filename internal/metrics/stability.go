package metrics

import (
	"github.com/san-kum/fdtdsim/internal/fdtd"
)

// Stability is the fraction of steps whose peak |Ez| stayed within threshold.
// Non-finite fields count as violations.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(g *fdtd.Grid) {
	s.samples++
	ez := g.Ez()
	if !ez.IsValid() || ez.MaxAbs() > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
