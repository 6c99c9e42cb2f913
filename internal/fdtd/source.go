package fdtd

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how a source writes into Ez.
type Mode int

const (
	// Overwrite replaces the field value (hard source).
	Overwrite Mode = iota
	// Additive adds the pulse to the field value (soft source).
	Additive
)

func (m Mode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Additive:
		return "additive"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "overwrite", "hard":
		return Overwrite, nil
	case "additive", "soft":
		return Additive, nil
	}
	return 0, configErr("source", ErrInvalidMode, "%q", name)
}

// Pulse is a unit-amplitude Gaussian in the step index, peaking at T0.
type Pulse struct {
	T0    float64 `yaml:"t0" json:"t0"`
	Sigma float64 `yaml:"sigma" json:"sigma"`
}

func (p Pulse) At(n int) float64 {
	x := (float64(n) - p.T0) / p.Sigma
	return math.Exp(-0.5 * x * x)
}

// Source injects a pulse at cell (I, J). J must be 0 on 1D grids.
// Window > 0 limits injection to steps [0, Window); 0 injects every step.
type Source struct {
	I      int
	J      int
	Pulse  Pulse
	Mode   Mode
	Window int
}

// Active reports whether the source writes at step n.
func (s Source) Active(n int) bool {
	return s.Window <= 0 || n < s.Window
}

func (s Source) Validate(shape Shape) error {
	if !(s.Pulse.Sigma > 0) {
		return configErr("source", ErrInvalidPulse, "sigma=%g", s.Pulse.Sigma)
	}
	if !shape.Interior(s.I, s.J) {
		return configErr("source", ErrSourceOutside, "(%d,%d) on %dx%d", s.I, s.J, shape.Nx, shape.Rows())
	}
	if s.Mode != Overwrite && s.Mode != Additive {
		return configErr("source", ErrInvalidMode, "%v", s.Mode)
	}
	return nil
}

func (s Source) apply(g *Grid, n int) {
	if !s.Active(n) {
		return
	}
	idx := g.shape.Index(s.I, s.J)
	v := s.Pulse.At(n)
	if s.Mode == Overwrite {
		g.ez[idx] = v
	} else {
		g.ez[idx] += v
	}
}
