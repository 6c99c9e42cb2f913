package fdtd

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Field is a flattened field array. Cell (i, j) lives at j*Nx + i.
type Field []float64

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

// IsValid reports whether every value is finite.
func (f Field) IsValid() bool {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SumSquares returns the sum of squared values.
func (f Field) SumSquares() float64 {
	if len(f) == 0 {
		return 0
	}
	return floats.Dot(f, f)
}

func (f Field) MaxAbs() float64 {
	if len(f) == 0 {
		return 0
	}
	return math.Max(math.Abs(floats.Max(f)), math.Abs(floats.Min(f)))
}

// Shape is the fixed size of a grid. Ny <= 1 selects the one-dimensional variant.
type Shape struct {
	Nx int `yaml:"nx" json:"nx"`
	Ny int `yaml:"ny" json:"ny"`
}

func Shape1D(n int) Shape      { return Shape{Nx: n, Ny: 1} }
func Shape2D(nx, ny int) Shape { return Shape{Nx: nx, Ny: ny} }

// Dims returns 1 or 2.
func (s Shape) Dims() int {
	if s.Ny <= 1 {
		return 1
	}
	return 2
}

func (s Shape) Rows() int {
	if s.Ny <= 1 {
		return 1
	}
	return s.Ny
}

func (s Shape) Cells() int { return s.Nx * s.Rows() }

func (s Shape) Index(i, j int) int { return j*s.Nx + i }

func (s Shape) Contains(i, j int) bool {
	return i >= 0 && i < s.Nx && j >= 0 && j < s.Rows()
}

// Interior reports whether (i, j) avoids every edge cell the boundary policy owns.
func (s Shape) Interior(i, j int) bool {
	if i < 1 || i > s.Nx-2 {
		return false
	}
	if s.Dims() == 1 {
		return j == 0
	}
	return j >= 1 && j <= s.Ny-2
}

func (s Shape) Validate() error {
	if s.Nx < 3 {
		return configErr("grid", ErrInvalidShape, "nx=%d, need at least 3", s.Nx)
	}
	if s.Ny < 0 || s.Ny == 2 {
		return configErr("grid", ErrInvalidShape, "ny=%d, need 0/1 (1D) or at least 3", s.Ny)
	}
	return nil
}

// Grid owns the field arrays and the step counter. Only the Stepper mutates it.
type Grid struct {
	shape Shape
	ez    Field
	hx    Field
	hy    Field
	step  int
}

// NewGrid allocates zero-filled fields for shape. Hx is nil on 1D grids.
func NewGrid(shape Shape) (*Grid, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	n := shape.Cells()
	g := &Grid{
		shape: shape,
		ez:    make(Field, n),
		hy:    make(Field, n),
	}
	if shape.Dims() == 2 {
		g.hx = make(Field, n)
	}
	return g, nil
}

func (g *Grid) Shape() Shape { return g.shape }

// Step returns the number of completed steps.
func (g *Grid) Step() int { return g.step }

// Ez returns the live electric field. Callers must not modify it.
func (g *Grid) Ez() Field { return g.ez }

// Hx returns the live x magnetic component, nil on 1D grids. Read only.
func (g *Grid) Hx() Field { return g.hx }

// Hy returns the live y magnetic component. Read only.
func (g *Grid) Hy() Field { return g.hy }

// At returns Ez at cell (i, j).
func (g *Grid) At(i, j int) float64 { return g.ez[g.shape.Index(i, j)] }

// Energy returns the sum of squares over Ez, Hx and Hy.
func (g *Grid) Energy() float64 {
	return g.ez.SumSquares() + g.hx.SumSquares() + g.hy.SumSquares()
}

// Snapshot copies the current state for a collaborator.
func (g *Grid) Snapshot() *Snapshot {
	s := &Snapshot{
		Step:  g.step,
		Shape: g.shape,
		Ez:    g.ez.Clone(),
		Hy:    g.hy.Clone(),
	}
	if g.hx != nil {
		s.Hx = g.hx.Clone()
	}
	return s
}

// reset zeroes every field and rewinds the step counter.
func (g *Grid) reset() {
	clear(g.ez)
	clear(g.hx)
	clear(g.hy)
	g.step = 0
}

// Snapshot is a read-only copy of the grid taken after a step.
type Snapshot struct {
	Step  int
	Shape Shape
	Ez    Field
	Hx    Field
	Hy    Field
}

func (s *Snapshot) At(i, j int) float64 { return s.Ez[s.Shape.Index(i, j)] }

func (s *Snapshot) Energy() float64 {
	return s.Ez.SumSquares() + s.Hx.SumSquares() + s.Hy.SumSquares()
}

// Row returns the Ez values of row j.
func (s *Snapshot) Row(j int) Field {
	start := s.Shape.Index(0, j)
	return s.Ez[start : start+s.Shape.Nx]
}
