package fdtd

import (
	"fmt"
	"strings"
)

// BoundaryKind selects the edge policy.
type BoundaryKind int

const (
	// Fixed leaves edge cells untouched, so they keep their last value
	// (zero from cold start). Waves reflect.
	Fixed BoundaryKind = iota
	// Absorbing writes each edge cell with the value its inner neighbour had one
	// step earlier. Exact for S = 1 in 1D.
	Absorbing
)

func (k BoundaryKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Absorbing:
		return "absorbing"
	default:
		return fmt.Sprintf("boundary(%d)", int(k))
	}
}

func ParseBoundary(name string) (BoundaryKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fixed", "reflecting", "pec":
		return Fixed, nil
	case "absorbing", "abc":
		return Absorbing, nil
	}
	return 0, configErr("boundary", ErrInvalidBoundary, "%q", name)
}

// Boundary is applied to the edge cells after the interior update.
type Boundary interface {
	Kind() BoundaryKind
	Apply(g *Grid)
	Reset()
}

func NewBoundary(kind BoundaryKind, shape Shape) (Boundary, error) {
	switch kind {
	case Fixed:
		return fixedBoundary{}, nil
	case Absorbing:
		if shape.Dims() == 1 {
			return &absorbing1D{}, nil
		}
		return newAbsorbing2D(shape), nil
	}
	return nil, configErr("boundary", ErrInvalidBoundary, "%v", kind)
}

type fixedBoundary struct{}

func (fixedBoundary) Kind() BoundaryKind { return Fixed }
func (fixedBoundary) Apply(*Grid)       {}
func (fixedBoundary) Reset()            {}

type absorbing1D struct {
	left, right float64
}

func (b *absorbing1D) Kind() BoundaryKind { return Absorbing }

func (b *absorbing1D) Apply(g *Grid) {
	n := g.shape.Nx
	e := g.ez
	// edges take the buffered values of the previous step
	e[0] = b.left
	e[n-1] = b.right
	b.left = e[1]
	b.right = e[n-2]
}

func (b *absorbing1D) Reset() { b.left, b.right = 0, 0 }

// absorbing2D buffers the inner ring of the previous step for all four edges.
type absorbing2D struct {
	left, right []float64 // indexed by j
	bottom, top []float64 // indexed by i
}

func newAbsorbing2D(shape Shape) *absorbing2D {
	return &absorbing2D{
		left:   make([]float64, shape.Ny),
		right:  make([]float64, shape.Ny),
		bottom: make([]float64, shape.Nx),
		top:    make([]float64, shape.Nx),
	}
}

func (b *absorbing2D) Kind() BoundaryKind { return Absorbing }

func (b *absorbing2D) Apply(g *Grid) {
	s := g.shape
	e := g.ez
	nx, ny := s.Nx, s.Ny

	// x edges first, then y edges; corners end up with the y-edge value
	for j := 0; j < ny; j++ {
		e[s.Index(0, j)] = b.left[j]
		e[s.Index(nx-1, j)] = b.right[j]
	}
	for i := 0; i < nx; i++ {
		e[s.Index(i, 0)] = b.bottom[i]
		e[s.Index(i, ny-1)] = b.top[i]
	}

	for j := 0; j < ny; j++ {
		b.left[j] = e[s.Index(1, j)]
		b.right[j] = e[s.Index(nx-2, j)]
	}
	for i := 0; i < nx; i++ {
		b.bottom[i] = e[s.Index(i, 1)]
		b.top[i] = e[s.Index(i, ny-2)]
	}
}

func (b *absorbing2D) Reset() {
	clear(b.left)
	clear(b.right)
	clear(b.bottom)
	clear(b.top)
}
