package fdtd

// Stepper advances a Grid by one leapfrog step per call.
type Stepper struct {
	grid      *Grid
	materials *MaterialMap
	sources   []Source
	boundary  Boundary
	workers   int
}

// NewStepper validates the whole configuration up front. After it returns
// without error, Step cannot fail.
func NewStepper(grid *Grid, materials *MaterialMap, sources []Source, kind BoundaryKind) (*Stepper, error) {
	shape := grid.Shape()
	if materials.Shape() != shape {
		return nil, configErr("stepper", ErrInvalidShape, "material map %dx%d, grid %dx%d",
			materials.Shape().Nx, materials.Shape().Rows(), shape.Nx, shape.Rows())
	}
	for _, src := range sources {
		if err := src.Validate(shape); err != nil {
			return nil, err
		}
	}
	boundary, err := NewBoundary(kind, shape)
	if err != nil {
		return nil, err
	}

	srcs := make([]Source, len(sources))
	copy(srcs, sources)
	return &Stepper{
		grid:      grid,
		materials: materials,
		sources:   srcs,
		boundary:  boundary,
	}, nil
}

// SetWorkers bounds the goroutines used for row bands of 2D updates.
// 1 forces serial updates, 0 uses GOMAXPROCS.
func (s *Stepper) SetWorkers(n int) { s.workers = n }

func (s *Stepper) Grid() *Grid             { return s.grid }
func (s *Stepper) Materials() *MaterialMap { return s.materials }
func (s *Stepper) Boundary() BoundaryKind  { return s.boundary.Kind() }
func (s *Stepper) Sources() []Source       { return append([]Source(nil), s.sources...) }
func (s *Stepper) Snapshot() *Snapshot     { return s.grid.Snapshot() }

// Courant returns the vacuum coefficient S used for every H update.
func (s *Stepper) Courant() float64 { return s.materials.base }

// Step runs H update, E update, source injection and boundary policy, in that
// order, then advances the step counter.
func (s *Stepper) Step() {
	n := s.grid.step
	if s.grid.shape.Dims() == 1 {
		s.updateH1D()
		s.updateE1D()
	} else {
		s.updateH2D()
		s.updateE2D()
	}
	for _, src := range s.sources {
		src.apply(s.grid, n)
	}
	s.boundary.Apply(s.grid)
	s.grid.step++
}

// Reset returns the grid and the boundary buffers to cold start.
func (s *Stepper) Reset() {
	s.grid.reset()
	s.boundary.Reset()
}

func (s *Stepper) updateH1D() {
	ch := s.materials.base
	e, h := s.grid.ez, s.grid.hy
	for i := 0; i < len(e)-1; i++ {
		h[i] += ch * (e[i+1] - e[i])
	}
}

func (s *Stepper) updateE1D() {
	cb := s.materials.cb
	e, h := s.grid.ez, s.grid.hy
	for i := 1; i < len(e)-1; i++ {
		e[i] += cb[i] * (h[i] - h[i-1])
	}
}

// updateH2D uses the vacuum coefficient for both components: permeability is
// uniform.
func (s *Stepper) updateH2D() {
	ch := s.materials.base
	nx, ny := s.grid.shape.Nx, s.grid.shape.Ny
	e, hx, hy := s.grid.ez, s.grid.hx, s.grid.hy

	ParallelFor(ny, rowsPerWorker, s.workers, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			row := j * nx
			if j < ny-1 {
				for i := 0; i < nx; i++ {
					k := row + i
					hx[k] -= ch * (e[k+nx] - e[k])
				}
			}
			for i := 0; i < nx-1; i++ {
				k := row + i
				hy[k] += ch * (e[k+1] - e[k])
			}
		}
	})
}

func (s *Stepper) updateE2D() {
	cb := s.materials.cb
	nx, ny := s.grid.shape.Nx, s.grid.shape.Ny
	e, hx, hy := s.grid.ez, s.grid.hx, s.grid.hy

	ParallelFor(ny-2, rowsPerWorker, s.workers, func(r0, r1 int) {
		for j := r0 + 1; j < r1+1; j++ {
			row := j * nx
			for i := 1; i < nx-1; i++ {
				k := row + i
				e[k] += cb[k] * ((hy[k] - hy[k-1]) - (hx[k] - hx[k-nx]))
			}
		}
	})
}
