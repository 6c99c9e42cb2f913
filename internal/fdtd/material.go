package fdtd

// Rect is a half-open cell rectangle [X0, X1) × [Y0, Y1). The y extent is
// ignored on 1D grids.
type Rect struct {
	X0 int `yaml:"x0" json:"x0"`
	X1 int `yaml:"x1" json:"x1"`
	Y0 int `yaml:"y0" json:"y0"`
	Y1 int `yaml:"y1" json:"y1"`
}

func (r Rect) rows(shape Shape) (int, int) {
	if shape.Dims() == 1 {
		return 0, 1
	}
	return r.Y0, r.Y1
}

func (r Rect) Contains(shape Shape, i, j int) bool {
	y0, y1 := r.rows(shape)
	return i >= r.X0 && i < r.X1 && j >= y0 && j < y1
}

func (r Rect) overlaps(shape Shape, o Rect) bool {
	ay0, ay1 := r.rows(shape)
	by0, by1 := o.rows(shape)
	return r.X0 < o.X1 && o.X0 < r.X1 && ay0 < by1 && by0 < ay1
}

func (r Rect) validate(shape Shape) error {
	y0, y1 := r.rows(shape)
	if r.X0 < 0 || r.X1 > shape.Nx || r.X0 >= r.X1 {
		return configErr("materials", ErrInvalidRegion, "x range [%d,%d) on nx=%d", r.X0, r.X1, shape.Nx)
	}
	if y0 < 0 || y1 > shape.Rows() || y0 >= y1 {
		return configErr("materials", ErrInvalidRegion, "y range [%d,%d) on ny=%d", y0, y1, shape.Rows())
	}
	return nil
}

// Region tags a rectangle with a refractive index n (relative permittivity n²).
type Region struct {
	Rect  Rect    `yaml:",inline" json:"rect"`
	Index float64 `yaml:"index" json:"index"`
}

// MaterialMap holds the electric update coefficient of every cell. It is built
// once and never changes.
type MaterialMap struct {
	shape   Shape
	base    float64
	cb      Field
	regions []Region
}

// BuildMaterialMap fills every cell with base and every region cell with
// base / n². Regions must lie inside the grid, must not overlap, and need n >= 1.
func BuildMaterialMap(shape Shape, base float64, regions []Region) (*MaterialMap, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if !(base > 0) {
		return nil, configErr("materials", ErrInvalidCoefficient, "base coefficient %g", base)
	}

	for k, r := range regions {
		if err := r.Rect.validate(shape); err != nil {
			return nil, err
		}
		if !(r.Index >= 1) {
			return nil, configErr("materials", ErrInvalidIndex, "region %d has n=%g", k, r.Index)
		}
		for p := 0; p < k; p++ {
			if r.Rect.overlaps(shape, regions[p].Rect) {
				return nil, configErr("materials", ErrOverlappingRegions, "regions %d and %d", p, k)
			}
		}
	}

	cb := make(Field, shape.Cells())
	for i := range cb {
		cb[i] = base
	}
	for _, r := range regions {
		c := base / (r.Index * r.Index)
		y0, y1 := r.Rect.rows(shape)
		for j := y0; j < y1; j++ {
			for i := r.Rect.X0; i < r.Rect.X1; i++ {
				cb[shape.Index(i, j)] = c
			}
		}
	}

	for idx, c := range cb {
		if !(c > 0) || c > base {
			return nil, configErr("materials", ErrInvalidCoefficient, "cell %d has Cb=%g", idx, c)
		}
	}

	kept := make([]Region, len(regions))
	copy(kept, regions)
	return &MaterialMap{shape: shape, base: base, cb: cb, regions: kept}, nil
}

// UniformMaterialMap is a vacuum map with Cb = base everywhere.
func UniformMaterialMap(shape Shape, base float64) (*MaterialMap, error) {
	return BuildMaterialMap(shape, base, nil)
}

func (m *MaterialMap) Shape() Shape { return m.shape }

// Base returns the vacuum Courant coefficient S.
func (m *MaterialMap) Base() float64 { return m.base }

func (m *MaterialMap) At(i, j int) float64 { return m.cb[m.shape.Index(i, j)] }

// Coefficients returns the Cb array. Callers must not modify it.
func (m *MaterialMap) Coefficients() Field { return m.cb }

// Regions returns a copy of the regions the map was built from.
func (m *MaterialMap) Regions() []Region {
	out := make([]Region, len(m.regions))
	copy(out, m.regions)
	return out
}

// Permittivity returns the relative permittivity S / Cb at (i, j).
func (m *MaterialMap) Permittivity(i, j int) float64 { return m.base / m.At(i, j) }
