// Package fdtd implements the field update engine of a finite-difference
// time-domain (FDTD) electromagnetic simulation.
//
// The package defines the staggered-grid state and the rules that advance it:
//
//   - [Grid]: electric (Ez) and magnetic (Hx, Hy) field arrays plus the step counter
//   - [MaterialMap]: per-cell electric update coefficient Cb = S / n²
//   - [Source]: Gaussian pulse injected by overwrite or addition
//   - [Boundary]: edge policy applied after the interior update (fixed or absorbing)
//   - [Stepper]: one leapfrog advance (H, then E, then sources, then boundary)
//
// One-dimensional grids carry Ez and Hy only. Two-dimensional grids run the TMz
// mode, where Hx and Hy sit half a cell from Ez by indexing convention and share
// its array shape.
//
// # Example
//
//	shape := fdtd.Shape1D(200)
//	grid, _ := fdtd.NewGrid(shape)
//	mats, _ := fdtd.BuildMaterialMap(shape, 1.0, nil)
//	src := fdtd.Source{I: 100, Pulse: fdtd.Pulse{T0: 10, Sigma: 3}, Mode: fdtd.Overwrite, Window: 20}
//	st, _ := fdtd.NewStepper(grid, mats, []fdtd.Source{src}, fdtd.Absorbing)
//	for n := 0; n < 500; n++ {
//	    st.Step()
//	}
//
// # Stability
//
// The Courant coefficient must not exceed 1 in 1D or 1/√2 in 2D. The engine does
// not check this; a violation makes the fields diverge.
//
// # Thread Safety
//
// A Grid is owned by its Stepper. Hand collaborators a [Snapshot], or read the
// live arrays strictly between calls to Step.
package fdtd
