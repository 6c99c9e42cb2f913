package fdtd_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fdtdsim/internal/fdtd"
)

// newStepper1D places the hard pulse (t0=10, sigma=3, 20 steps) at the centre
// of an n-cell vacuum line with S = 1.
func newStepper1D(n int, kind fdtd.BoundaryKind) *fdtd.Stepper {
	shape := fdtd.Shape1D(n)
	grid, err := fdtd.NewGrid(shape)
	Expect(err).NotTo(HaveOccurred())
	mats, err := fdtd.UniformMaterialMap(shape, 1)
	Expect(err).NotTo(HaveOccurred())
	src := fdtd.Source{I: n / 2, Pulse: fdtd.Pulse{T0: 10, Sigma: 3}, Mode: fdtd.Overwrite, Window: 20}
	st, err := fdtd.NewStepper(grid, mats, []fdtd.Source{src}, kind)
	Expect(err).NotTo(HaveOccurred())
	return st
}

// newStepper2D places the soft pulse (t0=40, sigma=10, every step) at the
// centre of an nx by ny grid with S = 0.5.
func newStepper2D(nx, ny int, kind fdtd.BoundaryKind, regions []fdtd.Region) *fdtd.Stepper {
	shape := fdtd.Shape2D(nx, ny)
	grid, err := fdtd.NewGrid(shape)
	Expect(err).NotTo(HaveOccurred())
	mats, err := fdtd.BuildMaterialMap(shape, 0.5, regions)
	Expect(err).NotTo(HaveOccurred())
	src := fdtd.Source{I: nx / 2, J: ny / 2, Pulse: fdtd.Pulse{T0: 40, Sigma: 10}, Mode: fdtd.Additive}
	st, err := fdtd.NewStepper(grid, mats, []fdtd.Source{src}, kind)
	Expect(err).NotTo(HaveOccurred())
	return st
}

func run(st *fdtd.Stepper, steps int) {
	for n := 0; n < steps; n++ {
		st.Step()
	}
}

// smoothedMax is the largest two-cell average |E[i]+E[i+1]|/2. It removes the
// alternating residue a hard source leaves trapped in the line.
func smoothedMax(e fdtd.Field) float64 {
	m := 0.0
	for i := 0; i+1 < len(e); i++ {
		m = math.Max(m, math.Abs(e[i]+e[i+1])/2)
	}
	return m
}

var _ = Describe("Stepper", func() {
	Describe("configuration", func() {
		It("rejects a source with zero width", func() {
			shape := fdtd.Shape1D(50)
			grid, _ := fdtd.NewGrid(shape)
			mats, _ := fdtd.UniformMaterialMap(shape, 1)
			_, err := fdtd.NewStepper(grid, mats, []fdtd.Source{{I: 25, Pulse: fdtd.Pulse{T0: 10}}}, fdtd.Fixed)
			Expect(err).To(MatchError(fdtd.ErrInvalidPulse))
		})

		DescribeTable("rejects sources off the interior",
			func(shape fdtd.Shape, i, j int) {
				grid, _ := fdtd.NewGrid(shape)
				mats, _ := fdtd.UniformMaterialMap(shape, 0.5)
				src := fdtd.Source{I: i, J: j, Pulse: fdtd.Pulse{T0: 10, Sigma: 3}}
				_, err := fdtd.NewStepper(grid, mats, []fdtd.Source{src}, fdtd.Fixed)
				Expect(err).To(MatchError(fdtd.ErrSourceOutside))
			},
			Entry("left edge", fdtd.Shape1D(50), 0, 0),
			Entry("right edge", fdtd.Shape1D(50), 49, 0),
			Entry("beyond the line", fdtd.Shape1D(50), 70, 0),
			Entry("second row of a line", fdtd.Shape1D(50), 25, 1),
			Entry("bottom edge", fdtd.Shape2D(20, 20), 10, 0),
			Entry("top edge", fdtd.Shape2D(20, 20), 10, 19),
			Entry("negative", fdtd.Shape2D(20, 20), -1, 5),
		)

		It("rejects a material map of another shape", func() {
			grid, _ := fdtd.NewGrid(fdtd.Shape1D(50))
			mats, _ := fdtd.UniformMaterialMap(fdtd.Shape1D(60), 1)
			_, err := fdtd.NewStepper(grid, mats, nil, fdtd.Fixed)
			Expect(err).To(MatchError(fdtd.ErrInvalidShape))
		})

		It("rejects an unknown boundary", func() {
			grid, _ := fdtd.NewGrid(fdtd.Shape1D(50))
			mats, _ := fdtd.UniformMaterialMap(fdtd.Shape1D(50), 1)
			_, err := fdtd.NewStepper(grid, mats, nil, fdtd.BoundaryKind(7))
			Expect(err).To(MatchError(fdtd.ErrInvalidBoundary))
		})

		It("parses policy and mode names", func() {
			Expect(fdtd.ParseBoundary("ABC")).To(Equal(fdtd.Absorbing))
			Expect(fdtd.ParseBoundary("fixed")).To(Equal(fdtd.Fixed))
			Expect(fdtd.ParseMode("soft")).To(Equal(fdtd.Additive))
			Expect(fdtd.ParseMode("overwrite")).To(Equal(fdtd.Overwrite))

			_, err := fdtd.ParseBoundary("mirror")
			Expect(err).To(MatchError(fdtd.ErrInvalidBoundary))
			_, err = fdtd.ParseMode("pulse")
			Expect(err).To(MatchError(fdtd.ErrInvalidMode))
		})
	})

	Describe("sources", func() {
		It("writes the pulse peak at step t0", func() {
			st := newStepper1D(200, fdtd.Absorbing)
			run(st, 11)
			Expect(st.Grid().At(100, 0)).To(Equal(1.0))
		})

		It("stops injecting after the window", func() {
			src := fdtd.Source{Pulse: fdtd.Pulse{T0: 10, Sigma: 3}, Window: 20}
			Expect(src.Active(19)).To(BeTrue())
			Expect(src.Active(20)).To(BeFalse())
			src.Window = 0
			Expect(src.Active(5000)).To(BeTrue())
		})

		It("adds onto the existing field in additive mode", func() {
			st := newStepper2D(30, 30, fdtd.Fixed, nil)
			run(st, 1)
			pulse := fdtd.Pulse{T0: 40, Sigma: 10}
			Expect(st.Grid().At(15, 15)).To(Equal(pulse.At(0)))
			// the curl of a lone impulse cancels it, leaving only the new pulse sample
			run(st, 1)
			Expect(st.Grid().At(15, 15)).To(BeNumerically("~", pulse.At(1), 1e-12))
		})
	})

	Describe("null stimulus", func() {
		It("keeps a 1D line at rest", func() {
			shape := fdtd.Shape1D(100)
			grid, _ := fdtd.NewGrid(shape)
			mats, _ := fdtd.UniformMaterialMap(shape, 1)
			st, err := fdtd.NewStepper(grid, mats, nil, fdtd.Absorbing)
			Expect(err).NotTo(HaveOccurred())
			run(st, 300)
			Expect(grid.Ez()).To(HaveEach(0.0))
			Expect(grid.Hy()).To(HaveEach(0.0))
		})

		It("keeps a 2D plane at rest", func() {
			shape := fdtd.Shape2D(40, 40)
			grid, _ := fdtd.NewGrid(shape)
			mats, _ := fdtd.BuildMaterialMap(shape, 0.5, []fdtd.Region{
				{Rect: fdtd.Rect{X0: 5, X1: 15, Y0: 5, Y1: 35}, Index: 1.5},
			})
			st, err := fdtd.NewStepper(grid, mats, nil, fdtd.Absorbing)
			Expect(err).NotTo(HaveOccurred())
			run(st, 200)
			Expect(grid.Energy()).To(BeZero())
		})
	})

	Describe("1D boundaries", func() {
		It("absorbs the outgoing pulse", func() {
			st := newStepper1D(200, fdtd.Absorbing)
			run(st, 20+100+5)
			for n := 0; n < 400; n++ {
				st.Step()
				Expect(smoothedMax(st.Grid().Ez())).To(BeNumerically("<", 1e-6), "step %d", st.Grid().Step())
			}
		})

		It("absorbs on small odd lines too", func() {
			st := newStepper1D(101, fdtd.Absorbing)
			run(st, 20+50+5)
			run(st, 202)
			Expect(smoothedMax(st.Grid().Ez())).To(BeNumerically("<", 1e-6))
		})

		It("reflects with fixed edges", func() {
			st := newStepper1D(200, fdtd.Fixed)
			run(st, 20+100+5)
			peak := 0.0
			for n := 0; n < 400; n++ {
				st.Step()
				peak = math.Max(peak, smoothedMax(st.Grid().Ez()))
			}
			Expect(peak).To(BeNumerically(">", 0.5))
		})
	})

	Describe("2D", func() {
		It("never touches edge cells under the fixed policy", func() {
			st := newStepper2D(40, 40, fdtd.Fixed, nil)
			run(st, 150)
			g := st.Grid()
			for i := 0; i < 40; i++ {
				Expect(g.At(i, 0)).To(BeZero())
				Expect(g.At(i, 39)).To(BeZero())
				Expect(g.At(0, i)).To(BeZero())
				Expect(g.At(39, i)).To(BeZero())
			}
			Expect(g.Energy()).To(BeNumerically(">", 0))
		})

		It("gains energy while the source ramps up", func() {
			st := newStepper2D(40, 40, fdtd.Fixed, nil)
			prev := 0.0
			for n := 0; n <= 40; n++ {
				st.Step()
				e := st.Grid().Energy()
				Expect(e).To(BeNumerically(">=", prev), "step %d", n)
				prev = e
			}
		})

		It("keeps energy bounded once the source has faded", func() {
			st := newStepper2D(40, 40, fdtd.Fixed, nil)
			run(st, 101)
			ref := st.Grid().Energy()
			Expect(ref).To(BeNumerically(">", 0))
			for n := 101; n < 400; n++ {
				st.Step()
				Expect(st.Grid().Energy()).To(BeNumerically("~", ref, 0.1*ref), "step %d", n)
			}
		})

		It("drains energy through absorbing edges", func() {
			fixed := newStepper2D(40, 40, fdtd.Fixed, nil)
			absorbing := newStepper2D(40, 40, fdtd.Absorbing, nil)
			run(fixed, 300)
			run(absorbing, 300)
			Expect(absorbing.Grid().Ez().IsValid()).To(BeTrue())
			Expect(absorbing.Grid().Energy()).To(BeNumerically("<", 0.01*fixed.Grid().Energy()))
		})

		It("slows the wave inside glass", func() {
			glass := []fdtd.Region{{Rect: fdtd.Rect{X0: 0, X1: 60, Y0: 0, Y1: 60}, Index: 3}}
			vacuum := newStepper2D(60, 60, fdtd.Fixed, nil)
			dense := newStepper2D(60, 60, fdtd.Fixed, glass)
			run(vacuum, 60)
			run(dense, 60)
			// 20 cells off the source the vacuum front has arrived, the glass one has not
			Expect(math.Abs(vacuum.Grid().At(50, 30))).To(BeNumerically(">", 100*math.Abs(dense.Grid().At(50, 30))))
		})
	})

	Describe("determinism", func() {
		glass := []fdtd.Region{{Rect: fdtd.Rect{X0: 70, X1: 100, Y0: 10, Y1: 110}, Index: 2}}

		It("gives identical fields for serial and banded updates", func() {
			serial := newStepper2D(120, 120, fdtd.Absorbing, glass)
			serial.SetWorkers(1)
			banded := newStepper2D(120, 120, fdtd.Absorbing, glass)
			banded.SetWorkers(4)
			run(serial, 150)
			run(banded, 150)
			Expect(banded.Grid().Ez()).To(Equal(serial.Grid().Ez()))
			Expect(banded.Grid().Hx()).To(Equal(serial.Grid().Hx()))
			Expect(banded.Grid().Hy()).To(Equal(serial.Grid().Hy()))
		})

		It("replays bit-identically after Reset", func() {
			st := newStepper2D(120, 120, fdtd.Absorbing, glass)
			run(st, 150)
			first := st.Snapshot()

			st.Reset()
			Expect(st.Grid().Step()).To(BeZero())
			Expect(st.Grid().Energy()).To(BeZero())

			run(st, 150)
			second := st.Snapshot()
			Expect(second.Ez).To(Equal(first.Ez))
			Expect(second.Hx).To(Equal(first.Hx))
			Expect(second.Hy).To(Equal(first.Hy))
		})
	})

	It("does not guard against unstable Courant numbers", func() {
		shape := fdtd.Shape1D(200)
		grid, _ := fdtd.NewGrid(shape)
		mats, err := fdtd.UniformMaterialMap(shape, 1.5)
		Expect(err).NotTo(HaveOccurred())
		src := fdtd.Source{I: 100, Pulse: fdtd.Pulse{T0: 10, Sigma: 3}, Window: 20}
		st, err := fdtd.NewStepper(grid, mats, []fdtd.Source{src}, fdtd.Absorbing)
		Expect(err).NotTo(HaveOccurred())
		run(st, 60)
		Expect(grid.Ez().MaxAbs()).To(BeNumerically(">", 1e6))
	})
})
