package fdtd_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fdtdsim/internal/fdtd"
)

var _ = Describe("Shape", func() {
	It("treats Ny <= 1 as one-dimensional", func() {
		Expect(fdtd.Shape1D(200).Dims()).To(Equal(1))
		Expect(fdtd.Shape{Nx: 50}.Dims()).To(Equal(1))
		Expect(fdtd.Shape{Nx: 50}.Cells()).To(Equal(50))
		Expect(fdtd.Shape2D(40, 30).Dims()).To(Equal(2))
		Expect(fdtd.Shape2D(40, 30).Cells()).To(Equal(1200))
	})

	It("flattens row-major with i fastest", func() {
		s := fdtd.Shape2D(7, 5)
		Expect(s.Index(0, 0)).To(Equal(0))
		Expect(s.Index(6, 0)).To(Equal(6))
		Expect(s.Index(0, 1)).To(Equal(7))
		Expect(s.Index(3, 4)).To(Equal(31))
	})

	It("excludes edge cells from the interior", func() {
		s := fdtd.Shape2D(10, 8)
		Expect(s.Interior(0, 4)).To(BeFalse())
		Expect(s.Interior(9, 4)).To(BeFalse())
		Expect(s.Interior(4, 0)).To(BeFalse())
		Expect(s.Interior(4, 7)).To(BeFalse())
		Expect(s.Interior(1, 1)).To(BeTrue())
		Expect(s.Interior(8, 6)).To(BeTrue())

		line := fdtd.Shape1D(10)
		Expect(line.Interior(5, 0)).To(BeTrue())
		Expect(line.Interior(5, 1)).To(BeFalse())
	})

	DescribeTable("rejects degenerate sizes",
		func(s fdtd.Shape) {
			Expect(s.Validate()).To(MatchError(fdtd.ErrInvalidShape))
			_, err := fdtd.NewGrid(s)
			Expect(err).To(MatchError(fdtd.ErrInvalidShape))
		},
		Entry("empty", fdtd.Shape{}),
		Entry("two cells", fdtd.Shape1D(2)),
		Entry("two rows", fdtd.Shape2D(10, 2)),
		Entry("negative rows", fdtd.Shape{Nx: 10, Ny: -1}),
	)
})

var _ = Describe("Grid", func() {
	It("starts at rest", func() {
		g, err := fdtd.NewGrid(fdtd.Shape2D(12, 9))
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Step()).To(Equal(0))
		Expect(g.Ez()).To(HaveLen(108))
		Expect(g.Hx()).To(HaveLen(108))
		Expect(g.Hy()).To(HaveLen(108))
		Expect(g.Energy()).To(BeZero())
	})

	It("has no Hx in 1D", func() {
		g, err := fdtd.NewGrid(fdtd.Shape1D(64))
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Hx()).To(BeNil())
		Expect(g.Ez()).To(HaveLen(64))
	})

	It("hands out independent snapshots", func() {
		st := newStepper1D(64, fdtd.Absorbing)
		for n := 0; n < 12; n++ {
			st.Step()
		}
		snap := st.Snapshot()
		before := snap.Ez.Clone()
		for n := 0; n < 12; n++ {
			st.Step()
		}
		Expect(snap.Ez).To(Equal(before))
		Expect(snap.Step).To(Equal(12))
		Expect(st.Grid().Step()).To(Equal(24))
	})

	It("returns a row view of a snapshot", func() {
		st := newStepper2D(20, 16, fdtd.Fixed, nil)
		for n := 0; n < 30; n++ {
			st.Step()
		}
		snap := st.Snapshot()
		row := snap.Row(8)
		Expect(row).To(HaveLen(20))
		Expect(row[10]).To(Equal(snap.At(10, 8)))
		Expect(snap.Energy()).To(BeNumerically("~", st.Grid().Energy(), 1e-12))
	})
})

var _ = Describe("Field", func() {
	It("summarises values", func() {
		f := fdtd.Field{1, -3, 2}
		Expect(f.SumSquares()).To(Equal(14.0))
		Expect(f.MaxAbs()).To(Equal(3.0))
		Expect(f.IsValid()).To(BeTrue())
		Expect(fdtd.Field{}.MaxAbs()).To(BeZero())
	})

	It("flags non-finite values", func() {
		Expect(fdtd.Field{0, math.NaN()}.IsValid()).To(BeFalse())
		Expect(fdtd.Field{math.Inf(-1)}.IsValid()).To(BeFalse())
	})
})
