package fdtd_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fdtdsim/internal/fdtd"
)

var _ = Describe("MaterialMap", func() {
	It("scales the coefficient by 1/n² inside a region", func() {
		shape := fdtd.Shape2D(200, 50)
		slab := fdtd.Region{Rect: fdtd.Rect{X0: 100, X1: 140, Y0: 0, Y1: 50}, Index: 2}
		m, err := fdtd.BuildMaterialMap(shape, 0.5, []fdtd.Region{slab})
		Expect(err).NotTo(HaveOccurred())

		Expect(m.At(99, 10)).To(Equal(0.5))
		Expect(m.At(100, 10)).To(Equal(0.125))
		Expect(m.At(139, 49)).To(Equal(0.125))
		Expect(m.At(140, 0)).To(Equal(0.5))
		Expect(m.Permittivity(120, 25)).To(Equal(4.0))
		Expect(m.Base()).To(Equal(0.5))
		Expect(m.Regions()).To(ConsistOf(slab))
	})

	It("ignores the y extent on 1D grids", func() {
		m, err := fdtd.BuildMaterialMap(fdtd.Shape1D(50), 1, []fdtd.Region{
			{Rect: fdtd.Rect{X0: 10, X1: 20}, Index: 3},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.At(15, 0)).To(BeNumerically("~", 1.0/9, 1e-15))
		Expect(m.At(20, 0)).To(Equal(1.0))
	})

	It("keeps every coefficient in (0, base]", func() {
		m, err := fdtd.BuildMaterialMap(fdtd.Shape2D(30, 30), 0.5, []fdtd.Region{
			{Rect: fdtd.Rect{X0: 2, X1: 10, Y0: 2, Y1: 10}, Index: 1.5},
			{Rect: fdtd.Rect{X0: 15, X1: 28, Y0: 5, Y1: 25}, Index: 4},
		})
		Expect(err).NotTo(HaveOccurred())
		for _, c := range m.Coefficients() {
			Expect(c).To(BeNumerically(">", 0))
			Expect(c).To(BeNumerically("<=", 0.5))
		}
	})

	It("builds vacuum maps", func() {
		m, err := fdtd.UniformMaterialMap(fdtd.Shape1D(10), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Coefficients()).To(HaveEach(1.0))
		Expect(m.Regions()).To(BeEmpty())
	})

	DescribeTable("rejects bad regions",
		func(shape fdtd.Shape, base float64, regions []fdtd.Region, want error) {
			_, err := fdtd.BuildMaterialMap(shape, base, regions)
			Expect(err).To(MatchError(want))
		},
		Entry("index below one", fdtd.Shape2D(20, 20), 0.5,
			[]fdtd.Region{{Rect: fdtd.Rect{X0: 1, X1: 5, Y0: 1, Y1: 5}, Index: 0.5}}, fdtd.ErrInvalidIndex),
		Entry("overlap", fdtd.Shape2D(20, 20), 0.5,
			[]fdtd.Region{
				{Rect: fdtd.Rect{X0: 1, X1: 10, Y0: 1, Y1: 10}, Index: 2},
				{Rect: fdtd.Rect{X0: 9, X1: 15, Y0: 9, Y1: 15}, Index: 3},
			}, fdtd.ErrOverlappingRegions),
		Entry("overlap along the line", fdtd.Shape1D(40), 1.0,
			[]fdtd.Region{
				{Rect: fdtd.Rect{X0: 5, X1: 10, Y0: 0, Y1: 1}, Index: 2},
				{Rect: fdtd.Rect{X0: 8, X1: 12, Y0: 7, Y1: 9}, Index: 2},
			}, fdtd.ErrOverlappingRegions),
		Entry("outside the grid", fdtd.Shape2D(20, 20), 0.5,
			[]fdtd.Region{{Rect: fdtd.Rect{X0: 15, X1: 25, Y0: 0, Y1: 5}, Index: 2}}, fdtd.ErrInvalidRegion),
		Entry("empty rectangle", fdtd.Shape2D(20, 20), 0.5,
			[]fdtd.Region{{Rect: fdtd.Rect{X0: 5, X1: 5, Y0: 0, Y1: 5}, Index: 2}}, fdtd.ErrInvalidRegion),
		Entry("zero base", fdtd.Shape1D(20), 0.0, nil, fdtd.ErrInvalidCoefficient),
		Entry("bad shape", fdtd.Shape1D(1), 1.0, nil, fdtd.ErrInvalidShape),
	)

	It("reports the failing component", func() {
		_, err := fdtd.BuildMaterialMap(fdtd.Shape1D(20), 1, []fdtd.Region{{Rect: fdtd.Rect{X0: 1, X1: 3}, Index: 0}})
		var cfgErr *fdtd.ConfigError
		Expect(err).To(BeAssignableToTypeOf(cfgErr))
		Expect(err.Error()).To(ContainSubstring("materials"))
	})
})
