package render

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/fdtdsim/internal/fdtd"
)

// FieldGrid exposes the Ez of a snapshot as a plotter.GridXYZ with one unit
// per cell.
type FieldGrid struct {
	Snap *fdtd.Snapshot
}

func (g FieldGrid) Dims() (c, r int) { return g.Snap.Shape.Nx, g.Snap.Shape.Rows() }
func (g FieldGrid) Z(c, r int) float64 {
	v := g.Snap.At(c, r)
	if math.IsNaN(v) {
		return 0
	}
	return v
}
func (g FieldGrid) X(c int) float64 { return float64(c) }
func (g FieldGrid) Y(r int) float64 { return float64(r) }

type Options struct {
	Title   string
	Regions []fdtd.Region
	// Range fixes the colour scale to [-Range, Range]. 0 scales to the
	// snapshot's own peak.
	Range  float64
	Width  vg.Length
	Height vg.Length
	DPI    int
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 6 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 5 * vg.Inch
	}
	if o.DPI == 0 {
		o.DPI = 96
	}
	return o
}

var outlineColor = color.RGBA{R: 255, G: 220, B: 0, A: 255}

// Plot builds the plot for one snapshot: a heat map in 2D, a profile line in 1D.
func Plot(snap *fdtd.Snapshot, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("Ez, step %d", snap.Step)
	}
	p.X.Label.Text = "x (cells)"

	limit := opts.Range
	if limit <= 0 {
		limit = snap.Ez.MaxAbs()
	}
	if limit == 0 || math.IsInf(limit, 0) || math.IsNaN(limit) {
		limit = 1
	}

	if snap.Shape.Dims() == 1 {
		p.Y.Label.Text = "Ez"
		p.Y.Min, p.Y.Max = -limit, limit
		pts := make(plotter.XYs, snap.Shape.Nx)
		for i := range pts {
			pts[i].X = float64(i)
			pts[i].Y = snap.Ez[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = color.RGBA{R: 30, G: 90, B: 200, A: 255}
		p.Add(line)
		for _, r := range opts.Regions {
			if err := addOutline(p, float64(r.Rect.X0)-0.5, float64(r.Rect.X1)-0.5, -limit, limit); err != nil {
				return nil, err
			}
		}
		return p, nil
	}

	p.Y.Label.Text = "y (cells)"
	pal := moreland.SmoothBlueRed().Palette(255)
	hm := plotter.NewHeatMap(FieldGrid{Snap: snap}, pal)
	hm.Min, hm.Max = -limit, limit
	colors := pal.Colors()
	hm.Underflow, hm.Overflow = colors[0], colors[len(colors)-1]
	p.Add(hm)
	for _, r := range opts.Regions {
		x0, x1 := float64(r.Rect.X0)-0.5, float64(r.Rect.X1)-0.5
		y0, y1 := float64(r.Rect.Y0)-0.5, float64(r.Rect.Y1)-0.5
		if err := addOutline(p, x0, x1, y0, y1); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func addOutline(p *plot.Plot, x0, x1, y0, y1 float64) error {
	line, err := plotter.NewLine(plotter.XYs{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0},
	})
	if err != nil {
		return err
	}
	line.LineStyle.Color = outlineColor
	line.LineStyle.Width = vg.Points(1)
	p.Add(line)
	return nil
}

// WritePNG renders snap as a PNG into w.
func WritePNG(w io.Writer, snap *fdtd.Snapshot, opts Options) error {
	opts = opts.withDefaults()
	p, err := Plot(snap, opts)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(
		vgimg.UseWH(opts.Width, opts.Height),
		vgimg.UseDPI(opts.DPI),
	)
	p.Draw(draw.New(c))

	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}

func SavePNG(path string, snap *fdtd.Snapshot, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := WritePNG(bw, snap, opts); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
