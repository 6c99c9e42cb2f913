// Package export writes field profiles and probe traces as standalone SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/san-kum/fdtdsim/internal/fdtd"
)

const (
	background = "#0a0a0a"
	axisColor  = "#444466"
	slabColor  = "#ffd700"
	padFrac    = 0.1
)

// Point is one vertex of a trace in data coordinates.
type Point struct{ X, Y float64 }

// ProfileToSVG draws a 1D Ez profile over the symmetric range [-limit, limit]
// with a zero axis. Material regions are shaded behind the curve.
func ProfileToSVG(ez fdtd.Field, regions []fdtd.Region, limit float64, width, height int, stroke string) string {
	if len(ez) < 2 {
		return ""
	}
	if !(limit > 0) {
		limit = math.Max(ez.MaxAbs(), 1e-12)
	}
	n := float64(len(ez) - 1)
	sx := func(i float64) float64 { return i / n * float64(width) }
	sy := func(v float64) float64 {
		v = math.Max(-limit, math.Min(limit, v))
		return float64(height) * (0.5 - v/(2*limit))
	}

	var sb strings.Builder
	header(&sb, width, height)
	for _, r := range regions {
		x0, x1 := sx(float64(r.Rect.X0)), sx(float64(r.Rect.X1-1))
		fmt.Fprintf(&sb, `<rect x="%.1f" y="0" width="%.1f" height="%d" fill="%s" fill-opacity="0.15"/>
`, x0, math.Max(x1-x0, 1), height, slabColor)
	}
	fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="4 4"/>
`, sy(0), width, sy(0), axisColor)

	pts := make([]Point, len(ez))
	for i, v := range ez {
		if math.IsNaN(v) {
			v = 0
		}
		pts[i] = Point{X: sx(float64(i)), Y: sy(v)}
	}
	path(&sb, pts, stroke)
	sb.WriteString("</svg>")
	return sb.String()
}

// TraceToSVG draws a probe time series against the step index, scaled to its
// own bounds plus a 10% margin.
func TraceToSVG(series []float64, width, height int, stroke string) string {
	pts := make([]Point, len(series))
	for i, v := range series {
		pts[i] = Point{X: float64(i), Y: v}
	}
	return PointsToSVG(pts, width, height, stroke)
}

// PointsToSVG fits a polyline into width x height. Non-finite points are
// skipped; fewer than two usable points give "".
func PointsToSVG(points []Point, width, height int, stroke string) string {
	pts := make([]Point, 0, len(points))
	for _, p := range points {
		if finite(p.X) && finite(p.Y) {
			pts = append(pts, p)
		}
	}
	if len(pts) < 2 {
		return ""
	}

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * padFrac
	rangeY *= 1 + 2*padFrac

	scaled := make([]Point, len(pts))
	for i, p := range pts {
		scaled[i] = Point{
			X: (p.X - minX) / rangeX * float64(width),
			Y: float64(height) - (p.Y-minY)/rangeY*float64(height),
		}
	}

	var sb strings.Builder
	header(&sb, width, height)
	path(&sb, scaled, stroke)
	sb.WriteString("</svg>")
	return sb.String()
}

// Save writes an SVG document to path.
func Save(path, svg string) error {
	if svg == "" {
		return fmt.Errorf("export: nothing to draw")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, svg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func path(sb *strings.Builder, pts []Point, stroke string) {
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, p := range pts {
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(sb, "%.1f,%.1f", p.X, p.Y)
	}
	sb.WriteString("\"/>\n")
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
