package viz

import (
	"math"
	"strings"
)

const brailleBlank = 0x2800

// Braille cells are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid addressed in dot coordinates, (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, dotBits[y%4][x%2], true
}

func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] &^= bit
	}
}

// IsSet reports whether the dot at (x, y) is raised.
func (c *Canvas) IsSet(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DotY maps v in [-limit, limit] to a dot row, +limit at the top. Values
// outside the range are clamped to the edge rows.
func (c *Canvas) DotY(v, limit float64) int {
	_, h := c.Dots()
	if !(limit > 0) {
		limit = 1
	}
	if math.IsNaN(v) {
		v = 0
	}
	t := (v/limit + 1) / 2
	t = math.Max(0, math.Min(1, t))
	return int(math.Round((1 - t) * float64(h-1)))
}

// PlotProfile draws the field as a polyline across the full width with a
// dotted zero axis. Cells are resampled to the dot width.
func (c *Canvas) PlotProfile(values []float64, limit float64) {
	c.Clear()
	w, _ := c.Dots()
	zero := c.DotY(0, limit)
	for x := 0; x < w; x += 2 {
		c.Set(x, zero)
	}
	if len(values) == 0 {
		return
	}

	prevX, prevY := -1, 0
	for x := 0; x < w; x++ {
		k := 0
		if w > 1 {
			k = x * (len(values) - 1) / (w - 1)
		}
		y := c.DotY(values[k], limit)
		if prevX >= 0 {
			c.DrawLine(prevX, prevY, x, y)
		} else {
			c.Set(x, y)
		}
		prevX, prevY = x, y
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
