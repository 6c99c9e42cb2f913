package render

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"
	"os"

	"gonum.org/v1/plot/palette/moreland"

	"github.com/san-kum/fdtdsim/internal/fdtd"
)

const (
	// DefaultGain amplifies Ez before clamping to [-1, 1], so that the weak
	// scattered field stays visible.
	DefaultGain = 10.0
	// FrameDelay is the GIF delay per frame in 1/100 s (20 fps).
	FrameDelay = 5

	profileHeight = 120
	levels        = 254
	edgeIndex     = levels
	backIndex     = levels + 1
)

// framePalette is the diverging blue/red ramp plus yellow for material edges
// and black for the 1D background.
var framePalette = func() color.Palette {
	ramp := moreland.SmoothBlueRed().Palette(levels).Colors()
	pal := make(color.Palette, 0, levels+2)
	pal = append(pal, ramp...)
	pal = append(pal, color.RGBA{R: 255, G: 255, A: 255}, color.Black)
	return pal
}()

type FrameOptions struct {
	Gain    float64
	Scale   int // pixels per cell
	Regions []fdtd.Region
}

func (o FrameOptions) withDefaults() FrameOptions {
	if o.Gain == 0 {
		o.Gain = DefaultGain
	}
	if o.Scale < 1 {
		o.Scale = 1
	}
	return o
}

// level maps a field value to a palette index after gain and clamp.
func level(v, gain float64) uint8 {
	if math.IsNaN(v) {
		v = 0
	}
	v = math.Max(-1, math.Min(1, v*gain))
	return uint8(math.Round((v + 1) / 2 * (levels - 1)))
}

func onEdge(regions []fdtd.Region, i, j int, dims int) bool {
	for _, r := range regions {
		if i == r.Rect.X0 || i == r.Rect.X1 {
			if dims == 1 || j >= r.Rect.Y0 && j < r.Rect.Y1 {
				return true
			}
		}
		if dims == 2 && (j == r.Rect.Y0 || j == r.Rect.Y1) && i >= r.Rect.X0 && i <= r.Rect.X1 {
			return true
		}
	}
	return false
}

// Frame draws one snapshot. 2D grids map each cell to a Scale×Scale block
// (row j at the top for j = 0); 1D grids draw the profile as a trace over a
// black strip.
func Frame(snap *fdtd.Snapshot, opts FrameOptions) *image.Paletted {
	opts = opts.withDefaults()
	s := opts.Scale
	nx := snap.Shape.Nx

	if snap.Shape.Dims() == 1 {
		img := image.NewPaletted(image.Rect(0, 0, nx*s, profileHeight), framePalette)
		for k := range img.Pix {
			img.Pix[k] = backIndex
		}
		mid := float64(profileHeight-1) / 2
		for i := 0; i < nx; i++ {
			v := math.Max(-1, math.Min(1, snap.Ez[i]*opts.Gain))
			if math.IsNaN(v) {
				v = 0
			}
			row := int(math.Round(mid - v*mid))
			idx := level(snap.Ez[i], opts.Gain)
			if onEdge(opts.Regions, i, 0, 1) {
				for y := 0; y < profileHeight; y++ {
					for dx := 0; dx < s; dx++ {
						img.SetColorIndex(i*s+dx, y, edgeIndex)
					}
				}
			}
			lo, hi := row, int(mid)
			if lo > hi {
				lo, hi = hi, lo
			}
			for y := lo; y <= hi; y++ {
				for dx := 0; dx < s; dx++ {
					img.SetColorIndex(i*s+dx, y, idx)
				}
			}
		}
		return img
	}

	ny := snap.Shape.Ny
	img := image.NewPaletted(image.Rect(0, 0, nx*s, ny*s), framePalette)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			idx := level(snap.At(i, j), opts.Gain)
			if onEdge(opts.Regions, i, j, 2) {
				idx = edgeIndex
			}
			for dy := 0; dy < s; dy++ {
				for dx := 0; dx < s; dx++ {
					img.SetColorIndex(i*s+dx, j*s+dy, idx)
				}
			}
		}
	}
	return img
}

// WriteGIF encodes frames as an animation that loops forever.
func WriteGIF(w io.Writer, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, FrameDelay)
	}
	return gif.EncodeAll(w, &anim)
}

func SaveGIF(path string, frames []*image.Paletted) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGIF(f, frames); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
