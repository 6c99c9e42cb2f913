package render

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/san-kum/fdtdsim/internal/fdtd"
)

// Recorder is a sim.Observer. It keeps a GIF frame per snapshot and, when Dir
// is set, also writes sim_<step>.png heat maps there. The first write error
// stops further PNG output and is reported by Err.
type Recorder struct {
	Frames  FrameOptions
	Plot    Options
	Dir     string
	MaxKeep int // 0 keeps every frame

	frames []*image.Paletted
	files  []string
	err    error
}

func NewRecorder(regions []fdtd.Region) *Recorder {
	return &Recorder{
		Frames: FrameOptions{Regions: regions, Scale: 2},
		Plot:   Options{Regions: regions},
	}
}

func (r *Recorder) OnStep(snap *fdtd.Snapshot) {
	if r.MaxKeep <= 0 || len(r.frames) < r.MaxKeep {
		r.frames = append(r.frames, Frame(snap, r.Frames))
	}
	if r.Dir == "" || r.err != nil {
		return
	}
	path := filepath.Join(r.Dir, fmt.Sprintf("sim_%04d.png", snap.Step))
	if err := SavePNG(path, snap, r.Plot); err != nil {
		r.err = err
		return
	}
	r.files = append(r.files, path)
}

func (r *Recorder) Images() []*image.Paletted { return r.frames }
func (r *Recorder) Files() []string           { return r.files }
func (r *Recorder) Err() error                { return r.err }

// SaveGIF writes every kept frame as an animation.
func (r *Recorder) SaveGIF(path string) error {
	return SaveGIF(path, r.frames)
}
