package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fdtdsim/internal/fdtd"
	"github.com/san-kum/fdtdsim/internal/render"
)

const (
	historyCapacity = 200
	defaultWidth    = 64
	defaultHeight   = 20
	statsWidth      = 36
	minGain         = 1.0 / 16
	maxGain         = 1024
)

// FrameMsg carries a snapshot from the simulation goroutine.
type FrameMsg struct{ Snap *fdtd.Snapshot }

// DoneMsg reports the end of the simulation goroutine.
type DoneMsg struct{ Err error }

type Options struct {
	Title   string
	Steps   int // 0 for open-ended runs
	Regions []fdtd.Region
	Gate    *Gate
	Theme   string
	Gain    float64
	GIFDir  string // where G recordings are written, "." if empty
}

// Model is the live view. It never steps the engine: frames arrive as
// FrameMsg via Program.Send and the pause key flips the shared Gate.
type Model struct {
	opts   Options
	theme  Theme
	styles Styles
	canvas *Canvas
	width  int
	height int
	gain   float64

	snap     *fdtd.Snapshot
	energy   []float64
	frames   int
	done     bool
	err      error
	showHelp bool
	status   string

	recorder *render.Recorder
}

func NewModel(opts Options) Model {
	if opts.Gate == nil {
		opts.Gate = NewGate()
	}
	gain := opts.Gain
	if !(gain > 0) {
		gain = 1
	}
	theme := GetTheme(opts.Theme)
	return Model{
		opts:   opts,
		theme:  theme,
		styles: NewStyles(theme),
		canvas: NewCanvas(defaultWidth, defaultHeight),
		width:  defaultWidth,
		height: defaultHeight,
		gain:   gain,
		energy: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width-statsWidth-4, msg.Height-6)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.opts.Gate.SetPaused(false)
			return m, tea.Quit
		case " ", "space":
			if !m.done {
				m.opts.Gate.Toggle()
			}
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
		case "+", "=":
			m.gain = math.Min(m.gain*2, maxGain)
		case "-", "_":
			m.gain = math.Max(m.gain/2, minGain)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case FrameMsg:
		if msg.Snap == nil {
			break
		}
		m.snap = msg.Snap
		m.frames++
		m.energy = append(m.energy, msg.Snap.Energy())
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[1:]
		}
		if m.recorder != nil {
			m.recorder.OnStep(msg.Snap)
		}
	case DoneMsg:
		m.done = true
		m.err = msg.Err
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	if w < 16 {
		w = 16
	}
	if h < 6 {
		h = 6
	}
	m.width, m.height = w, h
	m.canvas = NewCanvas(w, h)
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = render.NewRecorder(m.opts.Regions)
		m.status = "recording"
		return
	}
	rec := m.recorder
	m.recorder = nil
	if len(rec.Images()) == 0 {
		m.status = "nothing recorded"
		return
	}
	dir := m.opts.GIFDir
	if dir == "" {
		dir = "."
	}
	path := fmt.Sprintf("%s/fdtd_%d.gif", strings.TrimRight(dir, "/"), time.Now().Unix())
	if err := rec.SaveGIF(path); err != nil {
		m.status = "gif: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %s (%d frames)", path, len(rec.Images()))
}

// Recording reports whether frames are being captured for a GIF.
func (m Model) Recording() bool { return m.recorder != nil }

func (m Model) Gain() float64 { return m.gain }
func (m Model) Theme() Theme   { return m.theme }
func (m Model) Done() bool     { return m.done }
func (m Model) Err() error     { return m.err }
func (m Model) Frames() int    { return m.frames }
func (m Model) Energy() []float64 {
	return append([]float64(nil), m.energy...)
}

func (m Model) limit() float64 { return 1 / m.gain }

func (m Model) inMaterial(shape fdtd.Shape, i, j int) bool {
	for _, r := range m.opts.Regions {
		if r.Rect.Contains(shape, i, j) {
			return true
		}
	}
	return false
}

// fieldView renders a 1D snapshot as a Braille profile and a 2D snapshot as
// signed shading, y up.
func (m Model) fieldView() string {
	if m.snap == nil {
		return strings.Repeat(strings.Repeat(" ", m.width)+"\n", m.height)
	}
	shape := m.snap.Shape
	if shape.Dims() == 1 {
		m.canvas.PlotProfile(m.snap.Ez, m.limit())
		return m.canvas.String()
	}

	var b strings.Builder
	for r := 0; r < m.height; r++ {
		j := (m.height - 1 - r) * shape.Ny / m.height
		for c := 0; c < m.width; c++ {
			i := c * shape.Nx / m.width
			b.WriteString(Shade(m.styles, m.theme, m.snap.At(i, j), m.limit(), m.inMaterial(shape, i, j)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return m.styles.Failed.Render("FAILED")
	case m.done:
		return m.styles.Paused.Render("DONE")
	case m.opts.Gate.Paused():
		return m.styles.Paused.Render("PAUSED")
	}
	return m.styles.Running.Render("RUNNING")
}

func (m Model) View() string {
	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "fdtd"
	}
	s.WriteString(m.styles.Header.Render(strings.ToUpper(title)) + "\n")
	s.WriteString(m.statusLine())
	if m.Recording() {
		s.WriteString(" " + m.styles.Failed.Render("● REC"))
	}
	s.WriteString("\n\n")

	step, energy, peak := 0, 0.0, 0.0
	if m.snap != nil {
		step = m.snap.Step
		energy = m.snap.Energy()
		peak = m.snap.Ez.MaxAbs()
	}
	row := func(label, value string) {
		s.WriteString(m.styles.Label.Render(label) + m.styles.Value.Render(value) + "\n")
	}
	if m.opts.Steps > 0 {
		row("Step", fmt.Sprintf("%d/%d", step, m.opts.Steps))
		s.WriteString(ProgressBar(step, m.opts.Steps, statsWidth-6) + "\n")
	} else {
		row("Step", fmt.Sprintf("%d", step))
	}
	row("Energy", fmt.Sprintf("%.4g", energy))
	row("max|Ez|", fmt.Sprintf("%.4g", peak))
	row("Gain", fmt.Sprintf("x%g", m.gain))
	row("Theme", m.theme.Name)

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(statsWidth-10), asciigraph.Caption("Energy"))
		s.WriteString("\n" + chart + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + m.styles.Failed.Render(m.err.Error()) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + m.status + "\n")
	}
	s.WriteString(m.styles.Help.Render("\nSP:Pause T:Theme G:Record\n+/-:Gain ?:Help Q:Quit"))

	fieldView := m.styles.Field.Render(strings.TrimSuffix(m.fieldView(), "\n"))
	statsView := m.styles.Panel.Width(statsWidth).Render(s.String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, fieldView, statsView)
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  Space  pause / resume stepping
  T      cycle themes
  + / -  double / halve display gain
  G      start / stop GIF recording
  ?      toggle this help
  Q      quit
`
