package viz

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are rebuilt from a Theme whenever the theme changes.
type Styles struct {
	Header   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Running  lipgloss.Style
	Paused   lipgloss.Style
	Failed   lipgloss.Style
	Help     lipgloss.Style
	Panel    lipgloss.Style
	Field    lipgloss.Style
	Material lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		Value:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Running: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
		Paused:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
		Failed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444")),
		Help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		Field: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent),
		Material: lipgloss.NewStyle().Foreground(t.Material),
	}
}

// ShadeColor blends from Negative through Background to Positive as v runs
// over [-limit, limit].
func ShadeColor(t Theme, v, limit float64) lipgloss.Color {
	if !(limit > 0) {
		limit = 1
	}
	x := v / limit
	if math.IsNaN(x) {
		x = 0
	}
	x = math.Max(-1, math.Min(1, x))
	if x < 0 {
		return blend(t.Background, t.Negative, -x)
	}
	return blend(t.Background, t.Positive, x)
}

// shadeRunes runs from faint to solid.
var shadeRunes = []rune{' ', '░', '▒', '▓', '█'}

// Shade renders one cell of the signed field. Near-zero cells inside a
// material region show a dot in the material colour.
func Shade(s Styles, t Theme, v, limit float64, inMaterial bool) string {
	if !(limit > 0) {
		limit = 1
	}
	a := math.Abs(v) / limit
	if math.IsNaN(a) {
		a = 0
	}
	k := int(math.Round(math.Min(a, 1) * float64(len(shadeRunes)-1)))
	if k == 0 {
		if inMaterial {
			return s.Material.Render("·")
		}
		return " "
	}
	return lipgloss.NewStyle().Foreground(ShadeColor(t, v, limit)).Render(string(shadeRunes[k]))
}

// ProgressBar renders done/total as a fixed-width bar.
func ProgressBar(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := done * width / total
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	fr, fg, fb := parseHex(string(from))
	tr, tg, tb := parseHex(string(to))
	mix := func(a, b int) int { return int(math.Round(float64(a) + t*float64(b-a))) }
	return lipgloss.Color(hexColor(mix(fr, tr), mix(fg, tg), mix(fb, tb)))
}

// parseHex reads "#rrggbb"; anything else is white.
func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	clamp := func(v int) int { return max(0, min(255, v)) }
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
}
