package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the live view. Positive and Negative are the
// ends of the signed field shading; Background is the zero level.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Material   lipgloss.Color
	Positive   lipgloss.Color
	Negative   lipgloss.Color
	Background lipgloss.Color
}

var (
	ThemeMoreland = Theme{
		Name:       "moreland",
		Primary:    lipgloss.Color("#ffffff"),
		Accent:     lipgloss.Color("#00ccff"),
		Muted:      lipgloss.Color("#666688"),
		Material:   lipgloss.Color("#ffd700"),
		Positive:   lipgloss.Color("#b40426"),
		Negative:   lipgloss.Color("#3b4cc0"),
		Background: lipgloss.Color("#1a1a1a"),
	}

	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Primary:    lipgloss.Color("#ff00ff"),
		Accent:     lipgloss.Color("#00ffff"),
		Muted:      lipgloss.Color("#666666"),
		Material:   lipgloss.Color("#ffff00"),
		Positive:   lipgloss.Color("#ff00ff"),
		Negative:   lipgloss.Color("#00ffff"),
		Background: lipgloss.Color("#0a0a0a"),
	}

	ThemeRetro = Theme{
		Name:       "retro",
		Primary:    lipgloss.Color("#00ff00"),
		Accent:     lipgloss.Color("#88ff88"),
		Muted:      lipgloss.Color("#005500"),
		Material:   lipgloss.Color("#ffff00"),
		Positive:   lipgloss.Color("#88ff88"),
		Negative:   lipgloss.Color("#008800"),
		Background: lipgloss.Color("#001100"),
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Primary:    lipgloss.Color("#e0f0ff"),
		Accent:     lipgloss.Color("#00a8cc"),
		Muted:      lipgloss.Color("#4488aa"),
		Material:   lipgloss.Color("#ffd700"),
		Positive:   lipgloss.Color("#ff6b6b"),
		Negative:   lipgloss.Color("#0077be"),
		Background: lipgloss.Color("#001a33"),
	}
)

var themes = []Theme{ThemeMoreland, ThemeCyberpunk, ThemeRetro, ThemeOcean}

// GetTheme returns the named theme, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
