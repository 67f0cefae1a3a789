package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme defines the pager chrome colors and the chart series palette.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Border  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Axis    asciigraph.AnsiColor
	// Series maps a legend label (rk1, rk2, rk4) to its curve color.
	Series map[string]asciigraph.AnsiColor
}

var (
	// ThemeClassic keeps the usual plot colors: rk1 blue, rk2 green, rk4 red.
	ThemeClassic = Theme{
		Name:    "classic",
		Primary: lipgloss.Color("#00ffff"),
		Border:  lipgloss.Color("#444466"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Axis:    asciigraph.Default,
		Series: map[string]asciigraph.AnsiColor{
			"rk1": asciigraph.Blue,
			"rk2": asciigraph.Green,
			"rk4": asciigraph.Red,
		},
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#00a8cc"),
		Border:  lipgloss.Color("#4488aa"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Axis:    asciigraph.SteelBlue,
		Series: map[string]asciigraph.AnsiColor{
			"rk1": asciigraph.DeepSkyBlue,
			"rk2": asciigraph.Aquamarine,
			"rk4": asciigraph.Gold,
		},
	}

	ThemeMono = Theme{
		Name:    "mono",
		Primary: lipgloss.Color("#ffffff"),
		Border:  lipgloss.Color("#888888"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Axis:    asciigraph.Default,
		Series:  map[string]asciigraph.AnsiColor{},
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeOcean,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to ThemeClassic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// SeriesColor returns the color for a legend label; unknown labels use the
// terminal default.
func (t Theme) SeriesColor(label string) asciigraph.AnsiColor {
	if c, ok := t.Series[label]; ok {
		return c
	}
	return asciigraph.Default
}
