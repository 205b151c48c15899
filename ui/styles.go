package ui

import "github.com/charmbracelet/lipgloss"

type markerRenderer interface {
	Render(...string) string
}

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("235"))

	statusStateStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("105")).
				Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// ansiColors maps the color names accepted in config to ANSI-256 codes.
var ansiColors = map[string]string{
	"black":   "0",
	"red":     "196",
	"green":   "82",
	"yellow":  "226",
	"blue":    "33",
	"magenta": "201",
	"cyan":    "51",
	"white":   "255",
}

// highlightStyle builds the active-segment style for a configured color.
// Unknown names are passed through, so ANSI codes and hex values work.
func highlightStyle(color string) markerRenderer {
	code, ok := ansiColors[color]
	if !ok {
		code = color
	}
	if code == "" {
		code = ansiColors["yellow"]
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(code)).
		Foreground(lipgloss.Color("0"))
}
