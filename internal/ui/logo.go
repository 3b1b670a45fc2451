package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const asciiLogo = `
 _    _   _ __  __  ___  _  _
| |  | | | |  \/  |/ _ \| \| |
| |__| |_| | |\/| | (_) | .  |
|____|\___/|_|  |_|\___/|_|\_|
`

// smallLogo fits in the refinement header.
const smallLogo = "( LUMON )"

var logoGradient = []lipgloss.Color{"#FFD27A", "#FFC24D", "#FFB000", "#D99600"}

// GenerateLogo returns the gradient styled logo
func GenerateLogo() string {
	lines := strings.Split(strings.Trim(asciiLogo, "\n"), "\n")
	coloredLines := make([]string, 0, len(lines))

	for i, line := range lines {
		color := logoGradient[min(i, len(logoGradient)-1)]
		style := lipgloss.NewStyle().Foreground(color).Bold(true)
		coloredLines = append(coloredLines, style.Render(line))
	}

	return strings.Join(coloredLines, "\n")
}

// HeaderLogo is the one-line logo for the refinement header.
func HeaderLogo() string {
	return lipgloss.NewStyle().
		Foreground(amber).
		Bold(true).
		Render(smallLogo)
}
