package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Widget palette, shared with the platform widgets.
var (
	colorTeal      = lipgloss.Color("#009688")
	colorComplete  = lipgloss.Color("#4CAF50")
	colorSurfaceBg = lipgloss.Color("#F5F5F5")
	colorBoxEmpty  = lipgloss.Color("#E0E0E0")
	colorText      = lipgloss.Color("#000000")
	colorMuted     = lipgloss.Color("#808080")
)

// on gives a style the card surface background so inline segments don't
// punch holes in it.
func on(st lipgloss.Style) lipgloss.Style {
	return st.Background(colorSurfaceBg)
}

var (
	cardStyle     = lipgloss.NewStyle().Background(colorSurfaceBg).Foreground(colorText).Padding(0, 1)
	titleStyle    = on(lipgloss.NewStyle().Bold(true).Foreground(colorText))
	textStyle     = on(lipgloss.NewStyle().Foreground(colorText))
	mutedStyle    = on(lipgloss.NewStyle().Foreground(colorMuted))
	accentStyle   = on(lipgloss.NewStyle().Foreground(colorTeal))
	cursorStyle   = on(lipgloss.NewStyle().Foreground(colorTeal).Bold(true))
	boxEmptyStyle = on(lipgloss.NewStyle().Foreground(colorBoxEmpty))
)

// habitColor converts a stored ARGB habit color to a terminal color.
func habitColor(argb uint32) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%06X", argb&0xFFFFFF))
}

// barColor switches to the completion green once the goal is reached.
func barColor(complete bool) lipgloss.Color {
	if complete {
		return colorComplete
	}
	return colorTeal
}
