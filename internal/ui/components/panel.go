package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked panels.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 96 {
		w = 96
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a rounded-border box at the given content width.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(0, 1).
		Render(content)
}

// Badge renders a short colored label.
func Badge(label string, c color.Color) string {
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("[" + label + "]")
}
