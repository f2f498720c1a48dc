package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/ui/theme"
)

// OptionList shows the choices of one blank. Labels, when set, are shown
// beside each option. After scoring, Correct marks the right option.
type OptionList struct {
	Options  []string
	Labels   []string
	Chosen   string
	Correct  string
	Revealed bool
	Numbered bool
}

// View renders the options on one line.
func (o OptionList) View() string {
	parts := make([]string, 0, len(o.Options))
	for i, opt := range o.Options {
		text := opt
		if i < len(o.Labels) && o.Labels[i] != "" {
			text += " " + theme.POSLabel.Render("("+o.Labels[i]+")")
		}
		if o.Numbered && i < 9 {
			text = fmt.Sprintf("%d) %s", i+1, text)
		}

		chosen := strings.EqualFold(opt, o.Chosen)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case o.Revealed && strings.EqualFold(opt, o.Correct):
			style = theme.Correct
		case o.Revealed && chosen:
			style = theme.Incorrect
		case chosen:
			style = theme.Selected
			text = "▸ " + text
		}
		parts = append(parts, style.Render(text))
	}
	return strings.Join(parts, "   ")
}
