// Package detail shows a key-term definition or a common error pattern.
package detail

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/annotate"
	"github.com/abhisek/ptenav/internal/router"
	"github.com/abhisek/ptenav/internal/scoring"
	"github.com/abhisek/ptenav/internal/screen"
	"github.com/abhisek/ptenav/internal/ui/layout"
	"github.com/abhisek/ptenav/internal/ui/theme"
)

// DetailScreen renders one Definition.
type DetailScreen struct {
	def scoring.Definition
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// New creates a DetailScreen.
func New(def scoring.Definition) *DetailScreen {
	return &DetailScreen{def: def}
}

func (d *DetailScreen) Init() tea.Cmd { return nil }
func (d *DetailScreen) Title() string { return d.def.Title }

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "q":
			return d, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return d, nil
}

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (d *DetailScreen) View(width, height int) string {
	contentWidth := width - 8
	if contentWidth > 76 {
		contentWidth = 76
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  " + d.def.Title))
	b.WriteString("\n\n")

	body := "No definition available."
	if !d.def.Body.Empty() {
		body = RenderLinked(d.def.Body.Segments, -1)
	}
	b.WriteString(lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(theme.Text).
		PaddingLeft(2).
		Render(body))
	b.WriteString("\n")

	if len(d.def.Examples) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Render("  Examples"))
		b.WriteString("\n")
		dim := lipgloss.NewStyle().Foreground(theme.TextDim).Width(contentWidth).PaddingLeft(2)
		for _, ex := range d.def.Examples {
			b.WriteString(dim.Render("• " + ex))
			b.WriteString("\n")
		}
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		"\n"+b.String())
}

// RenderLinked styles key-term references. The term at position focus,
// counted over linked segments only, is shown as selected; -1 selects none.
func RenderLinked(segs []annotate.Linked, focus int) string {
	var b strings.Builder
	n := 0
	for _, s := range segs {
		if s.TermID == "" {
			b.WriteString(s.Text)
			continue
		}
		style := theme.TermLink
		if n == focus {
			style = theme.Selected.Underline(true)
		}
		b.WriteString(style.Render(s.Text))
		n++
	}
	return b.String()
}
