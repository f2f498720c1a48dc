// Package message is a static screen for empty states and one-off notes.
package message

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/screen"
	"github.com/abhisek/ptenav/internal/ui/theme"
)

// MessageScreen shows a centered block of text.
type MessageScreen struct {
	title string
	body  string
}

var _ screen.Screen = (*MessageScreen)(nil)

// New creates a MessageScreen.
func New(title, body string) *MessageScreen {
	return &MessageScreen{title: title, body: body}
}

// NoExercises is shown when nothing has been imported yet.
func NoExercises() *MessageScreen {
	return New("No Exercises",
		"╌╌ Nothing to practice yet ╌╌\n\nImport an exercise bundle first:\n\n  ptenav import exercises.json\n\nThen come back here.")
}

func (m *MessageScreen) Init() tea.Cmd {
	return nil
}

func (m *MessageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return m, nil
}

func (m *MessageScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(m.body)
}

func (m *MessageScreen) Title() string {
	return m.title
}
