// Package stats shows the learner's progress and edits their settings.
package stats

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/router"
	"github.com/abhisek/ptenav/internal/screen"
	"github.com/abhisek/ptenav/internal/settings"
	"github.com/abhisek/ptenav/internal/stats"
	"github.com/abhisek/ptenav/internal/ui/components"
	"github.com/abhisek/ptenav/internal/ui/layout"
	"github.com/abhisek/ptenav/internal/ui/theme"
	"github.com/abhisek/ptenav/internal/workspace"
)

// SettingsChangedMsg is emitted after any setting was changed.
type SettingsChangedMsg struct{}

var settingLabels = map[string]string{
	"theme":                "Theme",
	"fontSize":             "Font size",
	"animationsEnabled":    "Animations",
	"highContrastEnabled":  "High contrast",
	"dyslexicFontEnabled":  "Dyslexia-friendly font",
	"autoSaveProgress":     "Auto-save progress",
	"showExerciseTimer":    "Show exercise timer",
	"showDifficultyLevels": "Show difficulty levels",
}

// StatsScreen shows the stats summary above the settings editor.
type StatsScreen struct {
	ws   *workspace.Workspace
	keys []string
	menu components.Menu

	confirmReset bool
	status       string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)
var _ screen.InputCapturer = (*StatsScreen)(nil)

// New creates a StatsScreen over the workspace.
func New(ws *workspace.Workspace) *StatsScreen {
	s := &StatsScreen{ws: ws, keys: settings.Keys()}
	items := make([]components.MenuItem, len(s.keys))
	for i, key := range s.keys {
		items[i] = components.MenuItem{Action: s.cycle(key)}
	}
	s.menu = components.NewMenu(items)
	s.refreshLabels()
	return s
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) Title() string {
	return "Stats & Settings"
}

// CapturingInput keeps esc inside the screen while a reset is being
// confirmed.
func (s *StatsScreen) CapturingInput() bool {
	return s.confirmReset
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	if s.confirmReset {
		return []layout.KeyHint{
			{Key: "y", Description: "Reset"},
			{Key: "n", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Change"},
		{Key: "d", Description: "Defaults"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) cycle(key string) func() tea.Cmd {
	return func() tea.Cmd {
		if err := s.ws.CycleSetting(context.Background(), key); err != nil {
			s.status = "Setting not saved: " + err.Error()
		}
		return changed
	}
}

func changed() tea.Msg {
	return SettingsChangedMsg{}
}

func (s *StatsScreen) refreshLabels() {
	set := s.ws.Settings()
	for i, key := range s.keys {
		value, _ := set.Get(key)
		if settings.IsBool(key) {
			if value == "true" {
				value = "on"
			} else {
				value = "off"
			}
		}
		s.menu.Items[i].Label = fmt.Sprintf("%-24s %s", settingLabels[key], value)
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.confirmReset {
		switch kmsg.String() {
		case "y", "Y":
			s.confirmReset = false
			if err := s.ws.ResetSettings(context.Background()); err != nil {
				s.status = "Settings not saved: " + err.Error()
			} else {
				s.status = "Settings restored to defaults."
			}
			s.refreshLabels()
			return s, changed
		case "n", "N", "esc":
			s.confirmReset = false
		}
		return s, nil
	}

	switch kmsg.String() {
	case "esc", "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "d":
		s.confirmReset = true
		return s, nil
	case " ", "space":
		kmsg = tea.KeyPressMsg{Code: tea.KeyEnter}
	}

	s.status = ""
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(kmsg)
	s.refreshLabels()
	return s, cmd
}

func (s *StatsScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 64)
	st := s.ws.Stats()
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	val := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)

	total := len(s.ws.Exercises())
	done := 0
	for _, ex := range s.ws.Exercises() {
		if st.IsCompleted(ex.ID) {
			done++
		}
	}
	var pct float64
	if total > 0 {
		pct = float64(done) / float64(total)
	}

	var summary strings.Builder
	summary.WriteString(components.NewProgressBar(fmt.Sprintf("Completed %d/%d", done, total), pct, true, cw-4).View())
	summary.WriteString("\n\n")
	row := func(label, value string) {
		summary.WriteString(dim.Render(fmt.Sprintf("%-18s", label)) + val.Render(value) + "\n")
	}
	avg := "–"
	if st.TotalAttempts > 0 {
		avg = fmt.Sprintf("%d%%", st.AverageScore())
	}
	row("Average score", avg)
	row("Scored attempts", fmt.Sprintf("%d", st.TotalAttempts))
	row("Daily streak", fmt.Sprintf("%d", st.DailyStreak))
	row("Study time", stats.FormatStudyTime(s.ws.Clock().Total))
	last := st.LastLoginDate
	if last == "" {
		last = "never"
	}
	row("Last visit", last)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Progress"))
	b.WriteString("\n")
	b.WriteString(components.Panel(strings.TrimRight(summary.String(), "\n"), cw))
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(cw).Render("Settings"))
	b.WriteString("\n")
	b.WriteString(components.Panel(strings.TrimRight(s.menu.View(), "\n"), cw))

	if s.confirmReset {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render("Restore default settings? (y/n)"))
	}
	if s.status != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Render(s.status))
	}

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(b.String())
}
