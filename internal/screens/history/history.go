// Package history lists past attempts from the event log.
package history

import (
	"context"
	"fmt"
	"image/color"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/router"
	"github.com/abhisek/ptenav/internal/scoring"
	"github.com/abhisek/ptenav/internal/screen"
	"github.com/abhisek/ptenav/internal/store"
	"github.com/abhisek/ptenav/internal/ui/layout"
	"github.com/abhisek/ptenav/internal/ui/theme"
)

// pageSize bounds how many attempts are loaded.
const pageSize = 50

type historyLoadedMsg struct {
	Attempts []store.AttemptEvent
	Err      error
}

// HistoryScreen displays past attempts, most recent first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	title     func(exerciseID string) string
	attempts  []store.AttemptEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. title maps exercise ids to display
// titles; nil shows the ids.
func New(eventRepo store.EventRepo, title func(exerciseID string) string) *HistoryScreen {
	if title == nil {
		title = func(id string) string { return id }
	}
	return &HistoryScreen{
		eventRepo: eventRepo,
		title:     title,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		attempts, err := s.eventRepo.QueryAttempts(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, a := range s.attempts {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-28s  %s  %3d%% (%d/%d)",
			prefix,
			a.Timestamp.Local().Format("Jan 02, 2006 15:04"),
			truncate(s.title(a.ExerciseID), 28),
			scoring.FormatElapsed(time.Duration(a.ElapsedMs)*time.Millisecond),
			a.Score, a.Correct, a.Total)

		style := lipgloss.NewStyle().Foreground(scoreColor(a.Score))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range answerLines(a) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// answerLines lists the submitted answers with their confidence levels,
// in blank order.
func answerLines(a store.AttemptEvent) []string {
	if len(a.Answers) == 0 {
		return []string{"    No answers recorded"}
	}
	idx := make([]int, 0, len(a.Answers))
	for k := range a.Answers {
		idx = append(idx, k)
	}
	sort.Ints(idx)

	lines := make([]string, 0, len(idx))
	for _, k := range idx {
		line := fmt.Sprintf("    Blank %d: %s", k+1, a.Answers[k])
		if c, err := scoring.ParseConfidence(a.Confidence[k]); err == nil {
			line += "  [" + c.Label() + "]"
		}
		lines = append(lines, line)
	}
	return lines
}

func scoreColor(score int) color.Color {
	switch {
	case score >= 80:
		return theme.Success
	case score >= 50:
		return theme.Warning
	default:
		return theme.Error
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
