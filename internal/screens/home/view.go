package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/stats"
	"github.com/abhisek/ptenav/internal/ui/components"
	"github.com/abhisek/ptenav/internal/ui/theme"
)

const homeTitle = "P · T · E · N · A · V"

func (h *HomeScreen) View(width, height int) string {
	h.syncCursor()
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw))
	sections = append(sections, h.renderStatsBar(cw))
	sections = append(sections, h.renderFilters(cw))

	// Title, stats box, filters and their gaps take roughly 10 lines.
	rows := height - 12
	if h.status != "" {
		rows -= 2
	}
	sections = append(sections, h.renderList(cw, max(rows, 3)))
	if h.status != "" {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).
			Foreground(theme.Warning).
			Render(h.status))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(content)
}

func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Accent).
		Bold(true).
		Render(homeTitle)
}

// renderStatsBar renders the headline stats in a double-bordered box.
func (h *HomeScreen) renderStatsBar(cw int) string {
	st := h.deps.Workspace.Stats()
	total := len(h.deps.Workspace.Exercises())
	done := 0
	for _, ex := range h.deps.Workspace.Exercises() {
		if st.IsCompleted(ex.ID) {
			done++
		}
	}

	accent := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	second := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	prim := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	avg := dim.Render("– AVG")
	if st.TotalAttempts > 0 {
		avg = prim.Render(fmt.Sprintf("%d%% AVG", st.AverageScore()))
	}
	line := strings.Join([]string{
		second.Render(fmt.Sprintf("✓ %d/%d DONE", done, total)),
		avg,
		accent.Render(fmt.Sprintf("★ %d DAY STREAK", st.DailyStreak)),
		dim.Render("◷ " + stats.FormatStudyTime(h.deps.Workspace.Clock().Total)),
	}, "  ")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

func (h *HomeScreen) renderFilters(cw int) string {
	search := h.search.View()
	if !h.search.Focused() && !h.searchActive() {
		search = lipgloss.NewStyle().Foreground(theme.TextDim).Render("/ to search")
	}
	line := h.tabs.View() + "    " + search
	return lipgloss.NewStyle().Width(cw).Render(line)
}

// renderList draws a window of the filtered list around the cursor.
func (h *HomeScreen) renderList(cw, rows int) string {
	list := h.nav().List()
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if len(list) == 0 {
		text := "No exercises match. Try another tab or search."
		if len(h.deps.Workspace.Exercises()) == 0 {
			text = "No exercises loaded. Press enter for help importing."
		}
		return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Italic(true).
			Foreground(theme.TextDim).Render(text)
	}

	start := 0
	if h.cursor >= rows {
		start = h.cursor - rows + 1
	}
	end := min(start+rows, len(list))

	showDifficulty := h.deps.Workspace.Settings().ShowDifficultyLevels
	var lines []string
	if start > 0 {
		lines = append(lines, dim.Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		lines = append(lines, h.renderRow(list[i], i == h.cursor, i == h.nav().Index(), showDifficulty))
	}
	if end < len(list) {
		lines = append(lines, dim.Render(fmt.Sprintf("  ↓ %d more", len(list)-end)))
	}
	lines = append(lines, dim.Render(fmt.Sprintf("  %d of %d exercises", len(list), len(h.deps.Workspace.Exercises()))))
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))
}

func (h *HomeScreen) renderRow(ex *exercise.Exercise, selected, current, showDifficulty bool) string {
	mark := "  "
	if h.completed(ex.ID) {
		mark = theme.Correct.Render("✓ ")
	}
	prefix := "  "
	style := theme.Unselected
	if selected {
		prefix = "▸ "
		style = theme.Selected
	}
	row := prefix + mark + style.Render(ex.Title)
	row += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + ex.Type.Label())
	if showDifficulty {
		label := ex.DifficultyLabel()
		row += "  " + components.Badge(label, theme.DifficultyColor(label))
	}
	if current && h.deps.Session.Exercise() != nil {
		row += lipgloss.NewStyle().Foreground(theme.Accent).Render("  ●")
	}
	return row
}
