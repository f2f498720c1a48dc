// Package feedback shows the per-blank explanation of a scored attempt.
package feedback

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/router"
	"github.com/abhisek/ptenav/internal/scoring"
	"github.com/abhisek/ptenav/internal/screen"
	"github.com/abhisek/ptenav/internal/screens/detail"
	"github.com/abhisek/ptenav/internal/ui/layout"
	"github.com/abhisek/ptenav/internal/ui/theme"
)

// FeedbackScreen lists every blank's outcome and expands the selected one.
type FeedbackScreen struct {
	title    string
	report   scoring.Report
	selected int
	// term is the focused key-term link inside the selected explanation.
	term   int
	status string
	// notice stays on screen, unlike status which clears on the next key.
	notice string
}

var _ screen.Screen = (*FeedbackScreen)(nil)
var _ screen.KeyHintProvider = (*FeedbackScreen)(nil)

// New creates a FeedbackScreen for a report.
func New(title string, report scoring.Report) *FeedbackScreen {
	return &FeedbackScreen{title: title, report: report}
}

// SetNotice shows a persistent warning under the score, such as a failed
// save of the attempt.
func (s *FeedbackScreen) SetNotice(text string) {
	s.notice = text
}

func (s *FeedbackScreen) Init() tea.Cmd {
	return nil
}

func (s *FeedbackScreen) Title() string {
	return "Feedback"
}

func (s *FeedbackScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Blank"}}
	if len(s.termIDs()) > 0 {
		hints = append(hints,
			layout.KeyHint{Key: "Tab", Description: "Term"},
			layout.KeyHint{Key: "Enter", Description: "Definition"},
		)
	}
	if s.pattern() != "" {
		hints = append(hints, layout.KeyHint{Key: "m", Description: "Master this concept"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *FeedbackScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	s.status = ""
	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
			s.term = 0
		}
	case "down", "j":
		if s.selected < len(s.report.Explanations)-1 {
			s.selected++
			s.term = 0
		}
	case "tab":
		if n := len(s.termIDs()); n > 0 {
			s.term = (s.term + 1) % n
		}
	case "shift+tab":
		if n := len(s.termIDs()); n > 0 {
			s.term = (s.term - 1 + n) % n
		}
	case "enter":
		ids := s.termIDs()
		if len(ids) == 0 {
			s.status = "No linked terms in this explanation."
			return s, nil
		}
		return s, s.open(scoring.LookupTerm(s.report.Resources, ids[s.term]))
	case "m":
		id := s.pattern()
		if id == "" {
			s.status = "No common error pattern for this answer."
			return s, nil
		}
		return s, s.open(scoring.LookupPattern(s.report.Resources, id))
	}
	return s, nil
}

func (s *FeedbackScreen) open(def scoring.Definition, err error) tea.Cmd {
	if err != nil {
		if errors.Is(err, scoring.ErrNotFound) {
			s.status = "Definition not available."
		} else {
			s.status = err.Error()
		}
		return nil
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail.New(def)}
	}
}

func (s *FeedbackScreen) current() (scoring.Explanation, bool) {
	if s.selected < 0 || s.selected >= len(s.report.Explanations) {
		return scoring.Explanation{}, false
	}
	return s.report.Explanations[s.selected], true
}

// sections returns the linked texts of an explanation in display order.
func sections(e scoring.Explanation) []scoring.LinkedText {
	out := []scoring.LinkedText{e.PrimaryReason}
	if e.Distractor != nil {
		out = append(out, e.Distractor.Reason)
	}
	out = append(out, e.Grammatical)
	out = append(out, e.Collocations...)
	return append(out, e.Semantic, e.LearningTip)
}

func (s *FeedbackScreen) termIDs() []string {
	e, ok := s.current()
	if !ok {
		return nil
	}
	var ids []string
	for _, t := range sections(e) {
		ids = append(ids, t.TermIDs()...)
	}
	return ids
}

func (s *FeedbackScreen) pattern() string {
	e, ok := s.current()
	if !ok || e.Distractor == nil {
		return ""
	}
	return e.Distractor.PatternID
}

func (s *FeedbackScreen) View(width, height int) string {
	cw := width - 8
	if cw > 96 {
		cw = 96
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  " + s.title))
	b.WriteString("\n")

	scoreStyle := theme.Correct
	if s.report.Result.Percentage < 50 {
		scoreStyle = theme.Incorrect
	}
	line := "  Score: " + scoreStyle.Render(s.report.Result.String())
	if s.report.ShowTimer {
		line += lipgloss.NewStyle().Foreground(theme.TextDim).
			Render("    Time taken: " + scoring.FormatElapsed(s.report.Elapsed))
	}
	b.WriteString(line)
	b.WriteString("\n")
	if s.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("  " + s.notice))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("  " + strings.Repeat("─", cw)))
	b.WriteString("\n")

	for i, e := range s.report.Explanations {
		b.WriteString(s.renderRow(i, e))
		b.WriteString("\n")
		if i == s.selected {
			b.WriteString(s.renderDetail(e, cw))
		}
	}

	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Render("  " + s.status))
	}

	return b.String()
}

func (s *FeedbackScreen) renderRow(i int, e scoring.Explanation) string {
	prefix := "  "
	if i == s.selected {
		prefix = "▸ "
	}
	answer := e.Answer
	if answer == "" {
		answer = "(no answer)"
	}

	var mark string
	switch e.Outcome {
	case scoring.Correct:
		mark = theme.Correct.Render("✓")
	case scoring.Incorrect:
		mark = theme.Incorrect.Render("✗")
	default:
		mark = lipgloss.NewStyle().Foreground(theme.TextDim).Render("–")
	}

	text := fmt.Sprintf("%sBlank %d  %s  %s", prefix, e.Number, mark, answer)
	if e.ShowCorrect {
		text += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  → ") + theme.Correct.Render(e.CorrectAnswer)
	}
	if e.ConfidenceLabel != "" {
		text += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  [" + e.ConfidenceLabel + "]")
	}
	if i == s.selected {
		return theme.Selected.Render(text)
	}
	return text
}

func (s *FeedbackScreen) renderDetail(e scoring.Explanation, cw int) string {
	var b strings.Builder
	label := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 6).PaddingLeft(6)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).PaddingLeft(6)

	if e.Insight != nil {
		b.WriteString(dim.Render(e.Insight.Message))
		b.WriteString("\n")
	}
	if e.NoAnalysis {
		b.WriteString(dim.Render("No detailed analysis for this blank."))
		b.WriteString("\n\n")
		return b.String()
	}

	offset := 0
	write := func(title string, t scoring.LinkedText) {
		if t.Empty() {
			return
		}
		n := len(t.TermIDs())
		b.WriteString("    " + label.Render(title) + "\n")
		b.WriteString(body.Render(detail.RenderLinked(t.Segments, s.term-offset)))
		b.WriteString("\n")
		offset += n
	}

	write("Why", e.PrimaryReason)
	if e.Distractor != nil {
		write("Why not \""+e.Distractor.Option+"\"", e.Distractor.Reason)
		if e.Distractor.Pattern != nil {
			b.WriteString(dim.Render("Common error: " + e.Distractor.Pattern.Name + "  (press m)"))
			b.WriteString("\n")
		}
	}
	if e.HasDeeperDive() {
		if e.POS != "" {
			b.WriteString("    " + label.Render("Part of speech") + "  " + e.POS + "\n")
		}
		write("Grammatical fit", e.Grammatical)
		for _, c := range e.Collocations {
			write("Collocation", c)
		}
		write("Meaning", e.Semantic)
	}
	write("Tip", e.LearningTip)
	if len(e.SkillTags) > 0 {
		b.WriteString(dim.Render("Skills: " + strings.Join(e.SkillTags, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
