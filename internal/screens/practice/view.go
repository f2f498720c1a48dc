package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/annotate"
	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/scoring"
	sess "github.com/abhisek/ptenav/internal/session"
	"github.com/abhisek/ptenav/internal/ui/components"
	"github.com/abhisek/ptenav/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	ex := s.sess.Exercise()
	if ex == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No exercise selected.")
	}
	if s.doc == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Preparing passage...")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(s.renderInfoLine(ex, width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("  " + strings.Repeat("─", cw)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		PaddingLeft(2).
		Foreground(theme.Text).
		Render(s.renderPassage()))
	b.WriteString("\n\n")

	b.WriteString(s.renderControls(ex))

	if s.confirmReset {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render("  Reset this exercise? Your answers will be discarded. (y/n)"))
	}
	if s.status != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Render("  " + s.status))
	}
	return b.String()
}

func (s *PracticeScreen) renderInfoLine(ex *exercise.Exercise, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + ex.Title)
	left += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + ex.Type.Label())

	set := s.deps.Settings()
	if set.ShowDifficultyLevels {
		label := ex.DifficultyLabel()
		left += "  " + components.Badge(label, theme.DifficultyColor(label))
	}

	nav := s.sess.Navigator()
	right := fmt.Sprintf("%d/%d", nav.Index()+1, nav.Len())
	if set.ShowExerciseTimer {
		right += "  ◷ " + scoring.FormatElapsed(s.sess.Elapsed())
	}
	var flags []string
	if s.pos {
		flags = append(flags, "POS")
	}
	if s.clues {
		flags = append(flags, "clues")
	}
	if len(flags) > 0 {
		right = "[" + strings.Join(flags, " ") + "]  " + right
	}
	right = lipgloss.NewStyle().Foreground(theme.TextDim).Render(right)

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		return left + "\n  " + right
	}
	return left + strings.Repeat(" ", pad) + right
}

// renderPassage draws runs and blank slots. Unbound slots follow the
// passage on their own line.
func (s *PracticeScreen) renderPassage() string {
	marks := s.sess.Marks()
	var b strings.Builder
	unboundStarted := false
	for _, seg := range s.doc.Segments {
		if seg.Run != nil {
			b.WriteString(s.renderRun(seg.Run))
			continue
		}
		if seg.Slot.Unbound && !unboundStarted {
			unboundStarted = true
			b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("More blanks: "))
		} else if seg.Slot.Unbound {
			b.WriteString(" ")
		}
		b.WriteString(s.renderSlot(seg.Slot, marks))
	}
	return b.String()
}

func (s *PracticeScreen) renderRun(r *annotate.Run) string {
	var b strings.Builder
	for _, p := range r.Pieces() {
		text := p.Text
		if s.clues && p.Highlight >= 0 {
			text = theme.Clue.Render(text)
		}
		b.WriteString(text)
		if s.doc.POS && p.IsTerm() {
			b.WriteString(theme.POSLabel.Render("/" + p.Label))
		}
	}
	return b.String()
}

func (s *PracticeScreen) renderSlot(slot *annotate.Slot, marks map[int]string) string {
	bi := slot.Blank.BlankIndex
	answer := s.sess.Answer(bi)
	label := answer
	if label == "" {
		label = "_____"
	}
	text := fmt.Sprintf("[%d: %s]", slot.Position+1, label)
	if s.doc.POS {
		text += theme.POSLabel.Render("/" + s.doc.SlotHint(slot))
	}

	focused := s.sess.Phase() != sess.PhaseScored && s.isFocused(slot)
	switch {
	case marks != nil && marks[bi] == scoring.Correct.String():
		return theme.Correct.Render(text + " ✓")
	case marks != nil && marks[bi] == scoring.Incorrect.String():
		return theme.Incorrect.Render(text + " ✗")
	case focused:
		return theme.BlankFocused.Render(text)
	case answer == "":
		return theme.BlankEmpty.Render(text)
	default:
		return theme.Blank.Render(text)
	}
}

func (s *PracticeScreen) isFocused(slot *annotate.Slot) bool {
	cur, ok := s.focused()
	return ok && cur == slot
}

func (s *PracticeScreen) renderControls(ex *exercise.Exercise) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder

	switch s.sess.Phase() {
	case sess.PhasePresenting:
		slot, ok := s.focused()
		if ex.Type == exercise.TypeDND {
			pool := s.sess.AvailableWords()
			b.WriteString(dim.Render("  Word pool:  "))
			if len(pool) == 0 {
				b.WriteString(dim.Render("(empty)"))
			}
			b.WriteString(s.optionList(pool, "").View())
		} else if ok {
			b.WriteString(dim.Render(fmt.Sprintf("  Blank %d:  ", slot.Position+1)))
			b.WriteString(s.optionList(slot.Blank.Options, s.sess.Answer(slot.Blank.BlankIndex)).View())
		}
		if ok && s.doc.POS {
			b.WriteString("\n" + dim.Render("  Expected: "+s.doc.SlotHint(slot)))
		}

	case sess.PhaseCollectingConfidence:
		bi, _ := s.sess.CurrentPrompt()
		n, total := s.sess.PromptPosition()
		slot, _ := s.focused()
		num := bi + 1
		if slot != nil {
			num = slot.Position + 1
		}
		b.WriteString(theme.Selected.Render(fmt.Sprintf("  How sure are you about blank %d (%q)?", num, s.sess.Answer(bi))))
		b.WriteString(dim.Render(fmt.Sprintf("  %d of %d", n, total)))
		b.WriteString("\n  ")
		for _, c := range []scoring.Confidence{scoring.Sure, scoring.BitSure, scoring.Guessing} {
			b.WriteString(theme.ButtonInactive.Render(fmt.Sprintf("[%c] %s", c[0], c.Label())))
		}

	case sess.PhaseScored:
		report, _ := s.sess.Result()
		style := theme.Correct
		if report.Result.Percentage < 50 {
			style = theme.Incorrect
		}
		b.WriteString("  Score: " + style.Render(report.Result.String()))
		if report.ShowTimer {
			b.WriteString(dim.Render("    Time taken: " + scoring.FormatElapsed(report.Elapsed)))
		}
		b.WriteString("\n" + dim.Render("  Press enter for detailed feedback."))
	}
	return b.String()
}

func (s *PracticeScreen) optionList(words []string, chosen string) components.OptionList {
	ol := components.OptionList{Options: words, Chosen: chosen, Numbered: true}
	if s.doc.POS {
		ol.Labels = make([]string, len(words))
		for i, w := range words {
			ol.Labels[i] = s.doc.OptionLabel(w)
		}
	}
	return ol
}
