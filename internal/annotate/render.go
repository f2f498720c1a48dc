package annotate

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/textutil"
)

// RenderOptions carries learner state into the rendered controls.
type RenderOptions struct {
	// Answers pre-fills controls, keyed by blank_index.
	Answers map[int]string
	// Marks adds a feedback class (correct, incorrect, unanswered) to a
	// control, keyed by blank_index.
	Marks map[int]string
	// EmphasizeClues adds the extra-emphasis class to clue highlights.
	EmphasizeClues bool
}

// Render builds and renders an exercise passage as HTML.
func Render(ctx context.Context, ex *exercise.Exercise, opts Options, ropts RenderOptions) (string, []Warning) {
	doc, warnings := Build(ctx, ex, opts)
	return doc.HTML(ropts), warnings
}

// HTML renders the document. Every slot yields exactly one control wrapped
// in a blank-wrapper tagged with the blank's index. Newlines in passage
// text become <br>.
func (d *Document) HTML(opts RenderOptions) string {
	var b strings.Builder
	for _, seg := range d.Segments {
		if seg.Run != nil {
			d.writeRun(&b, seg.Run, opts)
			continue
		}
		d.writeSlot(&b, seg.Slot, opts)
	}
	return b.String()
}

func (d *Document) writeRun(b *strings.Builder, r *Run, opts RenderOptions) {
	highlightClass := "passage-clue-highlight"
	if opts.EmphasizeClues {
		highlightClass += " extra-emphasis"
	}
	for _, p := range r.Pieces() {
		if p.OpensHighlight {
			fmt.Fprintf(b, `<span class="%s">`, highlightClass)
		}
		if p.IsTerm() {
			writePOSTerm(b, p.Text, p.Label, true)
		} else {
			b.WriteString(textWithBreaks(p.Text))
		}
		if p.ClosesHighlight {
			b.WriteString("</span>")
		}
	}
}

func writePOSTerm(b *strings.Builder, text, label string, withAria bool) {
	t := textutil.EscapeHTML(text)
	l := textutil.EscapeHTML(label)
	if withAria {
		fmt.Fprintf(b, `<span class="word-pos-interactive" tabindex="0" role="button" aria-label="Part of speech for %s is %s">%s<span class="pos-tooltip">%s</span></span>`, t, l, t, l)
		return
	}
	fmt.Fprintf(b, `<span class="word-pos-interactive" tabindex="0" role="button">%s<span class="pos-tooltip">%s</span></span>`, t, l)
}

func textWithBreaks(s string) string {
	return strings.ReplaceAll(textutil.EscapeHTML(s), "\n", "<br>")
}

func (d *Document) writeSlot(b *strings.Builder, s *Slot, opts RenderOptions) {
	idx := s.Blank.BlankIndex
	answer := opts.Answers[idx]
	mark := opts.Marks[idx]

	fmt.Fprintf(b, `<span class="blank-wrapper" data-blank-index="%d">`, idx)
	switch d.Type {
	case exercise.TypeDND:
		class := "blank dropzone"
		title := "Drop a word here"
		content := "&nbsp;"
		if answer != "" {
			class += " filled"
			title = "Click to remove this word"
			content = textutil.EscapeHTML(answer)
		}
		if mark != "" {
			class += " " + mark
		}
		fmt.Fprintf(b, `<span class="%s" data-blank-index="%d" data-correct-answer="%s" aria-label="Drop area for blank %d" role="region" title="%s" tabindex="0">%s</span>`,
			class, idx, textutil.EscapeHTML(s.Blank.CorrectAnswer), s.Position+1, title, content)
	default:
		class := "fib-dropdown"
		if mark != "" {
			class += " " + mark
		}
		fmt.Fprintf(b, `<select class="%s" data-blank-index="%d" aria-label="Answer for blank %d">`, class, idx, s.Position+1)
		b.WriteString(`<option value="">Select...</option>`)
		for _, opt := range s.Blank.Options {
			text := textutil.EscapeHTML(opt)
			if d.POS {
				text = fmt.Sprintf("%s (%s)", text, textutil.EscapeHTML(d.optionLabel(opt)))
			}
			selected := ""
			if answer != "" && answer == opt {
				selected = " selected"
			}
			fmt.Fprintf(b, `<option value="%s"%s>%s</option>`, textutil.EscapeHTML(opt), selected, text)
		}
		b.WriteString("</select>")
	}
	if d.POS {
		fmt.Fprintf(b, `<span class="blank-pos-hint-tooltip">%s</span>`, textutil.EscapeHTML(d.SlotHint(s)))
	}
	b.WriteString("</span>")
}

// SlotHint is the expected part of speech shown beside a blank.
func (d *Document) SlotHint(s *Slot) string {
	if s.Blank.Hint != nil && s.Blank.Hint.POSTag != "" {
		return SimplifyTags(s.Blank.Hint.POSTag)
	}
	if d.Type == exercise.TypeFIBRW {
		return "Select"
	}
	return "Word"
}

func (d *Document) optionLabel(word string) string {
	if l, ok := d.OptionLabels[word]; ok {
		return l
	}
	return "Word"
}

// OptionLabel returns the POS label of an option, or "" when POS is off.
func (d *Document) OptionLabel(word string) string {
	if !d.POS {
		return ""
	}
	return d.optionLabel(word)
}

// PoolHTML renders the drag-and-drop word pool.
func (d *Document) PoolHTML(words []string) string {
	var b strings.Builder
	b.WriteString(`<div class="dnd-options">`)
	for _, w := range words {
		fmt.Fprintf(&b, `<div class="draggable-word" draggable="true" data-dnd-word="%s">`, textutil.EscapeHTML(w))
		if d.POS {
			writePOSTerm(&b, w, d.optionLabel(w), false)
		} else {
			b.WriteString(textutil.EscapeHTML(w))
		}
		b.WriteString("</div>")
	}
	b.WriteString("</div>")
	return b.String()
}
