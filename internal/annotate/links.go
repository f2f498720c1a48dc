package annotate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/textutil"
)

// Linked is a fragment of hint text; TermID is set when the fragment is a
// reference to a key term.
type Linked struct {
	Text   string
	TermID string
}

type termMatch struct {
	Span
	id string
}

// LinkSegments finds key-term references in plain text. Longer term names
// claim text first; matches are case-insensitive and must sit on word
// boundaries. A shorter term never matches inside a longer one.
func LinkSegments(text string, res *exercise.Resources) []Linked {
	if text == "" {
		return nil
	}
	if res.IsEmpty() {
		return []Linked{{Text: text}}
	}

	var claimed []termMatch
	for _, id := range res.TermIDs() {
		name := res.KeyTerms[id].DisplayName()
		if name == "" {
			continue
		}
		pos := 0
		for {
			idx := textutil.IndexFold(text, name, pos)
			if idx < 0 {
				break
			}
			pos = idx + len(name)
			m := termMatch{Span: Span{Start: idx, End: idx + len(name)}, id: id}
			if !textutil.WordBoundaryAt(text, m.Start, m.End) || overlapsAny(claimed, m.Span) {
				pos = idx + 1
				continue
			}
			claimed = append(claimed, m)
		}
	}
	sort.Slice(claimed, func(i, j int) bool { return claimed[i].Start < claimed[j].Start })

	var out []Linked
	cursor := 0
	for _, m := range claimed {
		if m.Start > cursor {
			out = append(out, Linked{Text: text[cursor:m.Start]})
		}
		out = append(out, Linked{Text: text[m.Start:m.End], TermID: m.id})
		cursor = m.End
	}
	if cursor < len(text) {
		out = append(out, Linked{Text: text[cursor:]})
	}
	return out
}

func overlapsAny(ms []termMatch, s Span) bool {
	for _, m := range ms {
		if m.overlaps(s) {
			return true
		}
	}
	return false
}

// LinkTerms escapes text and wraps key-term references in clickable spans.
func LinkTerms(text string, res *exercise.Resources) string {
	var b strings.Builder
	for _, seg := range LinkSegments(text, res) {
		if seg.TermID == "" {
			b.WriteString(textutil.EscapeHTML(seg.Text))
			continue
		}
		term, _ := res.Term(seg.TermID)
		fmt.Fprintf(&b, `<span class="interactive-hint-term" data-term-id="%s" title="Click for definition: %s" role="button" tabindex="0">%s</span>`,
			textutil.EscapeHTML(seg.TermID), textutil.EscapeHTML(term.DisplayName()), textutil.EscapeHTML(seg.Text))
	}
	return b.String()
}
