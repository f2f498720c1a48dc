// Package annotate turns an exercise passage into a structured document of
// text runs and blank slots, and renders it with part-of-speech labels,
// clue highlights and blank controls.
package annotate

import (
	"context"
	"sort"
	"strings"

	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/textutil"
)

// Span is a half-open byte range within a run.
type Span struct {
	Start, End int
}

func (s Span) overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// TermSpan is a part-of-speech tagged word inside a run.
type TermSpan struct {
	Span
	Label string
}

// Run is a stretch of raw passage text between blanks.
type Run struct {
	Text       string
	Terms      []TermSpan
	Highlights []Span
}

// Slot is a blank position in the passage. Position is the 0-based order
// of the slot in the passage; Unbound slots had no marker in the passage
// and are placed after it.
type Slot struct {
	Position int
	Blank    exercise.Blank
	Unbound  bool
}

// Segment is either a text run or a blank slot.
type Segment struct {
	Run  *Run
	Slot *Slot
}

// Document is a parsed passage ready for rendering.
type Document struct {
	Type     exercise.Type
	Segments []Segment
	// POS is set when part-of-speech labels were applied.
	POS bool
	// OptionLabels maps answer options and pool words to their POS label.
	OptionLabels map[string]string
	// CluePhrases are the phrases used for highlighting, longest first.
	CluePhrases []string
}

// Options controls Build.
type Options struct {
	POS       bool
	Annotator Annotator
	// CluePhrases overrides the exercise's own phrases when non-nil.
	CluePhrases []string
}

// Parse splits a passage into runs and slots. The k-th marker binds to the
// k-th blank in ascending blank_index order. Markers beyond the blank count
// stay as literal text.
func Parse(passage string, blanks []exercise.Blank) *Document {
	ex := exercise.Exercise{Blanks: blanks}
	sorted := ex.SortedBlanks()

	doc := &Document{}
	rest := passage
	k := 0
	for ; k < len(sorted); k++ {
		idx := strings.Index(rest, exercise.Marker)
		if idx < 0 {
			break
		}
		doc.appendRun(rest[:idx])
		doc.Segments = append(doc.Segments, Segment{Slot: &Slot{Position: k, Blank: sorted[k]}})
		rest = rest[idx+len(exercise.Marker):]
	}
	doc.appendRun(rest)

	for ; k < len(sorted); k++ {
		doc.Segments = append(doc.Segments, Segment{Slot: &Slot{Position: k, Blank: sorted[k], Unbound: true}})
	}
	return doc
}

func (d *Document) appendRun(text string) {
	if text == "" {
		return
	}
	d.Segments = append(d.Segments, Segment{Run: &Run{Text: text}})
}

// Slots returns the blank slots in passage order.
func (d *Document) Slots() []*Slot {
	var out []*Slot
	for _, seg := range d.Segments {
		if seg.Slot != nil {
			out = append(out, seg.Slot)
		}
	}
	return out
}

// HasClues reports whether any run carries a highlight.
func (d *Document) HasClues() bool {
	for _, seg := range d.Segments {
		if seg.Run != nil && len(seg.Run.Highlights) > 0 {
			return true
		}
	}
	return false
}

// Build parses the exercise and applies the annotation stages in order:
// part-of-speech overlay (when requested), then clue highlighting. Blank
// controls are produced at render time. Problems are returned as warnings;
// Build never fails.
func Build(ctx context.Context, ex *exercise.Exercise, opts Options) (*Document, []Warning) {
	doc := Parse(ex.RawPassage, ex.Blanks)
	doc.Type = ex.Type

	var warnings []Warning
	if opts.POS {
		if err := doc.applyPOS(ctx, ex, opts.Annotator); err != nil {
			warnings = append(warnings, Warning{Stage: "part-of-speech", Err: err})
		}
	}

	phrases := opts.CluePhrases
	if phrases == nil {
		phrases = ex.CluePhrases()
	}
	doc.Highlight(phrases)
	return doc, warnings
}

// applyPOS tags the whole raw passage and aligns the reported terms back
// onto run offsets. On failure the document is left untagged.
func (d *Document) applyPOS(ctx context.Context, ex *exercise.Exercise, a Annotator) error {
	if a == nil {
		return ErrNoAnnotator
	}
	terms, err := a.Annotate(ctx, ex.RawPassage)
	if err != nil {
		return err
	}

	type located struct {
		start, end int
		label      string
	}
	var found []located
	cursor := 0
	for _, t := range terms {
		if t.Text == "" {
			continue
		}
		idx := strings.Index(ex.RawPassage[cursor:], t.Text)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		end := start + len(t.Text)
		cursor = end
		if !textutil.HasWordChar(t.Text) {
			continue
		}
		tags := t.Tags
		if len(tags) == 0 {
			tags = []string{"Term"}
		}
		found = append(found, located{start: start, end: end, label: SimplifyTags(tags...)})
	}

	// Map passage offsets to runs. Terms that touch a marker or cross a
	// run boundary stay plain text.
	offset := 0
	fi := 0
	for _, seg := range d.Segments {
		if seg.Slot != nil {
			if !seg.Slot.Unbound {
				offset += len(exercise.Marker)
			}
			continue
		}
		run := seg.Run
		runStart, runEnd := offset, offset+len(run.Text)
		for fi < len(found) && found[fi].start < runEnd {
			f := found[fi]
			fi++
			if f.start < runStart || f.end > runEnd {
				continue
			}
			run.Terms = append(run.Terms, TermSpan{
				Span:  Span{Start: f.start - runStart, End: f.end - runStart},
				Label: f.label,
			})
		}
		offset = runEnd
	}

	d.OptionLabels = make(map[string]string)
	var words []string
	for _, b := range ex.Blanks {
		words = append(words, b.Options...)
	}
	words = append(words, ex.DraggableOptions...)
	for _, w := range words {
		if _, ok := d.OptionLabels[w]; ok {
			continue
		}
		d.OptionLabels[w] = optionLabel(ctx, a, w)
	}

	d.POS = true
	return nil
}

// optionLabel tags a single option and labels it by its first term.
func optionLabel(ctx context.Context, a Annotator, word string) string {
	terms, err := a.Annotate(ctx, word)
	if err != nil || len(terms) == 0 || len(terms[0].Tags) == 0 {
		return "Word"
	}
	return SimplifyTags(terms[0].Tags...)
}

// Highlight wraps case-insensitive occurrences of the phrases in every run.
// Empty phrases are dropped, duplicates removed and longer phrases applied
// first. A match that overlaps an existing highlight is skipped, so calling
// Highlight again with the same phrases adds nothing.
//
// When the run carries part-of-speech terms, a match that cuts through a
// term is widened to the whole term, since a term renders as one element
// and cannot be split. "he ca" therefore highlights "The cat" with POS on,
// but only the matched letters without it.
func (d *Document) Highlight(phrases []string) int {
	phrases = normalizePhrases(phrases)
	d.CluePhrases = mergePhrases(d.CluePhrases, phrases)

	added := 0
	for _, seg := range d.Segments {
		if seg.Run == nil {
			continue
		}
		for _, p := range phrases {
			added += seg.Run.highlight(p)
		}
	}
	return added
}

func (r *Run) highlight(phrase string) int {
	added := 0
	pos := 0
	for {
		idx := textutil.IndexFold(r.Text, phrase, pos)
		if idx < 0 {
			return added
		}
		pos = idx + len(phrase)

		span := r.snapToTerms(Span{Start: idx, End: idx + len(phrase)})
		if r.overlapsHighlight(span) {
			continue
		}
		r.Highlights = append(r.Highlights, span)
		sort.Slice(r.Highlights, func(i, j int) bool {
			return r.Highlights[i].Start < r.Highlights[j].Start
		})
		added++
	}
}

// snapToTerms widens s so it starts and ends on term boundaries.
func (r *Run) snapToTerms(s Span) Span {
	for _, t := range r.Terms {
		if t.Start < s.Start && s.Start < t.End {
			s.Start = t.Start
		}
		if t.Start < s.End && s.End < t.End {
			s.End = t.End
		}
	}
	return s
}

func (r *Run) overlapsHighlight(s Span) bool {
	for _, h := range r.Highlights {
		if h.overlaps(s) {
			return true
		}
	}
	return false
}

func normalizePhrases(phrases []string) []string {
	seen := make(map[string]bool, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if strings.TrimSpace(p) == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}

func mergePhrases(have, add []string) []string {
	return normalizePhrases(append(append([]string(nil), have...), add...))
}

// Piece is a renderable fragment of a run.
type Piece struct {
	Text string
	// Label is set for part-of-speech tagged words.
	Label string
	// Highlight is the index into Run.Highlights covering this piece, or -1.
	Highlight int
	// OpensHighlight and ClosesHighlight mark highlight boundaries.
	OpensHighlight  bool
	ClosesHighlight bool
}

// IsTerm reports whether the piece is a tagged word.
func (p Piece) IsTerm() bool { return p.Label != "" }

// Pieces splits the run at term and highlight boundaries.
func (r *Run) Pieces() []Piece {
	cuts := map[int]bool{0: true, len(r.Text): true}
	for _, t := range r.Terms {
		cuts[t.Start] = true
		cuts[t.End] = true
	}
	for _, h := range r.Highlights {
		cuts[h.Start] = true
		cuts[h.End] = true
	}
	points := make([]int, 0, len(cuts))
	for p := range cuts {
		points = append(points, p)
	}
	sort.Ints(points)

	var out []Piece
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		if a == b {
			continue
		}
		p := Piece{Text: r.Text[a:b], Highlight: -1}
		for _, t := range r.Terms {
			if t.Start == a && t.End == b {
				p.Label = t.Label
				break
			}
		}
		for hi, h := range r.Highlights {
			if h.Start <= a && b <= h.End {
				p.Highlight = hi
				p.OpensHighlight = a == h.Start
				p.ClosesHighlight = b == h.End
				break
			}
		}
		out = append(out, p)
	}
	return out
}
