package scoring

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/ptenav/internal/annotate"
	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/textutil"
)

// LinkedText is hint text with its key-term references resolved.
type LinkedText struct {
	Plain    string
	HTML     string
	Segments []annotate.Linked
}

func link(text string, res *exercise.Resources) LinkedText {
	if text == "" {
		return LinkedText{}
	}
	return LinkedText{
		Plain:    text,
		HTML:     annotate.LinkTerms(text, res),
		Segments: annotate.LinkSegments(text, res),
	}
}

// Empty reports whether there is no text.
func (t LinkedText) Empty() bool { return t.Plain == "" }

// TermIDs returns the referenced key-term ids in order of appearance.
func (t LinkedText) TermIDs() []string {
	var ids []string
	for _, s := range t.Segments {
		if s.TermID != "" {
			ids = append(ids, s.TermID)
		}
	}
	return ids
}

// DistractorNote explains why the chosen wrong option does not fit.
type DistractorNote struct {
	Option    string
	Reason    LinkedText
	PatternID string
	// Pattern is set when PatternID resolves in the exercise's resources.
	Pattern *exercise.ErrorPattern
}

// Explanation is the feedback for one blank.
type Explanation struct {
	BlankIndex int
	// Number is the 1-based display number of the blank.
	Number        int
	Answer        string
	CorrectAnswer string
	// ShowCorrect is set when the answer was given and is wrong.
	ShowCorrect bool
	Outcome     Outcome

	Confidence      Confidence
	ConfidenceLabel string
	Insight         *Insight

	// NoAnalysis is set when the blank carries no hint data.
	NoAnalysis    bool
	PrimaryReason LinkedText
	Distractor    *DistractorNote
	POS           string
	Grammatical   LinkedText
	Collocations  []LinkedText
	Semantic      LinkedText
	LearningTip   LinkedText
	SkillTags     []string
}

// HasDeeperDive reports whether any of the detailed analysis fields are set.
func (e Explanation) HasDeeperDive() bool {
	return e.POS != "" || !e.Grammatical.Empty() || len(e.Collocations) > 0 || !e.Semantic.Empty()
}

// Explain builds the feedback for one blank. conf is ignored for
// unanswered blanks.
func Explain(b exercise.Blank, number int, answer string, conf Confidence, res *exercise.Resources) Explanation {
	correct := b.CorrectAnswer
	if correct == "" {
		correct = "N/A"
	}
	e := Explanation{
		BlankIndex:    b.BlankIndex,
		Number:        number,
		Answer:        answer,
		CorrectAnswer: correct,
		Outcome:       Classify(b, answer),
	}
	e.ShowCorrect = e.Outcome == Incorrect

	if conf != "" && e.Outcome != Unanswered {
		e.Confidence = conf
		e.ConfidenceLabel = conf.Label()
		if in, ok := InsightFor(conf, e.Outcome); ok {
			e.Insight = &in
		}
	}

	h := b.Hint
	if h == nil {
		e.NoAnalysis = true
		return e
	}

	e.PrimaryReason = link(h.PrimaryReason, res)
	if e.Outcome == Incorrect {
		needle := strings.ToLower(strings.TrimSpace(answer))
		for _, d := range h.Distractors {
			if d.Option == "" || strings.ToLower(d.Option) != needle {
				continue
			}
			note := &DistractorNote{Option: answer, Reason: link(d.Reason, res), PatternID: d.ErrorPatternID}
			if p, ok := res.Pattern(d.ErrorPatternID); ok {
				note.Pattern = &p
			}
			e.Distractor = note
			break
		}
	}
	e.POS = h.POSTag
	e.Grammatical = link(h.GrammaticalFit, res)
	for _, c := range h.Collocations {
		e.Collocations = append(e.Collocations, link(c, res))
	}
	e.Semantic = link(h.SemanticFit, res)
	e.LearningTip = link(h.LearningTip, res)
	e.SkillTags = append([]string(nil), h.SkillTags...)
	return e
}

// Report is the full feedback for a scored submission.
type Report struct {
	ExerciseID   string
	Result       Result
	Explanations []Explanation
	Elapsed      time.Duration
	ShowTimer    bool
	// Resources are the resources hint text was linked against.
	Resources *exercise.Resources
}

// Feedback scores a submission and explains every blank in passage order.
// global is used when the exercise carries no resources of its own.
func Feedback(ex *exercise.Exercise, answers map[int]string, conf map[int]Confidence, global *exercise.Resources, elapsed time.Duration, showTimer bool) Report {
	res := exercise.Resolve(ex, global)
	r := Report{
		ExerciseID: ex.ID,
		Result:     Score(ex, answers),
		Elapsed:    elapsed,
		ShowTimer:  showTimer,
		Resources:  res,
	}
	for i, b := range ex.SortedBlanks() {
		r.Explanations = append(r.Explanations, Explain(b, i+1, answers[b.BlankIndex], conf[b.BlankIndex], res))
	}
	return r
}

// ErrNotFound is returned by the definition lookups.
var ErrNotFound = errors.New("not available")

// Definition is the detail view for a key term or an error pattern.
type Definition struct {
	Title    string
	Body     LinkedText
	Examples []string
}

// LookupTerm returns the definition view for a key term.
func LookupTerm(res *exercise.Resources, id string) (Definition, error) {
	t, ok := res.Term(id)
	if !ok {
		return Definition{}, fmt.Errorf("definition for term %q: %w", id, ErrNotFound)
	}
	// Definitions are shown as plain text.
	body := LinkedText{}
	if t.Definition != "" {
		body = LinkedText{Plain: t.Definition, HTML: textutil.EscapeHTML(t.Definition), Segments: []annotate.Linked{{Text: t.Definition}}}
	}
	return Definition{
		Title:    "Definition: " + t.DisplayName(),
		Body:     body,
		Examples: t.Examples,
	}, nil
}

// LookupPattern returns the "mastery" view for a common error pattern.
func LookupPattern(res *exercise.Resources, id string) (Definition, error) {
	p, ok := res.Pattern(id)
	if !ok {
		return Definition{}, fmt.Errorf("details for error pattern %q: %w", id, ErrNotFound)
	}
	return Definition{
		Title:    "Mastery: " + p.Name,
		Body:     link(p.Text(), res),
		Examples: p.Examples,
	}, nil
}
