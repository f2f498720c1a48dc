// Package exercise defines the practice exercise model, its load-time
// normalization and bulk import.
package exercise

import (
	"sort"
	"strings"
)

// Marker is the literal blank marker inside a raw passage.
const Marker = "_______"

// Type is the answer mode of an exercise.
type Type string

const (
	TypeFIBRW Type = "FIB_RW"
	TypeDND   Type = "DND"
)

// Label returns a short human label for the type.
func (t Type) Label() string {
	switch t {
	case TypeFIBRW:
		return "Fill in Blanks"
	case TypeDND:
		return "Drag and Drop"
	default:
		return string(t)
	}
}

// Exercise is one passage with its blanks.
type Exercise struct {
	ID               string           `json:"id" validate:"required"`
	Title            string           `json:"title" validate:"required"`
	Type             Type             `json:"exerciseType" validate:"required,exercise_type"`
	Difficulty       string           `json:"difficulty,omitempty" validate:"omitempty,difficulty"`
	RawPassage       string           `json:"rawPassage" validate:"required"`
	Blanks           []Blank          `json:"blanks" validate:"dive"`
	DraggableOptions []string         `json:"draggable_options_dnd,omitempty"`
	Resources        *Resources       `json:"linguistic_resources,omitempty"`
	Analysis         *PassageAnalysis `json:"analysis_and_hints,omitempty"`
}

// PassageAnalysis is exercise-level hint data.
type PassageAnalysis struct {
	HighlightPhrases []string `json:"passage_highlight_phrases,omitempty"`
}

// Blank is a single gap. BlankIndex is a logical id used for lookups; the
// position in the passage is decided by marker order.
type Blank struct {
	BlankIndex    int      `json:"blank_index" validate:"gte=0"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Options       []string `json:"options_fib_rw,omitempty"`
	Hint          *Hint    `json:"analysis_and_hints,omitempty"`
}

// Hint is the per-blank analysis shown after scoring.
type Hint struct {
	PrimaryReason    string       `json:"primary_reason,omitempty"`
	Distractors      []Distractor `json:"distractor_analysis,omitempty"`
	POSTag           string       `json:"pos_tag_correct_answer,omitempty"`
	GrammaticalFit   string       `json:"grammatical_fit,omitempty"`
	Collocations     []string     `json:"collocations,omitempty"`
	SemanticFit      string       `json:"semantic_fit,omitempty"`
	LearningTip      string       `json:"learning_tip,omitempty"`
	SkillTags        []string     `json:"skill_tags,omitempty"`
	HighlightPhrases []string     `json:"passage_highlight_phrases,omitempty"`
}

// Distractor explains why a wrong option does not fit.
type Distractor struct {
	Option         string `json:"option"`
	Reason         string `json:"reason,omitempty"`
	ErrorPatternID string `json:"common_error_pattern_id,omitempty"`
}

// DifficultyLabel returns the capitalized difficulty, "Medium" when unset.
func (e *Exercise) DifficultyLabel() string {
	d := strings.TrimSpace(e.Difficulty)
	if d == "" {
		return "Medium"
	}
	return strings.ToUpper(d[:1]) + strings.ToLower(d[1:])
}

// MarkerCount returns the number of blank markers in the passage.
func (e *Exercise) MarkerCount() int {
	return strings.Count(e.RawPassage, Marker)
}

// SortedBlanks returns the blanks ordered by ascending BlankIndex. The k-th
// marker in the passage binds to the k-th blank of this slice.
func (e *Exercise) SortedBlanks() []Blank {
	out := make([]Blank, len(e.Blanks))
	copy(out, e.Blanks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BlankIndex < out[j].BlankIndex
	})
	return out
}

// FindBlank looks a blank up by its logical index.
func (e *Exercise) FindBlank(blankIndex int) (Blank, bool) {
	for _, b := range e.Blanks {
		if b.BlankIndex == blankIndex {
			return b, true
		}
	}
	return Blank{}, false
}

// CluePhrases returns the exercise-level highlight phrases when present,
// else the union of the per-blank phrases in blank order.
func (e *Exercise) CluePhrases() []string {
	if e.Analysis != nil && e.Analysis.HighlightPhrases != nil {
		return append([]string(nil), e.Analysis.HighlightPhrases...)
	}
	var out []string
	for _, b := range e.Blanks {
		if b.Hint != nil {
			out = append(out, b.Hint.HighlightPhrases...)
		}
	}
	return out
}
