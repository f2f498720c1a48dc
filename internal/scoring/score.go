// Package scoring grades submitted answers and builds per-blank feedback.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/ptenav/internal/exercise"
)

// Outcome is the grading result for one blank.
type Outcome int

const (
	Unanswered Outcome = iota
	Correct
	Incorrect
)

// String returns the outcome name, also used as the control's feedback class.
func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unanswered"
	}
}

// Result is the aggregate score of one submission.
type Result struct {
	Percentage int `json:"percentage"`
	Correct    int `json:"correct"`
	Total      int `json:"total"`
}

// String formats the score as "80% (4/5)".
func (r Result) String() string {
	return fmt.Sprintf("%d%% (%d/%d)", r.Percentage, r.Correct, r.Total)
}

// Matches reports whether answer equals the correct answer, ignoring case and
// surrounding whitespace.
func Matches(answer, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(correct))
}

// Classify grades a single answer. Blank answers are Unanswered.
func Classify(b exercise.Blank, answer string) Outcome {
	if strings.TrimSpace(answer) == "" {
		return Unanswered
	}
	if Matches(answer, b.CorrectAnswer) {
		return Correct
	}
	return Incorrect
}

// Score grades answers keyed by blank_index. Every blank counts toward the
// total; unanswered blanks are never correct.
func Score(ex *exercise.Exercise, answers map[int]string) Result {
	r := Result{Total: len(ex.Blanks)}
	for _, b := range ex.Blanks {
		if Classify(b, answers[b.BlankIndex]) == Correct {
			r.Correct++
		}
	}
	if r.Total > 0 {
		r.Percentage = int(math.Round(float64(r.Correct) / float64(r.Total) * 100))
	}
	return r
}

// Marks returns the feedback class for every blank, keyed by blank_index.
func Marks(ex *exercise.Exercise, answers map[int]string) map[int]string {
	out := make(map[int]string, len(ex.Blanks))
	for _, b := range ex.Blanks {
		out[b.BlankIndex] = Classify(b, answers[b.BlankIndex]).String()
	}
	return out
}
