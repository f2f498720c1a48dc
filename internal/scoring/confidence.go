package scoring

import "fmt"

// Confidence is how sure the learner said they were about an answer.
type Confidence string

const (
	Sure     Confidence = "sure"
	BitSure  Confidence = "bit_sure"
	Guessing Confidence = "guessing"
)

// Label is the display text for the level.
func (c Confidence) Label() string {
	switch c {
	case Sure:
		return "Very Sure"
	case BitSure:
		return "A Bit Sure"
	case Guessing:
		return "Just Guessing"
	default:
		return "Not Specified"
	}
}

// Valid reports whether c is one of the known levels.
func (c Confidence) Valid() bool {
	return c == Sure || c == BitSure || c == Guessing
}

// ParseConfidence accepts a level name or its shortcut key (s, b, g).
func ParseConfidence(s string) (Confidence, error) {
	switch s {
	case "s", string(Sure):
		return Sure, nil
	case "b", string(BitSure):
		return BitSure, nil
	case "g", string(Guessing):
		return Guessing, nil
	}
	return "", fmt.Errorf("unknown confidence level %q", s)
}

// Insight is the calibration message shown for an answered blank.
type Insight struct {
	Class   string
	Message string
}

// InsightFor pairs a confidence level with an outcome. Unknown levels are
// treated as guessing when wrong and as sure when right.
func InsightFor(c Confidence, o Outcome) (Insight, bool) {
	switch o {
	case Correct:
		switch c {
		case Guessing:
			return Insight{"guessing-correct", "You guessed correctly! Try to understand why this is the right answer for future confidence."}, true
		case BitSure:
			return Insight{"bit-sure-correct", "Good job! You were on the right track."}, true
		default:
			return Insight{"sure-correct", "Excellent! Your confidence was well-placed."}, true
		}
	case Incorrect:
		switch c {
		case Sure:
			return Insight{"sure-incorrect", "You were very sure, but this was incorrect. This might point to a misunderstanding. Review the explanation carefully."}, true
		case BitSure:
			return Insight{"bit-sure-incorrect", "You had some doubts, and it was indeed incorrect. Focus on the hints provided."}, true
		default:
			return Insight{"guessing-incorrect", "You were guessing, and it was incorrect. Let's learn why!"}, true
		}
	}
	return Insight{}, false
}
