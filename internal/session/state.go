// Package session runs one learner's pass through an exercise: answering,
// confidence collection and scoring.
package session

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/navigation"
	"github.com/abhisek/ptenav/internal/scoring"
	"github.com/abhisek/ptenav/internal/stats"
)

// SessionPhase represents the current phase of the session.
type SessionPhase int

const (
	PhaseIdle                 SessionPhase = iota // No exercise selected
	PhasePresenting                               // Learner is filling blanks
	PhaseCollectingConfidence                     // Asking confidence per answered blank
	PhaseScored                                   // Feedback is available
)

func (p SessionPhase) String() string {
	switch p {
	case PhasePresenting:
		return "presenting"
	case PhaseCollectingConfidence:
		return "collecting-confidence"
	case PhaseScored:
		return "scored"
	default:
		return "idle"
	}
}

var (
	ErrWrongPhase           = errors.New("action not allowed in the current phase")
	ErrNothingAnswered      = errors.New("answer at least one blank before submitting")
	ErrConfirmationRequired = errors.New("reset discards your answers; confirm to continue")
	ErrUnknownBlank         = errors.New("no such blank in this exercise")
	ErrUnknownWord          = errors.New("word is not in the word pool")

	// ErrInvalidIndex is returned by SelectExercise for an index outside
	// the filtered list.
	ErrInvalidIndex = navigation.ErrInvalidIndex
)

// Completion is passed to the completion hook once per scored submission.
type Completion struct {
	Exercise   *exercise.Exercise
	Report     scoring.Report
	Answers    map[int]string
	Confidence map[int]scoring.Confidence
}

// Options wires a session to application state.
type Options struct {
	// Resources returns the global linguistic resources.
	Resources func() *exercise.Resources

	// ShowTimer reports whether per-exercise timing is enabled.
	ShowTimer func() bool

	// Completed reports whether an exercise was scored before; used by
	// Recommend.
	Completed func(id string) bool

	// OnComplete is called after scoring, typically to persist the attempt.
	// A returned error is kept for SaveError; the attempt stays scored.
	OnComplete func(Completion) error

	// Now is the clock for the stopwatch. Defaults to time.Now.
	Now func() time.Time

	// Rand drives Recommend. Defaults to the global source.
	Rand *rand.Rand
}

// Session is the explicit state of an exercise attempt.
type Session struct {
	nav  *navigation.Navigator
	opts Options

	phase    SessionPhase
	exercise *exercise.Exercise

	// answers is keyed by blank_index.
	answers map[int]string

	// confidence is keyed by blank_index.
	confidence map[int]scoring.Confidence

	// pending holds the answered blank indices awaiting a confidence level,
	// ascending; cursor indexes into it.
	pending []int
	cursor  int

	watch  *stats.Stopwatch
	report *scoring.Report
	// saveErr is the completion hook's error for the current attempt.
	saveErr error
}

// New creates an idle session over a navigator.
func New(nav *navigation.Navigator, opts Options) *Session {
	return &Session{
		nav:        nav,
		opts:       opts,
		answers:    make(map[int]string),
		confidence: make(map[int]scoring.Confidence),
		cursor:     -1,
		watch:      stats.NewStopwatch(opts.Now),
	}
}

// Phase returns the current phase.
func (s *Session) Phase() SessionPhase { return s.phase }

// Exercise returns the exercise being worked on, or nil when idle.
func (s *Session) Exercise() *exercise.Exercise { return s.exercise }

// Navigator returns the underlying navigator.
func (s *Session) Navigator() *navigation.Navigator { return s.nav }

// Answers returns a copy of the current answers keyed by blank_index.
func (s *Session) Answers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Answer returns the answer for one blank.
func (s *Session) Answer(blankIndex int) string { return s.answers[blankIndex] }

// Confidence returns a copy of the recorded confidence levels.
func (s *Session) Confidence() map[int]scoring.Confidence {
	out := make(map[int]scoring.Confidence, len(s.confidence))
	for k, v := range s.confidence {
		out[k] = v
	}
	return out
}

// Elapsed returns the time spent on the current attempt.
func (s *Session) Elapsed() time.Duration { return s.watch.Elapsed() }

// Result returns the feedback report once the attempt is scored.
func (s *Session) Result() (scoring.Report, bool) {
	if s.phase != PhaseScored || s.report == nil {
		return scoring.Report{}, false
	}
	return *s.report, true
}

// SaveError returns the error the completion hook reported for the scored
// attempt, or nil.
func (s *Session) SaveError() error { return s.saveErr }

func (s *Session) showTimer() bool {
	return s.opts.ShowTimer == nil || s.opts.ShowTimer()
}

func (s *Session) resources() *exercise.Resources {
	if s.opts.Resources == nil {
		return nil
	}
	return s.opts.Resources()
}
