package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/navigation"
	"github.com/abhisek/ptenav/internal/scoring"
)

// Start presents the navigator's current exercise, or stays idle when the
// filtered list is empty.
func (s *Session) Start() {
	if ex, ok := s.nav.Current(); ok {
		s.present(ex)
		return
	}
	s.idle()
}

// SelectExercise presents the exercise at position idx of the filtered list.
func (s *Session) SelectExercise(idx int) error {
	ex, err := s.nav.Select(idx)
	if err != nil {
		return err
	}
	s.present(ex)
	return nil
}

// Next presents the following exercise, wrapping around.
func (s *Session) Next() (*exercise.Exercise, error) {
	return s.move(s.nav.Next())
}

// Previous presents the preceding exercise, wrapping around.
func (s *Session) Previous() (*exercise.Exercise, error) {
	return s.move(s.nav.Previous())
}

// Recommend presents a random exercise, preferring ones not yet completed.
func (s *Session) Recommend() (*exercise.Exercise, error) {
	return s.move(s.nav.Recommend(s.opts.Completed, s.opts.Rand))
}

// Refilter applies a new filter. The attempt in progress survives when its
// exercise is still listed.
func (s *Session) Refilter(f navigation.Filter) {
	var prev string
	if s.exercise != nil {
		prev = s.exercise.ID
	}
	s.nav.Refilter(f)
	ex, ok := s.nav.Current()
	switch {
	case !ok:
		s.idle()
	case ex.ID != prev || s.phase == PhaseIdle:
		s.present(ex)
	default:
		s.exercise = ex
	}
}

func (s *Session) move(ex *exercise.Exercise, err error) (*exercise.Exercise, error) {
	if err != nil {
		return nil, err
	}
	s.present(ex)
	return ex, nil
}

func (s *Session) present(ex *exercise.Exercise) {
	s.exercise = ex
	s.clear()
	s.phase = PhasePresenting
	if s.showTimer() {
		s.watch.Start()
	} else {
		s.watch.Reset()
	}
}

func (s *Session) idle() {
	s.exercise = nil
	s.clear()
	s.watch.Reset()
	s.phase = PhaseIdle
}

func (s *Session) clear() {
	s.answers = make(map[int]string)
	s.confidence = make(map[int]scoring.Confidence)
	s.pending = nil
	s.cursor = -1
	s.report = nil
	s.saveErr = nil
}

func (s *Session) requirePresenting() error {
	if s.phase != PhasePresenting {
		return fmt.Errorf("%w (%s)", ErrWrongPhase, s.phase)
	}
	return nil
}

func (s *Session) requireBlank(blankIndex int) error {
	if _, ok := s.exercise.FindBlank(blankIndex); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBlank, blankIndex)
	}
	return nil
}

// SetAnswer records an answer. An empty value removes it.
func (s *Session) SetAnswer(blankIndex int, value string) error {
	if err := s.requirePresenting(); err != nil {
		return err
	}
	if err := s.requireBlank(blankIndex); err != nil {
		return err
	}
	if value == "" {
		delete(s.answers, blankIndex)
		return nil
	}
	s.answers[blankIndex] = value
	return nil
}

// ClearAnswer removes the answer from a blank; for drag-and-drop the word
// returns to the pool.
func (s *Session) ClearAnswer(blankIndex int) error {
	return s.SetAnswer(blankIndex, "")
}

// PlaceWord drops a pool word into a drag-and-drop zone. A word already
// sitting in the zone goes back to the pool. When no free copy of the word
// is left in the pool, it is moved out of the zone that holds it.
func (s *Session) PlaceWord(blankIndex int, word string) error {
	if err := s.requirePresenting(); err != nil {
		return err
	}
	if err := s.requireBlank(blankIndex); err != nil {
		return err
	}
	if s.answers[blankIndex] == word {
		return nil
	}

	free := false
	for _, w := range s.AvailableWords() {
		if w == word {
			free = true
			break
		}
	}
	if !free {
		holder := -1
		for _, idx := range s.answeredIndices() {
			if s.answers[idx] == word {
				holder = idx
				break
			}
		}
		if holder < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownWord, word)
		}
		delete(s.answers, holder)
	}
	s.answers[blankIndex] = word
	return nil
}

// AvailableWords returns the drag-and-drop pool minus the placed words,
// each placement consuming one copy.
func (s *Session) AvailableWords() []string {
	if s.exercise == nil {
		return nil
	}
	used := make(map[string]int)
	for _, w := range s.answers {
		used[w]++
	}
	var out []string
	for _, w := range s.exercise.DraggableOptions {
		if used[w] > 0 {
			used[w]--
			continue
		}
		out = append(out, w)
	}
	return out
}

func (s *Session) answeredIndices() []int {
	var out []int
	for idx, v := range s.answers {
		if strings.TrimSpace(v) != "" {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

// Submit ends answering and starts confidence collection for every
// answered blank. It returns the first blank to ask about.
func (s *Session) Submit() (int, error) {
	if err := s.requirePresenting(); err != nil {
		return 0, err
	}
	pending := s.answeredIndices()
	if len(pending) == 0 {
		return 0, ErrNothingAnswered
	}
	s.pending = pending
	s.cursor = 0
	s.confidence = make(map[int]scoring.Confidence)
	s.phase = PhaseCollectingConfidence
	return s.pending[0], nil
}

// CurrentPrompt returns the blank awaiting a confidence level.
func (s *Session) CurrentPrompt() (int, bool) {
	if s.phase != PhaseCollectingConfidence || s.cursor < 0 || s.cursor >= len(s.pending) {
		return 0, false
	}
	return s.pending[s.cursor], true
}

// PromptPosition returns the 1-based prompt number and the prompt count.
func (s *Session) PromptPosition() (int, int) {
	return s.cursor + 1, len(s.pending)
}

// AdvanceConfidence records the level for the current prompt and moves on.
// After the last prompt the attempt is scored exactly once and done is
// true.
func (s *Session) AdvanceConfidence(level scoring.Confidence) (next int, done bool, err error) {
	if s.phase != PhaseCollectingConfidence {
		return 0, false, fmt.Errorf("%w (%s)", ErrWrongPhase, s.phase)
	}
	if !level.Valid() {
		return 0, false, fmt.Errorf("unknown confidence level %q", level)
	}
	s.confidence[s.pending[s.cursor]] = level
	s.cursor++
	if s.cursor < len(s.pending) {
		return s.pending[s.cursor], false, nil
	}
	s.score()
	return 0, true, nil
}

func (s *Session) score() {
	elapsed := s.watch.Stop()
	report := scoring.Feedback(s.exercise, s.answers, s.confidence, s.resources(), elapsed, s.showTimer())
	s.report = &report
	s.phase = PhaseScored
	if s.opts.OnComplete != nil {
		s.saveErr = s.opts.OnComplete(Completion{
			Exercise:   s.exercise,
			Report:     report,
			Answers:    s.Answers(),
			Confidence: s.Confidence(),
		})
	}
}

// Reset discards the attempt and presents the exercise again. It needs
// explicit confirmation.
func (s *Session) Reset(confirmed bool) error {
	if s.phase != PhasePresenting && s.phase != PhaseScored {
		return fmt.Errorf("%w (%s)", ErrWrongPhase, s.phase)
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	s.present(s.exercise)
	return nil
}

// Marks returns the feedback class per blank once scored, else nil.
func (s *Session) Marks() map[int]string {
	if s.phase != PhaseScored {
		return nil
	}
	return scoring.Marks(s.exercise, s.answers)
}
