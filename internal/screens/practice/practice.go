// Package practice is the screen where the learner fills the blanks of one
// exercise, rates their confidence and sees the result.
package practice

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ptenav/internal/annotate"
	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/logger"
	"github.com/abhisek/ptenav/internal/router"
	"github.com/abhisek/ptenav/internal/scoring"
	"github.com/abhisek/ptenav/internal/screen"
	"github.com/abhisek/ptenav/internal/screens/feedback"
	sess "github.com/abhisek/ptenav/internal/session"
	"github.com/abhisek/ptenav/internal/settings"
	"github.com/abhisek/ptenav/internal/ui/layout"
)

// Deps are the collaborators of the practice screen.
type Deps struct {
	Session *sess.Session
	// Annotator tags parts of speech; nil disables the POS overlay.
	Annotator annotate.Annotator
	// Settings returns the current learner preferences.
	Settings func() settings.AppSettings
	Log      *logger.Logger
}

// PracticeScreen implements screen.Screen for one exercise attempt.
type PracticeScreen struct {
	deps Deps
	sess *sess.Session

	doc     *annotate.Document
	docFor  string
	loading bool

	pos   bool
	clues bool
	// focus indexes doc.Slots().
	focus int

	confirmReset bool
	status       string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.InputCapturer = (*PracticeScreen)(nil)

// New creates a PracticeScreen over a session that already presents an
// exercise.
func New(deps Deps) *PracticeScreen {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Settings == nil {
		deps.Settings = settings.Defaults
	}
	return &PracticeScreen{
		deps:  deps,
		sess:  deps.Session,
		clues: true,
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return s.buildDoc()
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

// CapturingInput keeps esc inside the screen while a reset is being
// confirmed.
func (s *PracticeScreen) CapturingInput() bool {
	return s.confirmReset
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.confirmReset {
		return []layout.KeyHint{
			{Key: "y", Description: "Discard answers"},
			{Key: "n", Description: "Keep going"},
		}
	}
	switch s.sess.Phase() {
	case sess.PhaseCollectingConfidence:
		return []layout.KeyHint{
			{Key: "s", Description: "Very sure"},
			{Key: "b", Description: "A bit sure"},
			{Key: "g", Description: "Guessing"},
		}
	case sess.PhaseScored:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Feedback"},
			{Key: "r", Description: "Retry"},
			{Key: "n/N", Description: "Next/Prev"},
			{Key: "?", Description: "Recommend"},
			{Key: "Esc", Description: "Back"},
		}
	case sess.PhasePresenting:
		hints := []layout.KeyHint{{Key: "Tab", Description: "Blank"}}
		if ex := s.sess.Exercise(); ex != nil && ex.Type == exercise.TypeDND {
			hints = append(hints, layout.KeyHint{Key: "1-9", Description: "Place"})
		} else {
			hints = append(hints, layout.KeyHint{Key: "←→", Description: "Option"})
		}
		return append(hints,
			layout.KeyHint{Key: "x", Description: "Clear"},
			layout.KeyHint{Key: "p", Description: "POS"},
			layout.KeyHint{Key: "c", Description: "Clues"},
			layout.KeyHint{Key: "Enter", Description: "Submit"},
			layout.KeyHint{Key: "n/N", Description: "Next/Prev"},
		)
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case docReadyMsg:
		return s.handleDocReady(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// buildDoc annotates the current exercise asynchronously; the LLM
// annotator may take a while.
func (s *PracticeScreen) buildDoc() tea.Cmd {
	ex := s.sess.Exercise()
	if ex == nil {
		return nil
	}
	s.loading = true
	pos := s.pos
	a := s.deps.Annotator
	return func() tea.Msg {
		doc, warnings := annotate.Build(context.Background(), ex, annotate.Options{POS: pos, Annotator: a})
		return docReadyMsg{ExerciseID: ex.ID, POS: pos, Doc: doc, Warnings: warnings}
	}
}

func (s *PracticeScreen) handleDocReady(msg docReadyMsg) (screen.Screen, tea.Cmd) {
	ex := s.sess.Exercise()
	if ex == nil || msg.ExerciseID != ex.ID || msg.POS != s.pos {
		return s, nil
	}
	if s.docFor != msg.ExerciseID {
		s.focus = 0
	}
	s.doc = msg.Doc
	s.docFor = msg.ExerciseID
	s.loading = false
	for _, w := range msg.Warnings {
		s.deps.Log.Warn("passage annotation degraded", "exercise", ex.ID, "stage", w.Stage, "error", w.Err)
		if errors.Is(w, annotate.ErrNoAnnotator) {
			s.status = "Part-of-speech labels are turned off in the configuration."
		} else {
			s.status = "Part-of-speech labels unavailable: " + w.Err.Error()
		}
	}
	return s, nil
}

func (s *PracticeScreen) slots() []*annotate.Slot {
	if s.doc == nil {
		return nil
	}
	return s.doc.Slots()
}

func (s *PracticeScreen) focused() (*annotate.Slot, bool) {
	slots := s.slots()
	if s.focus < 0 || s.focus >= len(slots) {
		return nil, false
	}
	return slots[s.focus], true
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmReset {
		switch key {
		case "y", "Y":
			s.confirmReset = false
			if err := s.sess.Reset(true); err != nil {
				s.status = err.Error()
				return s, nil
			}
			s.focus = 0
			s.status = "Answers cleared."
		case "n", "N", "esc":
			s.confirmReset = false
		}
		return s, nil
	}

	if s.sess.Exercise() == nil {
		return s, nil
	}
	s.status = ""

	switch s.sess.Phase() {
	case sess.PhaseCollectingConfidence:
		return s.handleConfidence(key)
	case sess.PhaseScored:
		switch key {
		case "enter", "f":
			return s, s.showFeedback()
		}
	case sess.PhasePresenting:
		if handled, cmd := s.handleAnswerKey(key); handled {
			return s, cmd
		}
	}

	switch key {
	case "p":
		s.pos = !s.pos
		return s, s.buildDoc()
	case "c":
		s.clues = !s.clues
	case "r":
		s.confirmReset = true
	case "n":
		return s, s.move(s.sess.Next)
	case "N":
		return s, s.move(s.sess.Previous)
	case "?":
		return s, s.move(s.sess.Recommend)
	}
	return s, nil
}

func (s *PracticeScreen) handleAnswerKey(key string) (bool, tea.Cmd) {
	slots := s.slots()
	switch key {
	case "tab":
		if len(slots) > 0 {
			s.focus = (s.focus + 1) % len(slots)
		}
		return true, nil
	case "shift+tab":
		if len(slots) > 0 {
			s.focus = (s.focus - 1 + len(slots)) % len(slots)
		}
		return true, nil
	case "left", "right":
		if s.sess.Exercise().Type == exercise.TypeFIBRW {
			s.cycleOption(key == "right")
		}
		return true, nil
	case "x", "backspace", "delete":
		if slot, ok := s.focused(); ok {
			s.report(s.sess.ClearAnswer(slot.Blank.BlankIndex))
		}
		return true, nil
	case "enter":
		return true, s.submit()
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		s.choose(int(key[0] - '1'))
		return true, nil
	}
	return false, nil
}

// cycleOption steps the focused FIB_RW blank through its options. From an
// empty blank, right picks the first option and left the last.
func (s *PracticeScreen) cycleOption(forward bool) {
	slot, ok := s.focused()
	if !ok || len(slot.Blank.Options) == 0 {
		return
	}
	opts := slot.Blank.Options
	cur := -1
	for i, o := range opts {
		if strings.EqualFold(o, s.sess.Answer(slot.Blank.BlankIndex)) {
			cur = i
			break
		}
	}
	next := 0
	switch {
	case forward:
		next = (cur + 1) % len(opts)
	case cur <= 0:
		next = len(opts) - 1
	default:
		next = cur - 1
	}
	s.report(s.sess.SetAnswer(slot.Blank.BlankIndex, opts[next]))
}

// choose picks option i of a FIB_RW blank, or places pool word i into a
// DND zone.
func (s *PracticeScreen) choose(i int) {
	slot, ok := s.focused()
	if !ok {
		return
	}
	if s.sess.Exercise().Type == exercise.TypeDND {
		pool := s.sess.AvailableWords()
		if i >= len(pool) {
			return
		}
		if s.report(s.sess.PlaceWord(slot.Blank.BlankIndex, pool[i])) {
			s.advanceFocus()
		}
		return
	}
	if i < len(slot.Blank.Options) {
		s.report(s.sess.SetAnswer(slot.Blank.BlankIndex, slot.Blank.Options[i]))
	}
}

// advanceFocus moves to the next empty blank, if any.
func (s *PracticeScreen) advanceFocus() {
	slots := s.slots()
	for step := 1; step <= len(slots); step++ {
		i := (s.focus + step) % len(slots)
		if s.sess.Answer(slots[i].Blank.BlankIndex) == "" {
			s.focus = i
			return
		}
	}
}

func (s *PracticeScreen) report(err error) bool {
	if err != nil {
		s.status = err.Error()
		return false
	}
	return true
}

func (s *PracticeScreen) submit() tea.Cmd {
	first, err := s.sess.Submit()
	if err != nil {
		if errors.Is(err, sess.ErrNothingAnswered) {
			s.status = "Answer at least one blank before submitting."
		} else {
			s.status = err.Error()
		}
		return nil
	}
	s.focusBlank(first)
	return nil
}

func (s *PracticeScreen) focusBlank(blankIndex int) {
	for i, slot := range s.slots() {
		if slot.Blank.BlankIndex == blankIndex {
			s.focus = i
			return
		}
	}
}

func (s *PracticeScreen) handleConfidence(key string) (screen.Screen, tea.Cmd) {
	level, err := scoring.ParseConfidence(key)
	if err != nil {
		return s, nil
	}
	next, done, err := s.sess.AdvanceConfidence(level)
	if err != nil {
		s.status = err.Error()
		return s, nil
	}
	if !done {
		s.focusBlank(next)
		return s, nil
	}
	if notice := s.saveNotice(); notice != "" {
		s.deps.Log.Warn("attempt not saved", "exercise", s.sess.Exercise().ID, "error", s.sess.SaveError())
		s.status = notice
	}
	return s, s.showFeedback()
}

func (s *PracticeScreen) showFeedback() tea.Cmd {
	report, ok := s.sess.Result()
	if !ok {
		return nil
	}
	fb := feedback.New(s.sess.Exercise().Title, report)
	fb.SetNotice(s.saveNotice())
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: fb}
	}
}

// saveNotice describes a failed save of the scored attempt, or is empty.
func (s *PracticeScreen) saveNotice() string {
	if err := s.sess.SaveError(); err != nil {
		return "Progress not saved: " + err.Error()
	}
	return ""
}

func (s *PracticeScreen) move(step func() (*exercise.Exercise, error)) tea.Cmd {
	if _, err := step(); err != nil {
		s.status = err.Error()
		return nil
	}
	s.doc = nil
	s.focus = 0
	return s.buildDoc()
}
