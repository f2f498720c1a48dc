// Package home is the exercise browser: type tabs, title search, the
// filtered list and the learner's headline stats.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ptenav/internal/annotate"
	"github.com/abhisek/ptenav/internal/exercise"
	"github.com/abhisek/ptenav/internal/logger"
	"github.com/abhisek/ptenav/internal/navigation"
	"github.com/abhisek/ptenav/internal/router"
	"github.com/abhisek/ptenav/internal/screen"
	"github.com/abhisek/ptenav/internal/screens/history"
	"github.com/abhisek/ptenav/internal/screens/message"
	"github.com/abhisek/ptenav/internal/screens/practice"
	statsscreen "github.com/abhisek/ptenav/internal/screens/stats"
	sess "github.com/abhisek/ptenav/internal/session"
	"github.com/abhisek/ptenav/internal/ui/components"
	"github.com/abhisek/ptenav/internal/ui/layout"
	"github.com/abhisek/ptenav/internal/workspace"
)

// Deps are the collaborators of the home screen.
type Deps struct {
	Workspace *workspace.Workspace
	Session   *sess.Session
	Annotator annotate.Annotator
	Log       *logger.Logger
}

// typeTabs pairs tab labels with navigation type filters.
var typeTabs = []struct {
	label  string
	filter string
}{
	{"All", navigation.TypeAll},
	{exercise.TypeFIBRW.Label(), string(exercise.TypeFIBRW)},
	{exercise.TypeDND.Label(), string(exercise.TypeDND)},
}

// HomeScreen is the main screen of the application.
type HomeScreen struct {
	deps   Deps
	tabs   components.Tabs
	search components.TextInput

	cursor int
	// navIndex is the navigator position last seen, so that moves made
	// on the practice screen carry back to the list.
	navIndex int
	status   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.InputCapturer = (*HomeScreen)(nil)

// New creates a HomeScreen. The session's navigator filter selects the
// initial tab and search text.
func New(deps Deps) *HomeScreen {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	labels := make([]string, len(typeTabs))
	for i, t := range typeTabs {
		labels[i] = t.label
	}
	h := &HomeScreen{
		deps:   deps,
		tabs:   components.NewTabs(labels...),
		search: components.NewTextInput("Search", "title or id", 64),
	}

	f := deps.Session.Navigator().Filter()
	for i, t := range typeTabs {
		if t.filter == f.Type {
			h.tabs.Active = i
		}
	}
	h.search.SetValue(f.Search)
	h.syncCursor()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// CapturingInput reports whether the search box has focus.
func (h *HomeScreen) CapturingInput() bool {
	return h.search.Focused()
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.search.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Practice"},
		{Key: "Tab", Description: "Type"},
		{Key: "/", Description: "Search"},
		{Key: "?", Description: "Recommend"},
		{Key: "h", Description: "History"},
		{Key: "s", Description: "Stats"},
		{Key: "q", Description: "Quit"},
	}
}

func (h *HomeScreen) nav() *navigation.Navigator {
	return h.deps.Session.Navigator()
}

// syncCursor follows the navigator when it moved elsewhere.
func (h *HomeScreen) syncCursor() {
	idx := h.nav().Index()
	if idx != h.navIndex || h.cursor >= h.nav().Len() {
		h.navIndex = idx
		h.cursor = max(idx, 0)
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	h.syncCursor()
	if h.search.Focused() {
		return h.updateSearch(msg)
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}
	h.status = ""

	switch kmsg.String() {
	case "up", "k":
		if h.cursor > 0 {
			h.cursor--
		}
	case "down", "j":
		if h.cursor < h.nav().Len()-1 {
			h.cursor++
		}
	case "home", "g":
		h.cursor = 0
	case "end", "G":
		h.cursor = max(h.nav().Len()-1, 0)
	case "tab", "right", "l":
		h.tabs.Next()
		h.refilter()
	case "shift+tab", "left":
		h.tabs.Prev()
		h.refilter()
	case "/":
		return h, h.search.Focus()
	case "enter":
		return h, h.open()
	case "?":
		return h, h.recommend()
	case "h":
		return h, h.push(history.New(h.deps.Workspace.Events(), h.exerciseTitle))
	case "s":
		return h, h.push(statsscreen.New(h.deps.Workspace))
	case "q":
		return h, tea.Quit
	}
	return h, nil
}

func (h *HomeScreen) updateSearch(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			h.search.Blur()
			return h, nil
		case "esc":
			h.search.SetValue("")
			h.search.Blur()
			h.refilter()
			return h, nil
		}
	}
	before := h.search.Value()
	var cmd tea.Cmd
	h.search, cmd = h.search.Update(msg)
	if h.search.Value() != before {
		h.refilter()
	}
	return h, cmd
}

func (h *HomeScreen) filter() navigation.Filter {
	return navigation.Filter{
		Type:   typeTabs[h.tabs.Active].filter,
		Search: h.search.Value(),
	}
}

func (h *HomeScreen) refilter() {
	h.deps.Session.Refilter(h.filter())
	h.navIndex = h.nav().Index()
	h.cursor = max(h.navIndex, 0)
}

func (h *HomeScreen) open() tea.Cmd {
	if h.nav().Len() == 0 {
		if len(h.deps.Workspace.Exercises()) == 0 {
			return h.push(message.NoExercises())
		}
		h.status = "No exercises match the current filter."
		return nil
	}
	ex := h.deps.Session.Exercise()
	// Returning to the exercise in progress keeps its answers.
	if ex == nil || h.cursor != h.nav().Index() {
		if err := h.deps.Session.SelectExercise(h.cursor); err != nil {
			h.status = err.Error()
			return nil
		}
	}
	h.navIndex = h.nav().Index()
	return h.push(h.practiceScreen())
}

func (h *HomeScreen) recommend() tea.Cmd {
	if _, err := h.deps.Session.Recommend(); err != nil {
		if len(h.deps.Workspace.Exercises()) == 0 {
			return h.push(message.NoExercises())
		}
		h.status = err.Error()
		return nil
	}
	h.navIndex = h.nav().Index()
	h.cursor = h.navIndex
	return h.push(h.practiceScreen())
}

func (h *HomeScreen) practiceScreen() screen.Screen {
	return practice.New(practice.Deps{
		Session:   h.deps.Session,
		Annotator: h.deps.Annotator,
		Settings:  h.deps.Workspace.Settings,
		Log:       h.deps.Log,
	})
}

func (h *HomeScreen) push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

func (h *HomeScreen) exerciseTitle(id string) string {
	if ex, ok := h.deps.Workspace.Exercise(id); ok {
		return ex.Title
	}
	return id
}

// searchActive reports whether a search term narrows the list.
func (h *HomeScreen) searchActive() bool {
	return strings.TrimSpace(h.search.Value()) != ""
}

func (h *HomeScreen) completed(id string) bool {
	return h.deps.Workspace.Stats().IsCompleted(id)
}
