package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/router"
	"github.com/abhisek/ptenav/internal/screen"
	"github.com/abhisek/ptenav/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 300 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

const bookArt = `   ______ ______
  /      |      \
 |  ___  |  ___  |
 |  ___  |  ___  |
 |_______|_______|`

// cursor frames blink under the banner
var cursorFrames = []string{"▍", " "}

type tickMsg time.Time

// WelcomeScreen shows the banner and any problems found while loading saved
// data, then hands over to the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	notices      []string
	exercises    int
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by
// homeFactory. notices are shown until a key is pressed.
func New(homeFactory func() screen.Screen, exercises int, notices []string) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
		exercises:   exercises,
		notices:     notices,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tea.Tick(tickInterval, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Secondary).Render(bookArt))

	if w.elapsed >= phase1End {
		sections = append(sections, "", RenderBanner(width), "")

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Reading & writing practice, one blank at a time")
		sections = append(sections, tagline)

		count := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("%d exercises loaded", w.exercises))
		sections = append(sections, count)
	}

	if len(w.notices) > 0 {
		sections = append(sections, "")
		warn := lipgloss.NewStyle().Foreground(theme.Warning)
		for _, n := range w.notices {
			sections = append(sections, warn.Render("! "+n))
		}
	}

	if w.elapsed >= totalDur {
		frame := cursorFrames[w.tickCount%len(cursorFrames)]
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue " + frame)
		sections = append(sections, "", hint)
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
