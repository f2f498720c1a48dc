// Package app is the root Bubble Tea model: it owns the screen stack, the
// study clock ticker and the theme.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ptenav/internal/annotate"
	"github.com/abhisek/ptenav/internal/logger"
	"github.com/abhisek/ptenav/internal/navigation"
	"github.com/abhisek/ptenav/internal/router"
	"github.com/abhisek/ptenav/internal/screen"
	"github.com/abhisek/ptenav/internal/screens/home"
	statsscreen "github.com/abhisek/ptenav/internal/screens/stats"
	"github.com/abhisek/ptenav/internal/screens/welcome"
	"github.com/abhisek/ptenav/internal/session"
	"github.com/abhisek/ptenav/internal/ui/layout"
	"github.com/abhisek/ptenav/internal/ui/theme"
	"github.com/abhisek/ptenav/internal/workspace"
)

// studyTickInterval is the study clock resolution.
const studyTickInterval = time.Second

// Options configures the TUI.
type Options struct {
	Workspace *workspace.Workspace
	// Annotator tags parts of speech; nil turns the POS overlay off.
	Annotator annotate.Annotator
	Log       *logger.Logger
	// DefaultType is the initial exercise type filter.
	DefaultType string
	// Notices are shown on the welcome screen.
	Notices []string
	// Now is the clock for the daily streak. Defaults to time.Now.
	Now func() time.Time
}

type studyTickMsg time.Time

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	ws      *workspace.Workspace
	session *session.Session
	log     *logger.Logger
	// darkBackground is reported by the terminal; "system" themes follow it.
	darkBackground bool
	width          int
	height         int
	// notice reports a failed background save until the next key press.
	notice string
}

// newAppModel wires the session to the workspace and starts on the welcome
// screen.
func newAppModel(opts Options) AppModel {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	ws := opts.Workspace

	nav := navigation.New(ws.Exercises(), navigation.Filter{Type: opts.DefaultType})
	sess := session.New(nav, session.Options{
		Resources: ws.Resources,
		ShowTimer: func() bool { return ws.Settings().ShowExerciseTimer },
		Completed: func(id string) bool { return ws.Stats().IsCompleted(id) },
		OnComplete: func(c session.Completion) error {
			err := ws.RecordCompletion(context.Background(), c.Exercise, c.Report.Result,
				c.Answers, c.Confidence, c.Report.Elapsed)
			if err != nil {
				log.Error("completion not saved", "exercise", c.Exercise.ID, "error", err)
			}
			return err
		},
	})
	sess.Start()

	homeScreen := home.New(home.Deps{
		Workspace: ws,
		Session:   sess,
		Annotator: opts.Annotator,
		Log:       log,
	})
	first := welcome.New(func() screen.Screen { return homeScreen }, len(ws.Exercises()), opts.Notices)

	m := AppModel{
		router:         router.New(first),
		ws:             ws,
		session:        sess,
		log:            log,
		darkBackground: true,
	}
	m.applyTheme()
	return m
}

func studyTick() tea.Cmd {
	return tea.Tick(studyTickInterval, func(t time.Time) tea.Msg {
		return studyTickMsg(t)
	})
}

func (m AppModel) Init() tea.Cmd {
	m.ws.StartStudyClock()
	return tea.Batch(
		m.router.Active().Init(),
		tea.RequestBackgroundColor,
		studyTick(),
	)
}

func (m *AppModel) applyTheme() {
	set := m.ws.Settings()
	theme.Use(theme.Pick(set.Theme, set.HighContrastEnabled, m.darkBackground))
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.BackgroundColorMsg:
		m.darkBackground = msg.IsDark()
		m.applyTheme()
		return m, nil

	case statsscreen.SettingsChangedMsg:
		m.applyTheme()
		return m, nil

	case studyTickMsg:
		if err := m.ws.TickStudyTime(context.Background()); err != nil {
			m.log.Warn("study time not saved", "error", err)
			m.notice = "Study time not saved: " + err.Error()
		}
		return m, studyTick()

	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	studyTime := ""
	if m.ws.Settings().ShowExerciseTimer {
		studyTime = m.ws.Clock().String()
	}
	header := layout.RenderHeader(title, m.ws.Stats().DailyStreak, studyTime, m.width)
	footer := m.renderFooter(active)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// renderFooter renders the key hints, preceded by the pending notice.
func (m AppModel) renderFooter(active screen.Screen) string {
	footer := layout.RenderFooter(m.footerHints(active), m.width)
	if m.notice == "" {
		return footer
	}
	return layout.RenderNotice(m.notice, m.width) + "\n" + footer
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

// Run updates the daily streak and starts the Bubble Tea program. The
// study clock is stopped and saved on exit.
func Run(ctx context.Context, opts Options) error {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	if err := opts.Workspace.TouchStreak(ctx, now()); err != nil {
		log.Warn("streak not saved", "error", err)
	}

	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	_, err := p.Run()
	if stopErr := opts.Workspace.StopStudyClock(context.Background()); stopErr != nil {
		log.Warn("study time not saved", "error", stopErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
