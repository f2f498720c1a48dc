package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is a full set of UI colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgDark    color.Color
	BgCard    color.Color
	Border    color.Color
	Clue      color.Color
}

// Dark is the default palette.
var Dark = Palette{
	Primary:   lipgloss.Color("#6366F1"), // Indigo
	Secondary: lipgloss.Color("#14B8A6"), // Teal
	Accent:    lipgloss.Color("#F59E0B"), // Amber
	Success:   lipgloss.Color("#22C55E"),
	Warning:   lipgloss.Color("#EAB308"),
	Error:     lipgloss.Color("#F43F5E"),
	Text:      lipgloss.Color("#F8FAFC"),
	TextDim:   lipgloss.Color("#94A3B8"),
	BgDark:    lipgloss.Color("#0F172A"),
	BgCard:    lipgloss.Color("#1E293B"),
	Border:    lipgloss.Color("#334155"),
	Clue:      lipgloss.Color("#FDE68A"),
}

// Light suits light terminal backgrounds.
var Light = Palette{
	Primary:   lipgloss.Color("#4338CA"),
	Secondary: lipgloss.Color("#0F766E"),
	Accent:    lipgloss.Color("#B45309"),
	Success:   lipgloss.Color("#15803D"),
	Warning:   lipgloss.Color("#A16207"),
	Error:     lipgloss.Color("#BE123C"),
	Text:      lipgloss.Color("#0F172A"),
	TextDim:   lipgloss.Color("#475569"),
	BgDark:    lipgloss.Color("#F8FAFC"),
	BgCard:    lipgloss.Color("#E2E8F0"),
	Border:    lipgloss.Color("#94A3B8"),
	Clue:      lipgloss.Color("#92400E"),
}

// HighContrast trades color nuance for legibility.
var HighContrast = Palette{
	Primary:   lipgloss.Color("#FFFF00"),
	Secondary: lipgloss.Color("#00FFFF"),
	Accent:    lipgloss.Color("#FF00FF"),
	Success:   lipgloss.Color("#00FF00"),
	Warning:   lipgloss.Color("#FFFF00"),
	Error:     lipgloss.Color("#FF0000"),
	Text:      lipgloss.Color("#FFFFFF"),
	TextDim:   lipgloss.Color("#FFFFFF"),
	BgDark:    lipgloss.Color("#000000"),
	BgCard:    lipgloss.Color("#000000"),
	Border:    lipgloss.Color("#FFFFFF"),
	Clue:      lipgloss.Color("#00FFFF"),
}

// Color palette, set by Apply.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgDark    color.Color
	BgCard    color.Color
	Border    color.Color
	ClueColor color.Color
)

// Typography
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
)

// Layout
var (
	Header lipgloss.Style
	Footer lipgloss.Style
	Card   lipgloss.Style
)

// States
var (
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style
)

// Passage
var (
	Clue         lipgloss.Style
	POSLabel     lipgloss.Style
	Blank        lipgloss.Style
	BlankFocused lipgloss.Style
	BlankEmpty   lipgloss.Style
	TermLink     lipgloss.Style
)

// Components
var (
	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style
)

func init() {
	Use(Dark)
}

// Pick returns the palette for a theme setting. "system" follows the
// terminal background.
func Pick(name string, highContrast, darkBackground bool) Palette {
	switch {
	case highContrast:
		return HighContrast
	case name == "light":
		return Light
	case name == "dark":
		return Dark
	case darkBackground:
		return Dark
	default:
		return Light
	}
}

// Use installs a palette and rebuilds every style.
func Use(p Palette) {
	Primary, Secondary, Accent = p.Primary, p.Secondary, p.Accent
	Success, Warning, Error = p.Success, p.Warning, p.Error
	Text, TextDim = p.Text, p.TextDim
	BgDark, BgCard, Border = p.BgDark, p.BgCard, p.Border
	ClueColor = p.Clue

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().
		Foreground(TextDim).
		Align(lipgloss.Center)
	Body = lipgloss.NewStyle().
		Foreground(Text)
	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)
	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Selected = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)
	Unselected = lipgloss.NewStyle().
		Foreground(Text)
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)
	Incorrect = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Clue = lipgloss.NewStyle().
		Foreground(ClueColor).
		Underline(true)
	POSLabel = lipgloss.NewStyle().
		Foreground(Secondary).
		Faint(true)
	Blank = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
	BlankFocused = lipgloss.NewStyle().
		Foreground(BgDark).
		Background(Accent).
		Bold(true)
	BlankEmpty = lipgloss.NewStyle().
		Foreground(TextDim)
	TermLink = lipgloss.NewStyle().
		Foreground(Secondary).
		Underline(true)

	ProgressFilled = lipgloss.NewStyle().
		Background(Secondary)
	ProgressEmpty = lipgloss.NewStyle().
		Background(Border)
	ButtonActive = lipgloss.NewStyle().
		Background(Primary).
		Foreground(BgDark).
		Bold(true).
		Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().
		Foreground(TextDim).
		Padding(0, 2)
}

// DifficultyColor is the badge color for an exercise difficulty label.
func DifficultyColor(label string) color.Color {
	switch label {
	case "Easy":
		return Success
	case "Hard":
		return Error
	default:
		return Warning
	}
}
