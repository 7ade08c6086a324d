// Package styles holds the colour palette and lipgloss styles of the chat TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the colour palette. Accent colours must stay distinct from each
// other so questions, answers, refusals and errors never look alike.
type Theme struct {
	Primary    lipgloss.Color // questions, titles, selection
	Secondary  lipgloss.Color // headings
	Foreground lipgloss.Color
	Muted      lipgloss.Color // sources, scores, hints
	Warning    lipgloss.Color // refusals
	Error      lipgloss.Color
	Border     lipgloss.Color
	Bar        lipgloss.Color // status bar background
}

// DefaultTheme is a dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    "#7C3AED",
		Secondary:  "#06B6D4",
		Foreground: "#CDD6F4",
		Muted:      "#6C7086",
		Warning:    "#F9E2AF",
		Error:      "#F38BA8",
		Border:     "#45475A",
		Bar:        "#181825",
	}
}

// Styles are the rendered styles for one Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style

	Question lipgloss.Style
	Answer   lipgloss.Style
	// Refusal renders the fixed no-evidence answer apart from real answers.
	Refusal lipgloss.Style

	Input     lipgloss.Style
	StatusBar lipgloss.Style
}

// NewStyles builds the styles for theme, or for DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	answer := fg(theme.Foreground).PaddingLeft(2)

	return &Styles{
		theme:    theme,
		Title:    fg(theme.Primary).Bold(true),
		Subtitle: fg(theme.Secondary).Bold(true),
		Normal:   fg(theme.Foreground),
		Muted:    fg(theme.Muted),
		Selected: fg(theme.Foreground).Background(theme.Primary).Bold(true),
		Warning:  fg(theme.Warning),
		Error:    fg(theme.Error),

		Question: fg(theme.Primary).Bold(true),
		Answer:   answer,
		Refusal:  answer.Foreground(theme.Warning).Italic(true),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: fg(theme.Muted).Background(theme.Bar).Padding(0, 1),
	}
}

func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
