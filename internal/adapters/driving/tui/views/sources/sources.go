// Package sources provides the view listing the chunks behind the last answer.
package sources

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbase/internal/core/domain"
)

// View shows the retrieved sources with their distances.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.SourceList
	statusbar *status.Bar
	width     int
	height    int
}

// NewView creates a sources view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetState(status.StateSources)

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewSourceList(s),
		statusbar: bar,
		width:     80,
		height:    24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the sources view.
// Esc returns to the chat.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), v.keymap.Back) {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewChat}
			}
		}
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd
	}
	return v, nil
}

// View renders the sources view.
func (v *View) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("Sources of the last answer"),
		"",
		v.list.View(),
		"",
		v.statusbar.View(),
	)
}

// SetSources replaces the listed sources.
func (v *View) SetSources(sources []domain.AnswerSource) {
	v.list.SetSources(sources)
}

// SetStats shows the knowledge base statistics in the status bar.
func (v *View) SetStats(stats domain.IngestStats) {
	v.statusbar.SetStats(stats)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-4)
	v.statusbar.SetWidth(width)
}

// Count returns the number of listed sources.
func (v *View) Count() int {
	return v.list.Count()
}
