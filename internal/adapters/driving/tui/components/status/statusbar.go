// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbase/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady       State = "ready"
	StateNoIndex     State = "no_index"
	StateThinking    State = "thinking"
	StateReingesting State = "reingesting"
	StateError       State = "error"
	StateSources     State = "sources"
)

// Bar displays the knowledge base statistics and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	stats   *domain.IngestStats
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateNoIndex,
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return b, nil
}

// View renders the status bar on exactly one line of b.width cells. When the
// hints and the status do not both fit, the status is dropped first.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	inner := max(b.width-b.styles.StatusBar.GetHorizontalFrameSize(), 0)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		left = ""
		gap = max(inner-lipgloss.Width(right), 0)
	}

	// MaxWidth truncates instead of wrapping.
	return b.styles.StatusBar.MaxWidth(b.width).Render(
		left + strings.Repeat(" ", gap) + right,
	)
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateThinking:
		return b.styles.Muted.Render("Thinking...")
	case StateReingesting:
		return b.styles.Muted.Render("Rebuilding knowledge base...")
	case StateError:
		if b.message != "" {
			return b.styles.Error.Render(fmt.Sprintf("Error: %s", b.message))
		}
		return b.styles.Error.Render("Error")
	case StateNoIndex:
		return b.styles.Warning.Render("No knowledge base")
	case StateReady, StateSources:
		if b.stats != nil {
			return b.styles.Normal.Render(FormatStats(*b.stats))
		}
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) renderRight() string {
	var bindings []key.Binding
	if b.state == StateSources {
		bindings = b.keymap.SourcesHelp()
	} else {
		bindings = b.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// FormatStats renders ingestion statistics on one line.
func FormatStats(stats domain.IngestStats) string {
	return fmt.Sprintf("%d docs | %d chunks | avg %.2f chars",
		stats.Documents, stats.Chunks, stats.AvgChunkLen)
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets a custom message.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetStats records the statistics of the current knowledge base.
func (b *Bar) SetStats(stats domain.IngestStats) {
	b.stats = &stats
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}
