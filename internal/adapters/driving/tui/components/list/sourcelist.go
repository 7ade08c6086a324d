// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbase/internal/core/domain"
)

// SourceList displays the sources behind an answer in a navigable list.
// The selected source is shown with its full preview; the others show a
// single line.
type SourceList struct {
	sources  []domain.AnswerSource
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSourceList creates a new source list component.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *SourceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp, tea.KeyPgUp:
			l.MoveUp()
		case tea.KeyDown, tea.KeyPgDown:
			l.MoveDown()
		default:
		}
	}
	return l, nil
}

// View renders the list.
func (l *SourceList) View() string {
	if len(l.sources) == 0 {
		return l.styles.Muted.Render("No sources")
	}

	lines := make([]string, 0, len(l.sources)+3)
	header := l.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(l.sources)))
	lines = append(lines, header, l.styles.Muted.Render("Score is a distance: lower is closer."), "")

	for i := range l.sources {
		lines = append(lines, l.renderSource(i, &l.sources[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *SourceList) renderSource(index int, src *domain.AnswerSource) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	label := Provenance(src.Metadata)
	maxLabelLen := l.width - 20
	if maxLabelLen < 10 {
		maxLabelLen = 10
	}
	if r := []rune(label); len(r) > maxLabelLen {
		label = string(r[:maxLabelLen-3]) + "..."
	}

	score := fmt.Sprintf("%.4f", src.Score)
	var title string
	if index == l.selected {
		title = l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxLabelLen, label, score))
	} else {
		title = l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxLabelLen, label)) +
			l.styles.Muted.Render(score)
	}

	if index != l.selected {
		return title
	}

	body := l.styles.Muted.Width(l.width - 4).PaddingLeft(4).Render(src.Preview())
	return title + "\n" + body + "\n"
}

// Provenance renders source metadata as a short label, for example
// "report.pdf page 3" or "https://example.com".
func Provenance(meta map[string]string) string {
	source := meta[domain.MetaSource]
	if source == "" {
		source = "(unknown)"
	}

	extras := make([]string, 0, len(meta))
	for k, v := range meta {
		if k == domain.MetaSource || v == "" {
			continue
		}
		extras = append(extras, k+" "+v)
	}
	if len(extras) == 0 {
		return source
	}
	sort.Strings(extras)
	return source + " (" + strings.Join(extras, ", ") + ")"
}

// SetSources replaces the listed sources and selects the first.
func (l *SourceList) SetSources(sources []domain.AnswerSource) {
	l.sources = sources
	l.selected = 0
}

// Sources returns the listed sources.
func (l *SourceList) Sources() []domain.AnswerSource {
	return l.sources
}

// Selected returns the index of the selected source.
func (l *SourceList) Selected() int {
	return l.selected
}

// SelectedSource returns the selected source, or nil if the list is empty.
func (l *SourceList) SelectedSource() *domain.AnswerSource {
	if len(l.sources) == 0 {
		return nil
	}
	return &l.sources[l.selected]
}

// MoveUp moves selection up.
func (l *SourceList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SourceList) MoveDown() {
	if l.selected < len(l.sources)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *SourceList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of sources.
func (l *SourceList) Count() int {
	return len(l.sources)
}

// IsEmpty returns whether the list is empty.
func (l *SourceList) IsEmpty() bool {
	return len(l.sources) == 0
}
