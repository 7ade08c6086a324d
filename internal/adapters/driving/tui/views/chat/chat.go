// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/logger"
)

// entry is one rendered exchange in the transcript.
type entry struct {
	question string
	answer   string
	refusal  bool
	err      error
	sources  int
}

// View shows the transcript above a question input and a status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript viewport.Model
	statusbar  *status.Bar

	session driving.Session
	history driving.HistoryService
	ctx     context.Context

	entries     []entry
	lastSources []domain.AnswerSource
	thinking    bool
	width       int
	height      int
}

// NewView creates a chat view. history may be nil, in which case nothing
// is recorded or restored.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.Session,
	history driving.HistoryService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: viewport.New(80, 16),
		statusbar:  status.NewBar(s, km),
		session:    session,
		history:    history,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
	v.syncStatus()
	v.refresh()
	return v
}

// WithContext sets the context used for questions and history calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blinking and restores earlier exchanges.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadHistory())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.AnswerReceived:
		return v, v.handleAnswer(msg)

	case messages.Reingested:
		v.handleReingested(msg)
		return v, nil

	case messages.HistoryLoaded:
		v.handleHistoryLoaded(msg)
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.showError(msg.Err)
			return v, nil
		}
		v.entries = nil
		v.lastSources = nil
		v.syncStatus()
		v.refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.showError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	if msg.Type == tea.KeyRunes {
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Send):
		return v, v.submit()
	case keymap.Matches(k, v.keymap.ClearHistory):
		return v, v.clearHistory()
	case keymap.Matches(k, v.keymap.Up):
		v.transcript.LineUp(1)
		return v, nil
	case keymap.Matches(k, v.keymap.Down):
		v.transcript.LineDown(1)
		return v, nil
	}

	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit asks the typed question. Nothing happens while an answer is pending
// or the input is blank.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.thinking {
		return nil
	}
	v.input.Reset()
	v.thinking = true
	v.statusbar.SetState(status.StateThinking)
	v.refreshPending(question)
	return v.ask(question)
}

func (v *View) ask(question string) tea.Cmd {
	session := v.session
	ctx := v.ctx
	return func() tea.Msg {
		packet, err := session.Ask(ctx, question)
		return messages.AnswerReceived{Question: question, Packet: packet, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) tea.Cmd {
	v.thinking = false
	e := entry{question: msg.Question, err: msg.Err}
	if msg.Err == nil && msg.Packet != nil {
		e.answer = msg.Packet.Answer
		e.refusal = msg.Packet.IsRefusal()
		e.sources = len(msg.Packet.Sources)
		v.lastSources = msg.Packet.Sources
	}
	v.entries = append(v.entries, e)

	if msg.Err != nil {
		v.showError(msg.Err)
		v.refresh()
		return nil
	}
	v.syncStatus()
	v.refresh()
	return v.record(msg.Question, e.answer)
}

func (v *View) record(question, answer string) tea.Cmd {
	if v.history == nil {
		return nil
	}
	history := v.history
	ctx := v.ctx
	return func() tea.Msg {
		if err := history.Record(ctx, question, answer); err != nil {
			logger.Warn("failed to record history: %v", err)
		}
		return nil
	}
}

func (v *View) loadHistory() tea.Cmd {
	if v.history == nil {
		return nil
	}
	history := v.history
	ctx := v.ctx
	return func() tea.Msg {
		exchanges, err := history.List(ctx)
		return messages.HistoryLoaded{Exchanges: exchanges, Err: err}
	}
}

func (v *View) clearHistory() tea.Cmd {
	history := v.history
	ctx := v.ctx
	return func() tea.Msg {
		if history == nil {
			return messages.HistoryCleared{}
		}
		return messages.HistoryCleared{Err: history.Reset(ctx)}
	}
}

func (v *View) handleHistoryLoaded(msg messages.HistoryLoaded) {
	if msg.Err != nil {
		logger.Warn("failed to load history: %v", msg.Err)
		return
	}
	restored := make([]entry, 0, len(msg.Exchanges)+len(v.entries))
	for _, ex := range msg.Exchanges {
		restored = append(restored, entry{
			question: ex.Query,
			answer:   ex.Answer,
			refusal:  strings.TrimSpace(ex.Answer) == domain.RefusalAnswer,
		})
	}
	v.entries = append(restored, v.entries...)
	v.refresh()
}

func (v *View) handleReingested(msg messages.Reingested) {
	if msg.Err != nil {
		v.showError(fmt.Errorf("rebuild failed, keeping previous knowledge base: %w", msg.Err))
		return
	}
	v.statusbar.SetStats(msg.Stats)
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

func (v *View) showError(err error) {
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// syncStatus derives the status bar from the session.
func (v *View) syncStatus() {
	if v.session == nil || !v.session.Ready() {
		v.statusbar.SetState(status.StateNoIndex)
		return
	}
	if stats, ok := v.session.Stats(); ok {
		v.statusbar.SetStats(stats)
	}
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

func (v *View) refresh() {
	v.transcript.SetContent(v.render(""))
	v.transcript.GotoBottom()
}

func (v *View) refreshPending(question string) {
	v.transcript.SetContent(v.render(question))
	v.transcript.GotoBottom()
}

// render draws the transcript, with pending shown as an unanswered question.
func (v *View) render(pending string) string {
	if len(v.entries) == 0 && pending == "" {
		return v.styles.Muted.Render("Ask a question. Answers come only from the ingested sources.")
	}

	wrap := v.width - 4
	if wrap < 20 {
		wrap = 20
	}

	var b strings.Builder
	for _, e := range v.entries {
		b.WriteString(v.styles.Question.Render("You: " + e.question))
		b.WriteString("\n")
		switch {
		case e.err != nil:
			b.WriteString(v.styles.Error.PaddingLeft(2).Width(wrap).Render(describe(e.err)))
		case e.refusal:
			b.WriteString(v.styles.Refusal.Width(wrap).Render(e.answer))
		default:
			b.WriteString(v.styles.Answer.Width(wrap).Render(e.answer))
		}
		if e.sources > 0 {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.PaddingLeft(2).Render(fmt.Sprintf("%d source(s)", e.sources)))
		}
		b.WriteString("\n\n")
	}
	if pending != "" {
		b.WriteString(v.styles.Question.Render("You: " + pending))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.PaddingLeft(2).Render("..."))
	}
	return strings.TrimRight(b.String(), "\n")
}

// describe turns pipeline errors into something a user can act on.
func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrIndexUnavailable):
		return "No knowledge base yet. Restart chat with --url, --file or --text."
	case errors.Is(err, domain.ErrGeneration):
		return "The language model failed: " + err.Error()
	default:
		return err.Error()
	}
}

// View renders the chat view.
func (v *View) View() string {
	title := v.styles.Title.Render("kbase")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions resizes the transcript to fill the space left by the
// title, input and status bar.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	// title, two spacers, bordered input (3) and status bar
	h := height - 7
	if h < 3 {
		h = 3
	}
	v.transcript.Width = width
	v.transcript.Height = h
	v.refresh()
}

// LastSources returns the sources behind the most recent answer.
func (v *View) LastSources() []domain.AnswerSource {
	return v.lastSources
}

// Thinking reports whether an answer is pending.
func (v *View) Thinking() bool {
	return v.thinking
}

// Exchanges returns how many exchanges the transcript shows.
func (v *View) Exchanges() int {
	return len(v.entries)
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// InputValue returns the text currently typed.
func (v *View) InputValue() string {
	return v.input.Value()
}
