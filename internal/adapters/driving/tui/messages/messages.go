// Package messages defines Bubbletea message types for the chat TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/kbase/internal/core/domain"
)

// QuestionAsked is sent when the user submits a question.
type QuestionAsked struct {
	Question string
}

// AnswerReceived carries the answer to a question back to the model.
type AnswerReceived struct {
	Question string
	Packet   *domain.AnswerPacket
	Err      error
}

// Reingested is sent after the knowledge base has been rebuilt from the
// watched sources. On error the previous knowledge base is still in use.
type Reingested struct {
	Stats domain.IngestStats
	Err   error
}

// HistoryLoaded carries previously recorded exchanges.
type HistoryLoaded struct {
	Exchanges []domain.Exchange
	Err       error
}

// HistoryCleared signals the history was reset.
type HistoryCleared struct {
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the transcript and question input.
	ViewChat ViewType = iota
	// ViewSources lists the chunks behind the last answer.
	ViewSources
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewSources:
		return "sources"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
