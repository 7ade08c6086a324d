package sources

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbase/internal/core/domain"
)

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.Equal(t, 0, v.Count())
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "No sources")
}

func TestView_SetSources(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(120, 30)

	v.SetSources([]domain.AnswerSource{
		{Content: "Paris is the capital of France.", Metadata: map[string]string{"source": "facts.txt"}, Score: 0.3},
	})

	assert.Equal(t, 1, v.Count())
	view := v.View()
	assert.Contains(t, view, "facts.txt")
	assert.Contains(t, view, "0.3000")
	assert.Contains(t, view, "esc: back")
}

func TestView_EscReturnsToChat(t *testing.T) {
	v := NewView(nil, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewChat}, cmd())
}

func TestView_NavigatesList(t *testing.T) {
	v := NewView(nil, nil)
	v.SetSources([]domain.AnswerSource{{Content: "a"}, {Content: "b"}})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Nil(t, cmd)
	assert.Equal(t, 1, v.list.Selected())
}
