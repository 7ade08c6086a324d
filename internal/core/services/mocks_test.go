package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// mockLLM records prompts and answers with respond.
type mockLLM struct {
	mu      sync.Mutex
	prompts []string
	opts    []driven.GenerateOptions
	respond func(prompt string) (string, error)
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()
	return m.respond(prompt)
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// groundedLLM follows the prompt contract: it answers from the context block
// when the context mentions want, and refuses otherwise.
func groundedLLM(want, answer string) *mockLLM {
	return &mockLLM{respond: func(prompt string) (string, error) {
		context := between(prompt, "Context:\n", "\n\nQuestion:")
		if strings.Contains(context, want) {
			return answer, nil
		}
		return domain.RefusalAnswer, nil
	}}
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	s = s[i+len(start):]
	if j := strings.Index(s, end); j >= 0 {
		return s[:j]
	}
	return s
}

// stubIndex returns fixed hits and records the requested k.
type stubIndex struct {
	hits  []domain.RetrievalHit
	err   error
	gotK  int
	calls int
}

func (s *stubIndex) Search(_ context.Context, _ string, k int) ([]domain.RetrievalHit, error) {
	s.calls++
	s.gotK = k
	if s.err != nil {
		return nil, s.err
	}
	if k < len(s.hits) {
		return s.hits[:k], nil
	}
	return s.hits, nil
}

func (s *stubIndex) Len() int          { return len(s.hits) }
func (s *stubIndex) ModelName() string { return "stub" }

// stubLoader maps a source label to its documents or error.
type stubLoader struct {
	docs map[string][]domain.Document
	errs map[string]error
}

func (l *stubLoader) Load(_ context.Context, src domain.SourceDescriptor) ([]domain.Document, error) {
	if err, ok := l.errs[src.Label()]; ok {
		return nil, err
	}
	return l.docs[src.Label()], nil
}

// stubPrompts serves a single template.
type stubPrompts struct {
	template string
	err      error
}

func (p *stubPrompts) Load(_ string) (string, error) { return p.template, p.err }

func doc(source, content string) domain.Document {
	return domain.Document{
		ID:       source,
		Content:  content,
		Metadata: map[string]string{domain.MetaSource: source},
	}
}
