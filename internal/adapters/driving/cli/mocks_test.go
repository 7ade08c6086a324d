package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/kbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/core/services"
)

type mockSession struct {
	mu        sync.Mutex
	sources   []domain.SourceDescriptor
	result    *driving.IngestResult
	ingestErr error
	packet    *domain.AnswerPacket
	askErr    error
	questions []string
	ready     bool
}

func newMockSession() *mockSession {
	return &mockSession{
		result: &driving.IngestResult{
			Stats: domain.IngestStats{Documents: 2, Chunks: 5, AvgChunkLen: 412.4},
		},
		packet: &domain.AnswerPacket{
			Answer: "Paris is the capital of France.",
			Sources: []domain.AnswerSource{
				{
					Content:  "Paris is the capital and largest city of France.",
					Metadata: map[string]string{domain.MetaSource: "notes.txt"},
					Score:    0.1234,
				},
			},
		},
	}
}

func (m *mockSession) Ingest(_ context.Context, sources []domain.SourceDescriptor) (*driving.IngestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = append(m.sources, sources...)
	if m.ingestErr != nil {
		return m.result, m.ingestErr
	}
	m.ready = true
	return m.result, nil
}

func (m *mockSession) Ask(_ context.Context, query string) (*domain.AnswerPacket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, query)
	if !m.ready {
		return nil, domain.ErrIndexUnavailable
	}
	if m.askErr != nil {
		return nil, m.askErr
	}
	return m.packet, nil
}

func (m *mockSession) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func (m *mockSession) Stats() (domain.IngestStats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return domain.IngestStats{}, false
	}
	return m.result.Stats, true
}

func (m *mockSession) ingestedSources() []domain.SourceDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SourceDescriptor(nil), m.sources...)
}

type mockHistory struct {
	mu        sync.Mutex
	exchanges []domain.Exchange
	err       error
}

func (m *mockHistory) Record(_ context.Context, query, answer string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.exchanges = append(m.exchanges, domain.Exchange{
		ID:        query,
		Query:     query,
		Answer:    answer,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	return nil
}

func (m *mockHistory) List(_ context.Context) ([]domain.Exchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.Exchange(nil), m.exchanges...), nil
}

func (m *mockHistory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.exchanges = nil
	return nil
}

// testEnv holds the fakes wired into the command tree by setupTestServices.
type testEnv struct {
	session  *mockSession
	history  *mockHistory
	settings *services.SettingsService
	out      *bytes.Buffer
}

// setupTestServices replaces every service the commands use with fakes and
// restores the originals when the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	oldSettings := settingsService
	oldSessionFactory := sessionFactory
	oldHistoryFactory := historyFactory
	oldIsTerminal := isTerminal

	env := &testEnv{
		session:  newMockSession(),
		history:  &mockHistory{},
		settings: services.NewSettingsService(memory.NewConfigStore(), nil),
		out:      new(bytes.Buffer),
	}

	settingsService = env.settings
	sessionFactory = func(*domain.AppSettings) (driving.Session, func(), error) {
		return env.session, func() {}, nil
	}
	historyFactory = func() (driving.HistoryService, func(), error) {
		return env.history, func() {}, nil
	}
	isTerminal = func() bool { return false }

	rootCmd.SetOut(env.out)
	rootCmd.SetErr(env.out)
	rootCmd.SetIn(strings.NewReader(""))

	t.Cleanup(func() {
		settingsService = oldSettings
		sessionFactory = oldSessionFactory
		historyFactory = oldHistoryFactory
		isTerminal = oldIsTerminal
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	})
	return env
}

// execute runs the root command with args.
func execute(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// resetFlags clears flag values left behind by an earlier Execute.
func resetFlags() {
	askSources.reset()
	ingestSources.reset()
	chatSources.reset()
	mcpSources.reset()
	askJSON, askYAML, ingestJSON = false, false, false
	chatWatch, chatPlain = false, false
	verbose, ephemeral, configDir = false, false, ""

	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		reset := func(f *pflag.Flag) { f.Changed = false }
		cmd.Flags().VisitAll(reset)
		cmd.PersistentFlags().VisitAll(reset)
		for _, child := range cmd.Commands() {
			walk(child)
		}
	}
	walk(rootCmd)
}
