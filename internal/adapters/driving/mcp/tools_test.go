package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
)

func newTestServer(t *testing.T, session *mockSession, history *mockHistory) *Server {
	t.Helper()
	ports := &Ports{Session: session}
	if history != nil {
		ports.History = history
	}
	server, err := NewServer(ports, "test")
	require.NoError(t, err)
	return server
}

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ingest stats", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("notes"), 0o600))

		session := &mockSession{
			result: &driving.IngestResult{
				Stats: domain.IngestStats{Documents: 3, Chunks: 7, AvgChunkLen: 412.5},
			},
		}
		server := newTestServer(t, session, nil)

		input := IngestInput{
			URLs:  []string{"https://example.com"},
			Paths: []string{path},
			Texts: []string{"Paris is the capital of France."},
		}
		_, output, err := server.handleIngest(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 3, output.Documents)
		assert.Equal(t, 7, output.Chunks)
		assert.Equal(t, 412.5, output.AvgChunkLen)
		require.Len(t, session.ingested, 3)
		assert.Equal(t, domain.SourceKindURL, session.ingested[0].Kind)
		assert.Equal(t, domain.SourceKindTXT, session.ingested[1].Kind)
		assert.Equal(t, domain.SourceKindText, session.ingested[2].Kind)
	})

	t.Run("reports failures alongside empty content", func(t *testing.T) {
		loadErr := domain.NewSourceLoadError(domain.URLSource("https://bad.example"), errors.New("timeout"))
		session := &mockSession{
			result:    &driving.IngestResult{Failures: []*domain.SourceLoadError{loadErr}},
			ingestErr: domain.ErrEmptyContent,
		}
		server := newTestServer(t, session, nil)

		_, output, err := server.handleIngest(ctx, nil, IngestInput{URLs: []string{"https://bad.example"}})

		require.ErrorIs(t, err, domain.ErrEmptyContent)
		require.Len(t, output.Failures, 1)
		assert.Contains(t, output.Failures[0], "timeout")
	})

	t.Run("unsupported file is rejected before ingesting", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.pptx")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

		session := &mockSession{}
		server := newTestServer(t, session, nil)

		_, _, err := server.handleIngest(ctx, nil, IngestInput{Paths: []string{path}})

		require.ErrorIs(t, err, domain.ErrUnsupportedType)
		assert.Nil(t, session.ingested)
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources and records history", func(t *testing.T) {
		session := &mockSession{
			packet: &domain.AnswerPacket{
				Answer: "Paris.",
				Sources: []domain.AnswerSource{
					{Content: "Paris is the capital of France.", Metadata: map[string]string{"source": "direct_input"}, Score: 0.12},
				},
			},
		}
		history := &mockHistory{}
		server := newTestServer(t, session, history)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "What is the capital of France?"})

		require.NoError(t, err)
		assert.Equal(t, "Paris.", output.Answer)
		assert.False(t, output.Refused)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, 0.12, output.Sources[0].Score)
		assert.Equal(t, "What is the capital of France?", session.asked)
		require.Len(t, history.exchanges, 1)
		assert.Equal(t, "Paris.", history.exchanges[0].Answer)
	})

	t.Run("flags refusals", func(t *testing.T) {
		session := &mockSession{packet: &domain.AnswerPacket{Answer: domain.RefusalAnswer}}
		server := newTestServer(t, session, nil)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "Who won in 1930?"})

		require.NoError(t, err)
		assert.True(t, output.Refused)
	})

	t.Run("empty question is invalid", func(t *testing.T) {
		server := newTestServer(t, &mockSession{}, nil)

		_, _, err := server.handleAsk(ctx, nil, AskInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no knowledge base asks for ingest", func(t *testing.T) {
		session := &mockSession{askErr: domain.ErrIndexUnavailable}
		server := newTestServer(t, session, nil)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "anything"})

		require.ErrorIs(t, err, domain.ErrIndexUnavailable)
		assert.Contains(t, err.Error(), "call ingest first")
	})

	t.Run("history failure does not fail the answer", func(t *testing.T) {
		session := &mockSession{packet: &domain.AnswerPacket{Answer: "Paris."}}
		server := newTestServer(t, session, &mockHistory{err: errors.New("disk full")})

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "capital?"})

		require.NoError(t, err)
		assert.Equal(t, "Paris.", output.Answer)
	})
}
