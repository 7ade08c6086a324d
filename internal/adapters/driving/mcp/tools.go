package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/loaders"
	"github.com/custodia-labs/kbase/internal/logger"
)

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	URLs  []string `json:"urls,omitempty" jsonschema:"web pages to load"`
	Paths []string `json:"paths,omitempty" jsonschema:"local pdf, txt or csv files to load"`
	Texts []string `json:"texts,omitempty" jsonschema:"raw text to add as documents"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Documents   int      `json:"documents"`
	Chunks      int      `json:"chunks"`
	AvgChunkLen float64  `json:"avg_chunk_len"`
	Failures    []string `json:"failures,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested sources"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Refused bool           `json:"refused"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput is one retrieved chunk. Score is a distance: lower is closer.
type SourceOutput struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Build a new knowledge base from URLs, local files and text",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the ingested sources",
	}, s.handleAsk)
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	sources, err := loaders.Collect(input.URLs, input.Paths, input.Texts)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	result, err := s.ports.Session.Ingest(ctx, sources)
	output := IngestOutput{}
	if result != nil {
		output.Documents = result.Stats.Documents
		output.Chunks = result.Stats.Chunks
		output.AvgChunkLen = result.Stats.AvgChunkLen
		for _, f := range result.Failures {
			output.Failures = append(output.Failures, f.Error())
		}
	}
	if err != nil {
		return nil, output, err
	}

	logger.Info("mcp: ingested %d document(s) into %d chunk(s)", output.Documents, output.Chunks)
	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.Question == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	packet, err := s.ports.Session.Ask(ctx, input.Question)
	if errors.Is(err, domain.ErrIndexUnavailable) {
		return nil, AskOutput{}, fmt.Errorf("%w: call ingest first", err)
	}
	if err != nil {
		return nil, AskOutput{}, err
	}

	if s.ports.History != nil {
		if err := s.ports.History.Record(ctx, input.Question, packet.Answer); err != nil {
			logger.Warn("mcp: failed to record history: %v", err)
		}
	}

	output := AskOutput{
		Answer:  packet.Answer,
		Refused: packet.IsRefusal(),
		Sources: make([]SourceOutput, len(packet.Sources)),
	}
	for i := range packet.Sources {
		output.Sources[i] = SourceOutput{
			Content:  packet.Sources[i].Content,
			Metadata: packet.Sources[i].Metadata,
			Score:    packet.Sources[i].Score,
		}
	}

	return nil, output, nil
}
