package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for kbase resources.
	uriScheme = "kbase://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Statistics of the current knowledge base",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Questions and answers asked so far, oldest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	// Template for a single exchange, numbered from 1.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{n}",
		Name:        "exchange",
		Description: "One question and its answer",
		MIMEType:    "text/plain",
	}, s.handleExchangeResource)
}

// statsInfo is the stats resource body.
type statsInfo struct {
	Ready       bool    `json:"ready"`
	Documents   int     `json:"documents"`
	Chunks      int     `json:"chunks"`
	AvgChunkLen float64 `json:"avg_chunk_len"`
}

// handleStatsResource reports whether a knowledge base exists and what it holds.
func (s *Server) handleStatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info := statsInfo{}
	if stats, ok := s.ports.Session.Stats(); ok {
		info = statsInfo{
			Ready:       true,
			Documents:   stats.Documents,
			Chunks:      stats.Chunks,
			AvgChunkLen: stats.AvgChunkLen,
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handleHistoryResource returns every recorded exchange.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, []byte("[]")), nil
	}

	exchanges, err := s.ports.History.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	type exchangeInfo struct {
		Query     string `json:"query"`
		Answer    string `json:"answer"`
		CreatedAt string `json:"created_at"`
	}

	infos := make([]exchangeInfo, len(exchanges))
	for i := range exchanges {
		infos[i] = exchangeInfo{
			Query:     exchanges[i].Query,
			Answer:    exchanges[i].Answer,
			CreatedAt: exchanges[i].CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handleExchangeResource returns one exchange as plain text.
func (s *Server) handleExchangeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	n := extractExchangeNumber(req.Params.URI)
	if n == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	exchanges, err := s.ports.History.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	if n > len(exchanges) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ex := exchanges[n-1]
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     "Q: " + ex.Query + "\n\nA: " + ex.Answer,
		}},
	}, nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// extractExchangeNumber extracts n from a URI like kbase://history/{n}.
// Returns 0 when the URI does not name a positive exchange number.
func extractExchangeNumber(uri string) int {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return 0
	}

	n, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || n < 1 {
		return 0
	}
	return n
}
