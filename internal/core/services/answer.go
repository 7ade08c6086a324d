package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// contextSeparator joins retrieved chunks into one context block.
const contextSeparator = "\n\n"

// AnswerService answers questions strictly from retrieved chunks.
type AnswerService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	k       int
}

// NewAnswerService creates a grounded answerer retrieving k chunks per question.
// k <= 0 uses domain.DefaultRetrievalK.
func NewAnswerService(llm driven.LLMService, prompts driven.PromptStore, k int) *AnswerService {
	if k <= 0 {
		k = domain.DefaultRetrievalK
	}
	return &AnswerService{
		llm:     llm,
		prompts: prompts,
		k:       k,
	}
}

// K returns the number of chunks retrieved per question.
func (s *AnswerService) K() int {
	return s.k
}

// Answer retrieves the nearest chunks for query, asks the model to answer from
// them alone and returns the answer with its sources in retrieval order.
//
// The caller must hold a built index. A nil index is rejected with
// domain.ErrIndexUnavailable rather than checked for freshness. Model failures
// are returned wrapped in domain.ErrGeneration; no fallback answer is produced.
func (s *AnswerService) Answer(
	ctx context.Context, index driven.VectorIndex, query string,
) (*domain.AnswerPacket, error) {
	logger.Section("Answer")
	logger.Debug("Query: %q", query)

	if index == nil {
		return nil, domain.ErrIndexUnavailable
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	hits, err := index.Search(ctx, query, s.k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	logger.Debug("Retrieved %d chunk(s) with %s", len(hits), index.ModelName())

	prompt, err := s.renderPrompt(hits, query)
	if err != nil {
		return nil, err
	}

	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: domain.GenerationTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	logger.Debug("Generated %d character answer with %s", len(answer), s.llm.ModelName())

	sources := make([]domain.AnswerSource, 0, len(hits))
	for _, hit := range hits {
		sources = append(sources, domain.AnswerSource{
			Content:  hit.Chunk.Content,
			Metadata: domain.CopyMetadata(hit.Chunk.Metadata),
			Score:    hit.Distance,
		})
	}

	return &domain.AnswerPacket{Answer: answer, Sources: sources}, nil
}

// renderPrompt fills the grounded-answer template with the context block and query.
func (s *AnswerService) renderPrompt(hits []domain.RetrievalHit, query string) (string, error) {
	template, err := s.loadTemplate()
	if err != nil {
		return "", err
	}
	return domain.RenderGroundedPrompt(template, BuildContext(hits), query), nil
}

func (s *AnswerService) loadTemplate() (string, error) {
	if s.prompts == nil {
		return domain.GroundedPromptTemplate, nil
	}
	template, err := s.prompts.Load(driven.PromptGroundedAnswer)
	if err != nil {
		return "", fmt.Errorf("load prompt: %w", err)
	}
	return template, nil
}

// BuildContext joins chunk contents in retrieval order, separated by a blank line.
// Chunks are neither deduplicated nor re-ranked.
func BuildContext(hits []domain.RetrievalHit) string {
	parts := make([]string, len(hits))
	for i, hit := range hits {
		parts[i] = hit.Chunk.Content
	}
	return strings.Join(parts, contextSeparator)
}
