package driving

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// AnswerService runs the query phase against an explicit index handle.
//
// The caller must only invoke Answer once an index exists; holding and
// checking the handle is the caller's responsibility.
type AnswerService interface {
	// Answer retrieves the top chunks for query and generates a grounded answer.
	// Model failures are returned wrapped in domain.ErrGeneration.
	Answer(ctx context.Context, index driven.VectorIndex, query string) (*domain.AnswerPacket, error)
}
