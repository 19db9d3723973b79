package driving

import (
	"context"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// AnswerService produces grounded answers to questions.
type AnswerService interface {
	// Answer retrieves relevant chunks, grounds a generation on them
	// and returns a well-formed result. It does not return an error
	// under normal operating conditions: every failure mode maps to a
	// readable response with a Source/Warning pair.
	Answer(ctx context.Context, question string, qctx domain.AnswerContext) domain.AnswerResult
}
