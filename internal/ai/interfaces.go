package ai

import (
	"context"

	"thracker/internal/types"
)

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	AnalyzeFit(ctx context.Context, input types.AnalyzeFitInput) (types.AnalyzeFitOutput, *TokenUsage, error)
	SuggestRevisions(ctx context.Context, input types.SuggestInput) (types.SuggestOutput, *TokenUsage, error)
	DraftCoverLetter(ctx context.Context, input types.DraftInput) (types.DraftOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
