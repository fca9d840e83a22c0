package copilot

import (
	"context"

	"thracker/internal/ai"
	"thracker/internal/types"
)

// runSuggest executes the suggest stage: targeted resume revision pairs
// informed by the analyze stage's score and analysis. The returned count is
// accepted as-is, including zero suggestions.
func runSuggest(ctx context.Context, provider ai.AIProvider, state State) (Delta, *ai.TokenUsage) {
	input := types.SuggestInput{
		ResumeText:         state.ResumeText,
		JobDescription:     state.JobDescription,
		CompatibilityScore: state.CompatibilityScore,
		Analysis:           state.AnalysisText,
		Settings:           state.Settings,
	}

	output, usage, err := provider.SuggestRevisions(ctx, input)
	if err != nil {
		return failure(stageErrorMessage(StageSuggest, ctx, err)), usage
	}

	suggestions := output.Suggestions
	if suggestions == nil {
		suggestions = []types.RevisionPair{}
	}

	return Delta{
		Suggestions: suggestions,
		Next:        StageDraft,
	}, usage
}
