package copilot

import (
	"context"

	"thracker/internal/ai"
	"thracker/internal/types"
)

// runDraft executes the terminal draft stage. When the state carries a base
// cover letter the provider is directed to adapt it rather than write from
// scratch; that branching lives in the provider's prompt assembly, this stage
// only forwards the letter.
func runDraft(ctx context.Context, provider ai.AIProvider, state State) (Delta, *ai.TokenUsage) {
	input := types.DraftInput{
		ResumeText:      state.ResumeText,
		JobDescription:  state.JobDescription,
		JobDetails:      state.JobDetails,
		Analysis:        state.AnalysisText,
		BaseCoverLetter: state.BaseCoverLetter,
		Settings:        state.Settings,
	}

	output, usage, err := provider.DraftCoverLetter(ctx, input)
	if err != nil {
		return failure(stageErrorMessage(StageDraft, ctx, err)), usage
	}

	return Delta{
		CoverLetter: &output.CoverLetter,
		Next:        StageDone,
	}, usage
}
