package copilot

import (
	"context"
	"errors"
	"fmt"

	"thracker/internal/ai"
	"thracker/internal/types"
)

// runAnalyze executes the analyze stage: resume vs. job description fit.
// On success the Delta carries the compatibility score and analysis text and
// advances to the suggest stage; on failure it carries a terminal error.
func runAnalyze(ctx context.Context, provider ai.AIProvider, state State) (Delta, *ai.TokenUsage) {
	input := types.AnalyzeFitInput{
		ResumeText:     state.ResumeText,
		JobDescription: state.JobDescription,
		JobDetails:     state.JobDetails,
		Settings:       state.Settings,
	}

	output, usage, err := provider.AnalyzeFit(ctx, input)
	if err != nil {
		return failure(stageErrorMessage(StageAnalyze, ctx, err)), usage
	}

	return Delta{
		CompatibilityScore: &output.CompatibilityScore,
		AnalysisText:       &output.Analysis,
		Next:               StageSuggest,
	}, usage
}

// stageErrorMessage builds the user-visible error string for a failed stage,
// distinguishing a stage timeout from other failures.
func stageErrorMessage(stage Stage, ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("%s stage timed out: %v", stage, err)
	}
	return fmt.Sprintf("%s stage failed: %v", stage, err)
}
