package copilot

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"thracker/internal/ai"
	"thracker/internal/errors"
	"thracker/internal/types"
)

// Providers holds one AI provider per pipeline stage so each stage carries its
// own model, prompts, and circuit breaker.
type Providers struct {
	Analyze ai.AIProvider
	Suggest ai.AIProvider
	Draft   ai.AIProvider
}

// Timeouts bounds each stage's AI call. A zero value means no per-stage bound
// beyond the caller's context.
type Timeouts struct {
	Analyze time.Duration
	Suggest time.Duration
	Draft   time.Duration
}

// StageObserver receives per-stage outcomes, used for metrics recording.
// The err string is empty on success.
type StageObserver interface {
	ObserveStage(stage string, duration time.Duration, usage *ai.TokenUsage, err string)
}

// RunInput carries the inputs of a single copilot invocation
type RunInput struct {
	ResumeText      string
	JobDescription  string
	JobDetails      types.JobDetails
	BaseCoverLetter string
	Settings        types.AgentSettings
}

// Runner drives the three-stage copilot pipeline. Stages execute strictly in
// order analyze, suggest, draft; the first stage failure stops the run while
// keeping every field an earlier stage already produced.
type Runner struct {
	providers Providers
	timeouts  Timeouts
	logger    *errors.Logger
	observer  StageObserver
}

// NewRunner creates a pipeline runner. The observer may be nil.
func NewRunner(providers Providers, timeouts Timeouts, logger *errors.Logger, observer StageObserver) *Runner {
	return &Runner{
		providers: providers,
		timeouts:  timeouts,
		logger:    logger,
		observer:  observer,
	}
}

// Run executes the pipeline for one invocation. The returned result is always
// fully shaped: every field present, safe defaults for anything never set.
// A panic escaping the stage chain is recovered into a defaulted result with
// the error field populated, never re-raised to the caller.
func (r *Runner) Run(ctx context.Context, input RunInput) (result types.CopilotResult) {
	tracer := otel.Tracer("thracker.copilot")
	ctx, span := tracer.Start(ctx, "copilot.run")
	defer span.End()

	span.SetAttributes(
		attribute.String("job.company", input.JobDetails.Company),
		attribute.String("job.position", input.JobDetails.Position),
		attribute.Bool("input.has_base_letter", input.BaseCoverLetter != ""),
	)

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.LogError(fmt.Errorf("panic: %v", rec), "Copilot pipeline panicked")
			result = types.CopilotResult{
				CompatibilityScore: 0,
				AnalysisText:       "",
				Suggestions:        []types.RevisionPair{},
				CoverLetter:        "",
				Error:              fmt.Sprintf("copilot pipeline failed: %v", rec),
			}
			span.SetAttributes(attribute.Bool("success", false))
		}
	}()

	state := State{
		ResumeText:      input.ResumeText,
		JobDescription:  input.JobDescription,
		JobDetails:      input.JobDetails,
		BaseCoverLetter: input.BaseCoverLetter,
		Settings:        input.Settings,
		CurrentStage:    StageAnalyze,
	}

	for state.CurrentStage != StageDone {
		state = r.runStage(ctx, state)
	}

	result = state.result()
	span.SetAttributes(
		attribute.Bool("success", result.Error == ""),
		attribute.Int("compatibility.score", result.CompatibilityScore),
		attribute.Int("suggestions_count", len(result.Suggestions)),
	)
	if result.Error != "" {
		r.logger.Warn("Copilot run finished with stage error", "error", result.Error)
	}
	return result
}

// runStage dispatches the current stage, bounds it with the stage's timeout,
// and applies the resulting delta.
func (r *Runner) runStage(ctx context.Context, state State) State {
	stage := state.CurrentStage
	stageCtx, cancel := r.stageContext(ctx, stage)
	defer cancel()

	start := time.Now()
	var delta Delta
	var usage *ai.TokenUsage

	switch stage {
	case StageAnalyze:
		delta, usage = runAnalyze(stageCtx, r.providers.Analyze, state)
	case StageSuggest:
		delta, usage = runSuggest(stageCtx, r.providers.Suggest, state)
	case StageDraft:
		delta, usage = runDraft(stageCtx, r.providers.Draft, state)
	default:
		delta = failure(fmt.Sprintf("unexpected pipeline stage: %s", stage))
	}

	duration := time.Since(start)
	if r.observer != nil {
		r.observer.ObserveStage(stage.String(), duration, usage, delta.Err)
	}

	r.logger.Debug("Pipeline stage completed",
		"stage", stage.String(),
		"duration", duration,
		"failed", delta.Err != "")

	return state.apply(delta)
}

// stageContext derives a bounded context for the given stage
func (r *Runner) stageContext(ctx context.Context, stage Stage) (context.Context, context.CancelFunc) {
	var timeout time.Duration
	switch stage {
	case StageAnalyze:
		timeout = r.timeouts.Analyze
	case StageSuggest:
		timeout = r.timeouts.Suggest
	case StageDraft:
		timeout = r.timeouts.Draft
	}

	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
