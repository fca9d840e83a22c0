package copilot

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"thracker/internal/ai"
	"thracker/internal/errors"
	"thracker/internal/types"
)

// stubProvider implements ai.AIProvider with overridable stage functions.
type stubProvider struct {
	analyzeFn func(context.Context, types.AnalyzeFitInput) (types.AnalyzeFitOutput, *ai.TokenUsage, error)
	suggestFn func(context.Context, types.SuggestInput) (types.SuggestOutput, *ai.TokenUsage, error)
	draftFn   func(context.Context, types.DraftInput) (types.DraftOutput, *ai.TokenUsage, error)
}

func (s *stubProvider) AnalyzeFit(ctx context.Context, input types.AnalyzeFitInput) (types.AnalyzeFitOutput, *ai.TokenUsage, error) {
	if s.analyzeFn != nil {
		return s.analyzeFn(ctx, input)
	}
	return types.AnalyzeFitOutput{CompatibilityScore: 82, Analysis: "solid match"}, nil, nil
}

func (s *stubProvider) SuggestRevisions(ctx context.Context, input types.SuggestInput) (types.SuggestOutput, *ai.TokenUsage, error) {
	if s.suggestFn != nil {
		return s.suggestFn(ctx, input)
	}
	return types.SuggestOutput{Suggestions: []types.RevisionPair{
		{Original: "did things", Suggestion: "shipped things"},
	}}, nil, nil
}

func (s *stubProvider) DraftCoverLetter(ctx context.Context, input types.DraftInput) (types.DraftOutput, *ai.TokenUsage, error) {
	if s.draftFn != nil {
		return s.draftFn(ctx, input)
	}
	return types.DraftOutput{CoverLetter: "Dear Hiring Manager,"}, nil, nil
}

func (s *stubProvider) GetModelInfo(ctx context.Context) *ai.ModelInfo { return nil }

func (s *stubProvider) Close() error { return nil }

// recordingObserver captures per-stage outcomes.
type recordingObserver struct {
	stages []string
	errs   []string
}

func (o *recordingObserver) ObserveStage(stage string, duration time.Duration, usage *ai.TokenUsage, err string) {
	o.stages = append(o.stages, stage)
	o.errs = append(o.errs, err)
}

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}

func newTestRunner(t *testing.T, provider ai.AIProvider, timeouts Timeouts, observer StageObserver) *Runner {
	t.Helper()
	return NewRunner(Providers{
		Analyze: provider,
		Suggest: provider,
		Draft:   provider,
	}, timeouts, testLogger(t), observer)
}

func TestRunExecutesStagesInOrder(t *testing.T) {
	var order []string
	provider := &stubProvider{
		analyzeFn: func(ctx context.Context, input types.AnalyzeFitInput) (types.AnalyzeFitOutput, *ai.TokenUsage, error) {
			order = append(order, "analyze")
			return types.AnalyzeFitOutput{CompatibilityScore: 74, Analysis: "good overlap"}, nil, nil
		},
		suggestFn: func(ctx context.Context, input types.SuggestInput) (types.SuggestOutput, *ai.TokenUsage, error) {
			order = append(order, "suggest")
			if input.CompatibilityScore != 74 {
				t.Errorf("Expected suggest stage to receive score 74, got %d", input.CompatibilityScore)
			}
			if input.Analysis != "good overlap" {
				t.Errorf("Expected suggest stage to receive analysis text, got %q", input.Analysis)
			}
			return types.SuggestOutput{Suggestions: []types.RevisionPair{
				{Original: "a", Suggestion: "b"},
				{Original: "c", Suggestion: "d"},
			}}, nil, nil
		},
		draftFn: func(ctx context.Context, input types.DraftInput) (types.DraftOutput, *ai.TokenUsage, error) {
			order = append(order, "draft")
			if input.Analysis != "good overlap" {
				t.Errorf("Expected draft stage to receive analysis text, got %q", input.Analysis)
			}
			return types.DraftOutput{CoverLetter: "Dear team,"}, nil, nil
		},
	}

	runner := newTestRunner(t, provider, Timeouts{}, nil)
	result := runner.Run(context.Background(), RunInput{
		ResumeText:     "resume",
		JobDescription: "job",
	})

	wantOrder := []string{"analyze", "suggest", "draft"}
	if len(order) != len(wantOrder) {
		t.Fatalf("Expected %d stage calls, got %d (%v)", len(wantOrder), len(order), order)
	}
	for i, stage := range wantOrder {
		if order[i] != stage {
			t.Errorf("Expected stage %d to be %s, got %s", i, stage, order[i])
		}
	}

	if result.Error != "" {
		t.Errorf("Expected no error, got %q", result.Error)
	}
	if result.CompatibilityScore != 74 {
		t.Errorf("Expected score 74, got %d", result.CompatibilityScore)
	}
	if result.AnalysisText != "good overlap" {
		t.Errorf("Expected analysis text, got %q", result.AnalysisText)
	}
	if len(result.Suggestions) != 2 {
		t.Errorf("Expected 2 suggestions, got %d", len(result.Suggestions))
	}
	if result.CoverLetter != "Dear team," {
		t.Errorf("Expected cover letter, got %q", result.CoverLetter)
	}
}

func TestRunAnalyzeFailureStopsPipeline(t *testing.T) {
	laterStagesCalled := false
	provider := &stubProvider{
		analyzeFn: func(ctx context.Context, input types.AnalyzeFitInput) (types.AnalyzeFitOutput, *ai.TokenUsage, error) {
			return types.AnalyzeFitOutput{}, nil, fmt.Errorf("model unavailable")
		},
		suggestFn: func(ctx context.Context, input types.SuggestInput) (types.SuggestOutput, *ai.TokenUsage, error) {
			laterStagesCalled = true
			return types.SuggestOutput{}, nil, nil
		},
		draftFn: func(ctx context.Context, input types.DraftInput) (types.DraftOutput, *ai.TokenUsage, error) {
			laterStagesCalled = true
			return types.DraftOutput{}, nil, nil
		},
	}

	runner := newTestRunner(t, provider, Timeouts{}, nil)
	result := runner.Run(context.Background(), RunInput{ResumeText: "r", JobDescription: "j"})

	if laterStagesCalled {
		t.Error("Expected no stage to run after the analyze failure")
	}
	if !strings.HasPrefix(result.Error, "analyze stage failed:") {
		t.Errorf("Expected analyze failure message, got %q", result.Error)
	}
	if result.CompatibilityScore != 0 {
		t.Errorf("Expected default score 0, got %d", result.CompatibilityScore)
	}
	if result.AnalysisText != "" {
		t.Errorf("Expected empty analysis, got %q", result.AnalysisText)
	}
	if result.Suggestions == nil {
		t.Error("Expected non-nil suggestions slice")
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("Expected empty suggestions, got %d", len(result.Suggestions))
	}
	if result.CoverLetter != "" {
		t.Errorf("Expected empty cover letter, got %q", result.CoverLetter)
	}
}

func TestRunSuggestFailureKeepsAnalysis(t *testing.T) {
	provider := &stubProvider{
		suggestFn: func(ctx context.Context, input types.SuggestInput) (types.SuggestOutput, *ai.TokenUsage, error) {
			return types.SuggestOutput{}, nil, fmt.Errorf("malformed response")
		},
	}

	runner := newTestRunner(t, provider, Timeouts{}, nil)
	result := runner.Run(context.Background(), RunInput{ResumeText: "r", JobDescription: "j"})

	if !strings.HasPrefix(result.Error, "suggest stage failed:") {
		t.Errorf("Expected suggest failure message, got %q", result.Error)
	}
	if result.CompatibilityScore != 82 {
		t.Errorf("Expected analyze output preserved, got score %d", result.CompatibilityScore)
	}
	if result.AnalysisText != "solid match" {
		t.Errorf("Expected analyze output preserved, got analysis %q", result.AnalysisText)
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("Expected no suggestions, got %d", len(result.Suggestions))
	}
	if result.CoverLetter != "" {
		t.Errorf("Expected no cover letter after suggest failure, got %q", result.CoverLetter)
	}
}

func TestRunDraftFailureKeepsSuggestions(t *testing.T) {
	provider := &stubProvider{
		draftFn: func(ctx context.Context, input types.DraftInput) (types.DraftOutput, *ai.TokenUsage, error) {
			return types.DraftOutput{}, nil, fmt.Errorf("quota exceeded")
		},
	}

	runner := newTestRunner(t, provider, Timeouts{}, nil)
	result := runner.Run(context.Background(), RunInput{ResumeText: "r", JobDescription: "j"})

	if !strings.HasPrefix(result.Error, "draft stage failed:") {
		t.Errorf("Expected draft failure message, got %q", result.Error)
	}
	if result.CompatibilityScore != 82 {
		t.Errorf("Expected score preserved, got %d", result.CompatibilityScore)
	}
	if len(result.Suggestions) != 1 {
		t.Errorf("Expected suggestions preserved, got %d", len(result.Suggestions))
	}
	if result.CoverLetter != "" {
		t.Errorf("Expected empty cover letter, got %q", result.CoverLetter)
	}
}

func TestRunStageTimeout(t *testing.T) {
	provider := &stubProvider{
		suggestFn: func(ctx context.Context, input types.SuggestInput) (types.SuggestOutput, *ai.TokenUsage, error) {
			<-ctx.Done()
			return types.SuggestOutput{}, nil, ctx.Err()
		},
	}

	runner := newTestRunner(t, provider, Timeouts{Suggest: 10 * time.Millisecond}, nil)
	result := runner.Run(context.Background(), RunInput{ResumeText: "r", JobDescription: "j"})

	if !strings.HasPrefix(result.Error, "suggest stage timed out:") {
		t.Errorf("Expected timeout message, got %q", result.Error)
	}
	if result.CompatibilityScore != 82 {
		t.Errorf("Expected analyze output preserved across timeout, got %d", result.CompatibilityScore)
	}
}

func TestRunRecoversFromPanic(t *testing.T) {
	provider := &stubProvider{
		analyzeFn: func(ctx context.Context, input types.AnalyzeFitInput) (types.AnalyzeFitOutput, *ai.TokenUsage, error) {
			panic("nil pointer somewhere deep")
		},
	}

	runner := newTestRunner(t, provider, Timeouts{}, nil)
	result := runner.Run(context.Background(), RunInput{ResumeText: "r", JobDescription: "j"})

	if !strings.HasPrefix(result.Error, "copilot pipeline failed:") {
		t.Errorf("Expected recovered panic message, got %q", result.Error)
	}
	if result.Suggestions == nil {
		t.Error("Expected non-nil suggestions slice after recovery")
	}
	if result.CompatibilityScore != 0 || result.AnalysisText != "" || result.CoverLetter != "" {
		t.Errorf("Expected fully defaulted result after recovery, got %+v", result)
	}
}

func TestRunPassesBaseCoverLetterToDraft(t *testing.T) {
	var captured types.DraftInput
	provider := &stubProvider{
		draftFn: func(ctx context.Context, input types.DraftInput) (types.DraftOutput, *ai.TokenUsage, error) {
			captured = input
			return types.DraftOutput{CoverLetter: "edited letter"}, nil, nil
		},
	}

	runner := newTestRunner(t, provider, Timeouts{}, nil)
	result := runner.Run(context.Background(), RunInput{
		ResumeText:      "r",
		JobDescription:  "j",
		BaseCoverLetter: "my original letter",
	})

	if captured.BaseCoverLetter != "my original letter" {
		t.Errorf("Expected base cover letter forwarded to draft stage, got %q", captured.BaseCoverLetter)
	}
	if result.CoverLetter != "edited letter" {
		t.Errorf("Expected drafted letter, got %q", result.CoverLetter)
	}
}

func TestRunNilSuggestionsBecomeEmptySlice(t *testing.T) {
	provider := &stubProvider{
		suggestFn: func(ctx context.Context, input types.SuggestInput) (types.SuggestOutput, *ai.TokenUsage, error) {
			return types.SuggestOutput{Suggestions: nil}, nil, nil
		},
	}

	runner := newTestRunner(t, provider, Timeouts{}, nil)
	result := runner.Run(context.Background(), RunInput{ResumeText: "r", JobDescription: "j"})

	if result.Error != "" {
		t.Fatalf("Expected clean run, got error %q", result.Error)
	}
	if result.Suggestions == nil {
		t.Error("Expected non-nil suggestions slice")
	}
	if result.CoverLetter == "" {
		t.Error("Expected draft stage to still run after empty suggestions")
	}
}

func TestRunObserverSeesEveryStage(t *testing.T) {
	observer := &recordingObserver{}
	runner := newTestRunner(t, &stubProvider{}, Timeouts{}, observer)
	runner.Run(context.Background(), RunInput{ResumeText: "r", JobDescription: "j"})

	want := []string{"analyze", "suggest", "draft"}
	if len(observer.stages) != len(want) {
		t.Fatalf("Expected %d observed stages, got %d", len(want), len(observer.stages))
	}
	for i, stage := range want {
		if observer.stages[i] != stage {
			t.Errorf("Expected observed stage %d to be %s, got %s", i, stage, observer.stages[i])
		}
		if observer.errs[i] != "" {
			t.Errorf("Expected empty error for stage %s, got %q", stage, observer.errs[i])
		}
	}
}

func TestRunObserverSeesStageFailure(t *testing.T) {
	observer := &recordingObserver{}
	provider := &stubProvider{
		suggestFn: func(ctx context.Context, input types.SuggestInput) (types.SuggestOutput, *ai.TokenUsage, error) {
			return types.SuggestOutput{}, nil, fmt.Errorf("boom")
		},
	}

	runner := newTestRunner(t, provider, Timeouts{}, observer)
	runner.Run(context.Background(), RunInput{ResumeText: "r", JobDescription: "j"})

	if len(observer.stages) != 2 {
		t.Fatalf("Expected 2 observed stages, got %d (%v)", len(observer.stages), observer.stages)
	}
	if observer.errs[0] != "" {
		t.Errorf("Expected clean analyze stage, got %q", observer.errs[0])
	}
	if !strings.HasPrefix(observer.errs[1], "suggest stage failed:") {
		t.Errorf("Expected suggest failure reported to observer, got %q", observer.errs[1])
	}
}

func TestRunsAreIndependent(t *testing.T) {
	provider := &stubProvider{
		analyzeFn: func(ctx context.Context, input types.AnalyzeFitInput) (types.AnalyzeFitOutput, *ai.TokenUsage, error) {
			return types.AnalyzeFitOutput{
				CompatibilityScore: len(input.JobDetails.Company),
				Analysis:           "company: " + input.JobDetails.Company,
			}, nil, nil
		},
	}

	runner := newTestRunner(t, provider, Timeouts{}, nil)

	first := runner.Run(context.Background(), RunInput{
		ResumeText:     "r",
		JobDescription: "j",
		JobDetails:     types.JobDetails{Company: "Acme"},
	})
	second := runner.Run(context.Background(), RunInput{
		ResumeText:     "r",
		JobDescription: "j",
		JobDetails:     types.JobDetails{Company: "Globex"},
	})

	if first.AnalysisText != "company: Acme" {
		t.Errorf("Expected first run analysis for Acme, got %q", first.AnalysisText)
	}
	if second.AnalysisText != "company: Globex" {
		t.Errorf("Expected second run analysis for Globex, got %q", second.AnalysisText)
	}
	if first.CompatibilityScore == second.CompatibilityScore {
		t.Error("Expected independent scores across runs")
	}
}
