package copilot

import (
	"thracker/internal/types"
)

// Stage identifies a step of the copilot pipeline
type Stage int

const (
	StageAnalyze Stage = iota
	StageSuggest
	StageDraft
	StageDone
)

// String returns a human-readable stage name
func (s Stage) String() string {
	switch s {
	case StageAnalyze:
		return "analyze"
	case StageSuggest:
		return "suggest"
	case StageDraft:
		return "draft"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// State is the per-invocation record threaded through the pipeline. Input
// fields are set once at construction; output fields are each written by
// exactly one stage via a Delta applied by the runner. Stages receive the
// state by value and never mutate it directly.
type State struct {
	// Inputs, immutable once the run starts
	ResumeText      string
	JobDescription  string
	JobDetails      types.JobDetails
	BaseCoverLetter string
	Settings        types.AgentSettings

	// Orchestration
	CurrentStage Stage

	// Stage outputs
	CompatibilityScore int
	AnalysisText       string
	Suggestions        []types.RevisionPair
	CoverLetter        string

	// Err is set by the first failing stage. Once set, no further stage runs.
	Err string
}

// Delta is a stage's partial update. Pointer fields distinguish "not written
// by this stage" from a written zero value; Next always advances the stage.
type Delta struct {
	CompatibilityScore *int
	AnalysisText       *string
	Suggestions        []types.RevisionPair
	CoverLetter        *string
	Err                string
	Next               Stage
}

// failure builds a terminal Delta carrying the given error message
func failure(message string) Delta {
	return Delta{
		Err:  message,
		Next: StageDone,
	}
}

// apply merges a stage's Delta into the state and returns the next state
func (s State) apply(d Delta) State {
	if d.CompatibilityScore != nil {
		s.CompatibilityScore = *d.CompatibilityScore
	}
	if d.AnalysisText != nil {
		s.AnalysisText = *d.AnalysisText
	}
	if d.Suggestions != nil {
		s.Suggestions = d.Suggestions
	}
	if d.CoverLetter != nil {
		s.CoverLetter = *d.CoverLetter
	}
	if d.Err != "" {
		s.Err = d.Err
	}
	s.CurrentStage = d.Next
	return s
}

// result extracts the always-shaped copilot result from a terminal state.
// Unset fields come out as safe defaults: zero score, empty strings, and an
// empty (never nil) suggestion list.
func (s State) result() types.CopilotResult {
	suggestions := s.Suggestions
	if suggestions == nil {
		suggestions = []types.RevisionPair{}
	}
	return types.CopilotResult{
		CompatibilityScore: s.CompatibilityScore,
		AnalysisText:       s.AnalysisText,
		Suggestions:        suggestions,
		CoverLetter:        s.CoverLetter,
		Error:              s.Err,
	}
}
