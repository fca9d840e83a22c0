package types

// JobDetails carries the structured metadata of a tracked job application
type JobDetails struct {
	Position string `json:"position"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// AgentSettings are free-form directives forwarded verbatim into every
// stage's instructions. No allowed-value validation is performed; missing
// values are treated as explicit empty-string directives.
type AgentSettings struct {
	Tone        string `json:"tone"`
	FocusArea   string `json:"focusArea"`
	DetailLevel string `json:"detailLevel"`
}

// RevisionPair is one resume revision suggestion: a verbatim quotation of
// resume text and its proposed replacement
type RevisionPair struct {
	Original   string `json:"original"`
	Suggestion string `json:"suggestion"`
}

// AnalyzeFitInput represents the input for the fit-analysis stage
type AnalyzeFitInput struct {
	ResumeText     string        `json:"resumeText"`
	JobDescription string        `json:"jobDescription"`
	JobDetails     JobDetails    `json:"jobDetails"`
	Settings       AgentSettings `json:"agentSettings"`
}

// AnalyzeFitOutput represents the fit-analysis stage result
type AnalyzeFitOutput struct {
	CompatibilityScore int    `json:"compatibilityScore"` // 0-100 score
	Analysis           string `json:"analysis"`           // Detailed textual analysis
}

// SuggestInput represents the input for the revision-suggestion stage.
// Score and Analysis must come from a completed fit analysis.
type SuggestInput struct {
	ResumeText         string        `json:"resumeText"`
	JobDescription     string        `json:"jobDescription"`
	CompatibilityScore int           `json:"compatibilityScore"`
	Analysis           string        `json:"analysis"`
	Settings           AgentSettings `json:"agentSettings"`
}

// SuggestOutput represents the revision-suggestion stage result
type SuggestOutput struct {
	Suggestions []RevisionPair `json:"suggestions"`
}

// DraftInput represents the input for the cover-letter stage. A non-empty
// BaseCoverLetter switches the stage from write-from-scratch to edit-in-place.
type DraftInput struct {
	ResumeText      string        `json:"resumeText"`
	JobDescription  string        `json:"jobDescription"`
	JobDetails      JobDetails    `json:"jobDetails"`
	Analysis        string        `json:"analysis"`
	BaseCoverLetter string        `json:"baseCoverLetter,omitempty"`
	Settings        AgentSettings `json:"agentSettings"`
}

// DraftOutput represents the cover-letter stage result
type DraftOutput struct {
	CoverLetter string `json:"coverLetter"`
}

// CopilotResult is the always-fully-shaped pipeline output. Fields never
// populated by an interrupted run hold their zero defaults (0, "", empty list).
type CopilotResult struct {
	CompatibilityScore int            `json:"compatibilityScore"`
	AnalysisText       string         `json:"analysisText"`
	Suggestions        []RevisionPair `json:"suggestions"`
	CoverLetter        string         `json:"coverLetter"`
	Error              string         `json:"error,omitempty"`
}

// SuggestionItem is the response-shaping form of a RevisionPair: a stable
// positional identifier plus an accepted flag for client-side bookkeeping
type SuggestionItem struct {
	ID         string `json:"id"`
	Original   string `json:"original"`
	Suggestion string `json:"suggestion"`
	Accepted   bool   `json:"accepted"`
}
