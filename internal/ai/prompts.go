package ai

import (
	"fmt"

	"thracker/internal/types"
)

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	AnalyzeFit       string
	SuggestRevisions string
	DraftCoverLetter string
	AdaptCoverLetter string
}

// UserPrompts contains user-level prompt templates with placeholders for dynamic content
type UserPrompts struct {
	AnalyzeFit       string
	SuggestRevisions string
	DraftCoverLetter string
	AdaptCoverLetter string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	AnalyzeFit: `You are an expert recruiter and career coach with deep knowledge of hiring practices across industries. Your core principles are:

- Base every judgement strictly on the provided resume and job description
- Never invent qualifications the candidate does not have
- Be specific: cite concrete skills, experience, and gaps
- Provide honest, data-driven assessment even when the fit is poor

Your expertise includes:
- Resume and job description analysis
- Candidate/role fit scoring
- Skills gap identification
- Industry hiring standards`,

	SuggestRevisions: `You are an expert resume editor focused on truthful, targeted improvements. Your role is to:

- Identify specific passages of the resume that undersell the candidate for this particular job
- Propose replacements that reframe existing experience, never fabricate new experience
- Quote the original resume text exactly so edits can be applied mechanically
- Keep each suggestion self-contained and directly actionable`,

	DraftCoverLetter: `You are an expert cover letter writer. Your role is to write a complete, compelling cover letter that:

- Speaks directly to the target position and company
- Draws only on experience actually present in the resume
- Reads as authentic first-person writing, not a template
- Is ready to send without further editing`,

	AdaptCoverLetter: `You are an expert cover letter editor. The candidate has supplied their own cover letter and it is the required foundation of your output. Your role is to:

- Preserve the candidate's letter as the basis of the result
- Edit individual sentences (add, remove, or rewrite) only where needed to fit the target job
- Not rewrite the letter wholesale unless absolutely necessary
- Keep the candidate's voice and structure intact`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	AnalyzeFit: `Please analyze how well the provided resume fits the job described below.

**Tasks:**

1. **Compatibility Score**:
   Produce a single compatibility score from 0 to 100 estimating how well this candidate matches this role.

2. **Analysis**:
   Produce a detailed written analysis explaining the score: matching strengths, notable gaps, and how the candidate's experience maps to the role's requirements.

**Directives:**
%s

**Job:**
%s

**Resume:**
-----
%s
-----

**Job Description:**
-----
%s
-----`,

	SuggestRevisions: `Based on the compatibility analysis below, please produce 3 to 5 targeted revision suggestions for this resume.

Each suggestion must be a pair:
- "original": an exact, verbatim quotation of text that appears in the resume
- "suggestion": an improved replacement for that text, better aligned with the job description

Do not invent experience the candidate does not have. Reframe and sharpen what is already there.

**Directives:**
%s

**Compatibility Score:** %d

**Analysis:**
-----
%s
-----

**Resume:**
-----
%s
-----

**Job Description:**
-----
%s
-----`,

	DraftCoverLetter: `Please write a complete cover letter for the job described below, from scratch, based on the candidate's resume and the fit analysis.

**Directives:**
%s

**Job:**
%s

**Fit Analysis:**
-----
%s
-----

**Resume:**
-----
%s
-----

**Job Description:**
-----
%s
-----`,

	AdaptCoverLetter: `The candidate has written their own cover letter, included below. Use it as the required foundation: edit individual sentences (add, remove, or rewrite) so the letter fits the job described below. Do not rewrite the letter from scratch unless absolutely necessary.

**Directives:**
%s

**Job:**
%s

**Fit Analysis:**
-----
%s
-----

**Base Cover Letter:**
-----
%s
-----

**Resume:**
-----
%s
-----

**Job Description:**
-----
%s
-----`,
}

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	SystemPrompts SystemPrompts `json:"systemPrompts"`
	UserPrompts   UserPrompts   `json:"userPrompts"`
}

// GetDefaultPromptConfig returns the default prompt configuration
func GetDefaultPromptConfig() PromptConfig {
	return PromptConfig{
		SystemPrompts: DefaultSystemPrompts,
		UserPrompts:   DefaultUserPrompts,
	}
}

// formatDirectives renders the agent settings as an instruction block. Values
// are forwarded verbatim; empty values render as empty directives.
func formatDirectives(s types.AgentSettings) string {
	return fmt.Sprintf("Tone: %s\nFocus area: %s\nDetail level: %s", s.Tone, s.FocusArea, s.DetailLevel)
}

// formatJobDetails renders the structured job metadata for inclusion in a prompt
func formatJobDetails(d types.JobDetails) string {
	return fmt.Sprintf("Position: %s\nCompany: %s\nLocation: %s\nIndustry: %s",
		d.Position, d.Company, d.Location, d.Industry)
}

// formatAnalyzePrompt fills the analyze user prompt template
func formatAnalyzePrompt(template string, input types.AnalyzeFitInput) string {
	return fmt.Sprintf(template,
		formatDirectives(input.Settings),
		formatJobDetails(input.JobDetails),
		input.ResumeText,
		input.JobDescription)
}

// formatSuggestPrompt fills the suggest user prompt template
func formatSuggestPrompt(template string, input types.SuggestInput) string {
	return fmt.Sprintf(template,
		formatDirectives(input.Settings),
		input.CompatibilityScore,
		input.Analysis,
		input.ResumeText,
		input.JobDescription)
}

// formatDraftPrompt fills the draft user prompt template. Two templates exist
// because the presence of a base cover letter changes the whole instruction:
// with a base letter the payload includes it verbatim and directs edit-in-place,
// without one the payload directs writing from scratch.
func formatDraftPrompt(scratchTemplate, adaptTemplate string, input types.DraftInput) string {
	if input.BaseCoverLetter != "" {
		return fmt.Sprintf(adaptTemplate,
			formatDirectives(input.Settings),
			formatJobDetails(input.JobDetails),
			input.Analysis,
			input.BaseCoverLetter,
			input.ResumeText,
			input.JobDescription)
	}
	return fmt.Sprintf(scratchTemplate,
		formatDirectives(input.Settings),
		formatJobDetails(input.JobDetails),
		input.Analysis,
		input.ResumeText,
		input.JobDescription)
}
