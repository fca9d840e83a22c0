package ai

import (
	"strings"
	"testing"

	"thracker/internal/types"
)

func TestFormatDirectives(t *testing.T) {
	tests := []struct {
		name     string
		settings types.AgentSettings
		expected string
	}{
		{
			name: "all directives set",
			settings: types.AgentSettings{
				Tone:        "formal",
				FocusArea:   "backend experience",
				DetailLevel: "detailed",
			},
			expected: "Tone: formal\nFocus area: backend experience\nDetail level: detailed",
		},
		{
			name:     "missing settings become empty-string directives",
			settings: types.AgentSettings{},
			expected: "Tone: \nFocus area: \nDetail level: ",
		},
		{
			name: "partial settings",
			settings: types.AgentSettings{
				Tone: "conversational",
			},
			expected: "Tone: conversational\nFocus area: \nDetail level: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDirectives(tt.settings)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFormatAnalyzePrompt(t *testing.T) {
	input := types.AnalyzeFitInput{
		ResumeText:     "ten years of Go",
		JobDescription: "looking for a Go engineer",
		JobDetails: types.JobDetails{
			Position: "Senior Engineer",
			Company:  "Acme",
			Location: "Remote",
			Industry: "Logistics",
		},
		Settings: types.AgentSettings{Tone: "formal"},
	}

	prompt := formatAnalyzePrompt(DefaultUserPrompts.AnalyzeFit, input)

	for _, want := range []string{
		"ten years of Go",
		"looking for a Go engineer",
		"Position: Senior Engineer",
		"Company: Acme",
		"Tone: formal",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected analyze prompt to contain %q", want)
		}
	}
}

func TestFormatSuggestPromptCarriesAnalysis(t *testing.T) {
	input := types.SuggestInput{
		ResumeText:         "resume body",
		JobDescription:     "job body",
		CompatibilityScore: 63,
		Analysis:           "gaps in cloud experience",
	}

	prompt := formatSuggestPrompt(DefaultUserPrompts.SuggestRevisions, input)

	if !strings.Contains(prompt, "63") {
		t.Error("Expected suggest prompt to contain the compatibility score")
	}
	if !strings.Contains(prompt, "gaps in cloud experience") {
		t.Error("Expected suggest prompt to contain the analysis text")
	}
	if !strings.Contains(prompt, "resume body") {
		t.Error("Expected suggest prompt to contain the resume text")
	}
}

func TestFormatDraftPromptBranchesOnBaseLetter(t *testing.T) {
	base := types.DraftInput{
		ResumeText:     "resume body",
		JobDescription: "job body",
		Analysis:       "strong fit",
		JobDetails:     types.JobDetails{Company: "Acme"},
	}

	t.Run("without base letter writes from scratch", func(t *testing.T) {
		prompt := formatDraftPrompt(DefaultUserPrompts.DraftCoverLetter, DefaultUserPrompts.AdaptCoverLetter, base)

		if strings.Contains(prompt, "my existing letter") {
			t.Error("Scratch prompt must not reference a base letter")
		}
		if !strings.Contains(prompt, "resume body") {
			t.Error("Expected scratch prompt to contain the resume text")
		}
	})

	t.Run("with base letter includes it verbatim", func(t *testing.T) {
		input := base
		input.BaseCoverLetter = "my existing letter"

		prompt := formatDraftPrompt(DefaultUserPrompts.DraftCoverLetter, DefaultUserPrompts.AdaptCoverLetter, input)

		if !strings.Contains(prompt, "my existing letter") {
			t.Error("Expected adapt prompt to contain the base letter verbatim")
		}
	})

	t.Run("branch changes the instruction body", func(t *testing.T) {
		withLetter := base
		withLetter.BaseCoverLetter = "my existing letter"

		scratch := formatDraftPrompt(DefaultUserPrompts.DraftCoverLetter, DefaultUserPrompts.AdaptCoverLetter, base)
		adapted := formatDraftPrompt(DefaultUserPrompts.DraftCoverLetter, DefaultUserPrompts.AdaptCoverLetter, withLetter)

		if scratch == adapted {
			t.Error("Expected different prompt bodies for scratch and adapt branches")
		}
	})
}
