package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"thracker/internal/types"
)

func sampleResult() types.CopilotResult {
	return types.CopilotResult{
		CompatibilityScore: 84,
		AnalysisText:       "Strong backend overlap, light on Kubernetes.",
		Suggestions: []types.RevisionPair{
			{Original: "Worked on services", Suggestion: "Built and operated Go microservices"},
		},
		CoverLetter: "Dear Hiring Manager,\n\nI am writing to apply.",
	}
}

func TestTextFormatterSections(t *testing.T) {
	output, err := GlobalRegistry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"=== FIT ANALYSIS ===",
		"Compatibility Score: 84/100",
		"=== REVISION SUGGESTIONS ===",
		"Built and operated Go microservices",
		"=== COVER LETTER ===",
		"Dear Hiring Manager,",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
	if strings.Contains(output, "PIPELINE ERROR") {
		t.Error("Clean result should not include an error section")
	}
}

func TestTextFormatterErrorSection(t *testing.T) {
	result := types.CopilotResult{
		Suggestions: []types.RevisionPair{},
		Error:       "draft stage failed: model unavailable",
	}

	output, err := GlobalRegistry.Format(result, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	if !strings.Contains(output, "=== PIPELINE ERROR ===") {
		t.Error("Expected error section for a failed run")
	}
	if !strings.Contains(output, "draft stage failed: model unavailable") {
		t.Error("Expected error message in output")
	}
	if !strings.Contains(output, "No suggestions generated.") {
		t.Error("Expected empty-suggestions placeholder")
	}
}

func TestMarkdownFormatter(t *testing.T) {
	output, err := GlobalRegistry.Format(sampleResult(), "markdown")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"# Application Copilot Result",
		"**Compatibility Score:** 84/100",
		"## Revision Suggestions",
		"## Cover Letter",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	output, err := GlobalRegistry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded types.CopilotResult
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.CompatibilityScore != 84 {
		t.Errorf("Expected score 84, got %d", decoded.CompatibilityScore)
	}
}

func TestStageOutputFormatters(t *testing.T) {
	t.Run("analysis text", func(t *testing.T) {
		output, err := GlobalRegistry.Format(types.AnalyzeFitOutput{
			CompatibilityScore: 61,
			Analysis:           "Partial overlap.",
		}, "text")
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}
		if !strings.Contains(output, "Compatibility Score: 61/100") {
			t.Errorf("Expected score line, got %q", output)
		}
		if !strings.Contains(output, "Partial overlap.") {
			t.Errorf("Expected analysis text, got %q", output)
		}
	})

	t.Run("cover letter text", func(t *testing.T) {
		output, err := GlobalRegistry.Format(types.DraftOutput{CoverLetter: "Dear team,"}, "text")
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}
		if output != "Dear team,\n" {
			t.Errorf("Expected bare letter, got %q", output)
		}
	})

	t.Run("cover letter markdown", func(t *testing.T) {
		output, err := GlobalRegistry.Format(types.DraftOutput{CoverLetter: "Dear team,"}, "markdown")
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}
		if !strings.Contains(output, "# Cover Letter") {
			t.Errorf("Expected heading, got %q", output)
		}
	})
}

func TestUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleResult(), "yaml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
