package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"thracker/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "CopilotResult", &CopilotTextFormatter{})
	registry.RegisterFormatter("markdown", "CopilotResult", &CopilotMarkdownFormatter{})
	registry.RegisterFormatter("text", "AnalyzeFitOutput", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalyzeFitOutput", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "DraftOutput", &CoverLetterTextFormatter{})
	registry.RegisterFormatter("markdown", "DraftOutput", &CoverLetterMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.CopilotResult:
		return "CopilotResult"
	case types.AnalyzeFitOutput:
		return "AnalyzeFitOutput"
	case types.DraftOutput:
		return "DraftOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// CopilotTextFormatter handles text formatting for copilot pipeline results
type CopilotTextFormatter struct{}

func (ctf *CopilotTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CopilotResult)
	if !ok {
		return "", fmt.Errorf("expected CopilotResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== FIT ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Compatibility Score: %d/100\n\n", result.CompatibilityScore))
	output.WriteString(result.AnalysisText)
	output.WriteString("\n\n")

	output.WriteString("=== REVISION SUGGESTIONS ===\n\n")
	if len(result.Suggestions) > 0 {
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. Original:\n", i+1))
			output.WriteString("   ")
			output.WriteString(suggestion.Original)
			output.WriteString("\n")
			output.WriteString("   Suggested:\n")
			output.WriteString("   ")
			output.WriteString(suggestion.Suggestion)
			output.WriteString("\n\n")
		}
	} else {
		output.WriteString("No suggestions generated.\n\n")
	}

	output.WriteString("=== COVER LETTER ===\n\n")
	if result.CoverLetter != "" {
		output.WriteString(result.CoverLetter)
		output.WriteString("\n")
	} else {
		output.WriteString("No cover letter drafted.\n")
	}

	if result.Error != "" {
		output.WriteString("\n=== PIPELINE ERROR ===\n")
		output.WriteString(result.Error)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (ctf *CopilotTextFormatter) SupportedType() string {
	return "CopilotResult"
}

// CopilotMarkdownFormatter handles markdown formatting for copilot pipeline results
type CopilotMarkdownFormatter struct{}

func (cmf *CopilotMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CopilotResult)
	if !ok {
		return "", fmt.Errorf("expected CopilotResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Application Copilot Result\n\n")
	output.WriteString("## Fit Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Compatibility Score:** %d/100\n\n", result.CompatibilityScore))
	output.WriteString(result.AnalysisText)
	output.WriteString("\n\n")

	output.WriteString("## Revision Suggestions\n\n")
	if len(result.Suggestions) > 0 {
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("### %d.\n\n", i+1))
			output.WriteString("**Original:** ")
			output.WriteString(suggestion.Original)
			output.WriteString("\n\n")
			output.WriteString("**Suggested:** ")
			output.WriteString(suggestion.Suggestion)
			output.WriteString("\n\n")
		}
	} else {
		output.WriteString("No suggestions generated.\n\n")
	}

	output.WriteString("## Cover Letter\n\n")
	if result.CoverLetter != "" {
		output.WriteString(result.CoverLetter)
		output.WriteString("\n")
	} else {
		output.WriteString("No cover letter drafted.\n")
	}

	if result.Error != "" {
		output.WriteString("\n## Pipeline Error\n\n")
		output.WriteString(result.Error)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (cmf *CopilotMarkdownFormatter) SupportedType() string {
	return "CopilotResult"
}

// AnalysisTextFormatter handles text formatting for standalone fit analyses
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalyzeFitOutput)
	if !ok {
		return "", fmt.Errorf("expected AnalyzeFitOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== FIT ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Compatibility Score: %d/100\n\n", result.CompatibilityScore))
	output.WriteString(result.Analysis)
	output.WriteString("\n")

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalyzeFitOutput"
}

// AnalysisMarkdownFormatter handles markdown formatting for standalone fit analyses
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalyzeFitOutput)
	if !ok {
		return "", fmt.Errorf("expected AnalyzeFitOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Fit Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Compatibility Score:** %d/100\n\n", result.CompatibilityScore))
	output.WriteString(result.Analysis)
	output.WriteString("\n")

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalyzeFitOutput"
}

// CoverLetterTextFormatter handles text formatting for standalone cover letters
type CoverLetterTextFormatter struct{}

func (clf *CoverLetterTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.DraftOutput)
	if !ok {
		return "", fmt.Errorf("expected DraftOutput, got %T", data)
	}
	return result.CoverLetter + "\n", nil
}

func (clf *CoverLetterTextFormatter) SupportedType() string {
	return "DraftOutput"
}

// CoverLetterMarkdownFormatter handles markdown formatting for standalone cover letters
type CoverLetterMarkdownFormatter struct{}

func (clm *CoverLetterMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.DraftOutput)
	if !ok {
		return "", fmt.Errorf("expected DraftOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Cover Letter\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n")

	return output.String(), nil
}

func (clm *CoverLetterMarkdownFormatter) SupportedType() string {
	return "DraftOutput"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
