package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	systemPromptContent := "Test system prompt for fit analysis"
	userPromptContent := "Test user prompt template: %s and %s"

	systemPromptFile := filepath.Join(tempDir, "system.analyze.md")
	userPromptFile := filepath.Join(tempDir, "user.analyze.md")

	if err := os.WriteFile(systemPromptFile, []byte(systemPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test system prompt file: %v", err)
	}
	if err := os.WriteFile(userPromptFile, []byte(userPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test user prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Analyze: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{
						AnalyzeFitFile: systemPromptFile,
					},
					UserPrompts: UserPrompts{
						AnalyzeFitFile: userPromptFile,
					},
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	loadedOps := GetPromptsForOperation("analyze")

	if loadedOps.SystemPrompts.AnalyzeFit != systemPromptContent {
		t.Errorf("Expected loaded system prompt content '%s', got '%s'",
			systemPromptContent, loadedOps.SystemPrompts.AnalyzeFit)
	}
	if loadedOps.UserPrompts.AnalyzeFit != userPromptContent {
		t.Errorf("Expected loaded user prompt content '%s', got '%s'",
			userPromptContent, loadedOps.UserPrompts.AnalyzeFit)
	}
}

func TestLoadPromptsFromFilesTrimsWhitespace(t *testing.T) {
	tempDir := t.TempDir()

	promptFile := filepath.Join(tempDir, "system.draft.md")
	if err := os.WriteFile(promptFile, []byte("\n\n  draft this letter  \n\n"), 0600); err != nil {
		t.Fatalf("Failed to create test prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Draft: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{
						DraftCoverLetterFile: promptFile,
					},
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	loadedOps := GetPromptsForOperation("draft")
	if loadedOps.SystemPrompts.DraftCoverLetter != "draft this letter" {
		t.Errorf("Expected trimmed prompt content, got '%s'", loadedOps.SystemPrompts.DraftCoverLetter)
	}
}

func TestLoadPromptsFromFilesMissingFile(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			Suggest: OperationAIConfig{
				CustomPrompts: PromptConfig{
					UserPrompts: UserPrompts{
						SuggestRevisionsFile: "/nonexistent/user.suggest.md",
					},
				},
			},
		},
	}

	err := config.loadPromptsFromFiles()
	if err == nil {
		t.Fatal("Expected error for missing prompt file, got nil")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected 'not found' error, got: %v", err)
	}
}

func TestLoadPromptsFromFilesEmptyFile(t *testing.T) {
	tempDir := t.TempDir()

	emptyFile := filepath.Join(tempDir, "empty.md")
	if err := os.WriteFile(emptyFile, []byte("   \n  "), 0600); err != nil {
		t.Fatalf("Failed to create empty prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				SystemPrompts: SystemPrompts{
					AnalyzeFitFile: emptyFile,
				},
			},
		},
	}

	err := config.loadPromptsFromFiles()
	if err == nil {
		t.Fatal("Expected error for empty prompt file, got nil")
	}
	if !strings.Contains(err.Error(), "is empty") {
		t.Errorf("Expected 'is empty' error, got: %v", err)
	}
}

func TestPromptFilePathsDeduplicates(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				SystemPrompts: SystemPrompts{
					AnalyzeFitFile: "prompts/shared.md",
				},
			},
			Analyze: OperationAIConfig{
				CustomPrompts: PromptConfig{
					SystemPrompts: SystemPrompts{
						AnalyzeFitFile: "prompts/shared.md",
					},
					UserPrompts: UserPrompts{
						AnalyzeFitFile: "prompts/user.analyze.md",
					},
				},
			},
		},
	}

	paths := config.promptFilePaths()
	if len(paths) != 2 {
		t.Fatalf("Expected 2 deduplicated paths, got %d: %v", len(paths), paths)
	}
}

func TestGetPromptsForOperationUnknownFallsBackToGlobal(t *testing.T) {
	setLoadedPrompts(AllLoadedPrompts{
		Global: LoadedPrompts{
			SystemPrompts: LoadedSystemPrompts{AnalyzeFit: "global system"},
		},
		Analyze: OperationLoadedPrompts{
			SystemPrompts: LoadedSystemPrompts{AnalyzeFit: "analyze system"},
		},
	})
	t.Cleanup(func() { setLoadedPrompts(AllLoadedPrompts{}) })

	if got := GetPromptsForOperation("analyze").SystemPrompts.AnalyzeFit; got != "analyze system" {
		t.Errorf("Expected stage prompts for analyze, got '%s'", got)
	}
	if got := GetPromptsForOperation("unknown").SystemPrompts.AnalyzeFit; got != "global system" {
		t.Errorf("Expected global prompts for unknown operation, got '%s'", got)
	}
}
