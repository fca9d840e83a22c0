package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles loads custom prompts from external files if file paths
// are specified. Called at startup and again by the prompt watcher on change.
func (c *Config) loadPromptsFromFiles() error {
	var all AllLoadedPrompts

	// Global prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.CustomPrompts.SystemPrompts, &all.Global.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load global system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.CustomPrompts.UserPrompts, &all.Global.UserPrompts); err != nil {
		return fmt.Errorf("failed to load global user prompts: %w", err)
	}

	// Stage-specific prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.Analyze.CustomPrompts.SystemPrompts, &all.Analyze.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load analyze system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Analyze.CustomPrompts.UserPrompts, &all.Analyze.UserPrompts); err != nil {
		return fmt.Errorf("failed to load analyze user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Suggest.CustomPrompts.SystemPrompts, &all.Suggest.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load suggest system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Suggest.CustomPrompts.UserPrompts, &all.Suggest.UserPrompts); err != nil {
		return fmt.Errorf("failed to load suggest user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Draft.CustomPrompts.SystemPrompts, &all.Draft.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load draft system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Draft.CustomPrompts.UserPrompts, &all.Draft.UserPrompts); err != nil {
		return fmt.Errorf("failed to load draft user prompts: %w", err)
	}

	setLoadedPrompts(all)

	return nil
}

// loadSystemPromptsFromFiles loads system prompts from files if file paths are specified
func (c *Config) loadSystemPromptsFromFiles(prompts *SystemPrompts, target *LoadedSystemPrompts) error {
	if prompts.AnalyzeFitFile != "" {
		content, err := c.loadPromptFromFile(prompts.AnalyzeFitFile, "system", "analyzeFit")
		if err != nil {
			return err
		}
		target.AnalyzeFit = content
	}

	if prompts.SuggestRevisionsFile != "" {
		content, err := c.loadPromptFromFile(prompts.SuggestRevisionsFile, "system", "suggestRevisions")
		if err != nil {
			return err
		}
		target.SuggestRevisions = content
	}

	if prompts.DraftCoverLetterFile != "" {
		content, err := c.loadPromptFromFile(prompts.DraftCoverLetterFile, "system", "draftCoverLetter")
		if err != nil {
			return err
		}
		target.DraftCoverLetter = content
	}

	if prompts.AdaptCoverLetterFile != "" {
		content, err := c.loadPromptFromFile(prompts.AdaptCoverLetterFile, "system", "adaptCoverLetter")
		if err != nil {
			return err
		}
		target.AdaptCoverLetter = content
	}

	return nil
}

// loadUserPromptsFromFiles loads user prompts from files if file paths are specified
func (c *Config) loadUserPromptsFromFiles(prompts *UserPrompts, target *LoadedUserPrompts) error {
	if prompts.AnalyzeFitFile != "" {
		content, err := c.loadPromptFromFile(prompts.AnalyzeFitFile, "user", "analyzeFit")
		if err != nil {
			return err
		}
		target.AnalyzeFit = content
	}

	if prompts.SuggestRevisionsFile != "" {
		content, err := c.loadPromptFromFile(prompts.SuggestRevisionsFile, "user", "suggestRevisions")
		if err != nil {
			return err
		}
		target.SuggestRevisions = content
	}

	if prompts.DraftCoverLetterFile != "" {
		content, err := c.loadPromptFromFile(prompts.DraftCoverLetterFile, "user", "draftCoverLetter")
		if err != nil {
			return err
		}
		target.DraftCoverLetter = content
	}

	if prompts.AdaptCoverLetterFile != "" {
		content, err := c.loadPromptFromFile(prompts.AdaptCoverLetterFile, "user", "adaptCoverLetter")
		if err != nil {
			return err
		}
		target.AdaptCoverLetter = content
	}

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// promptFilePaths collects every configured prompt file path, deduplicated.
// Used by the prompt watcher to know which files to observe.
func (c *Config) promptFilePaths() []string {
	seen := make(map[string]bool)
	var paths []string

	add := func(p string) {
		if p == "" {
			return
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return
		}
		if !seen[abs] {
			seen[abs] = true
			paths = append(paths, abs)
		}
	}

	for _, sp := range []*SystemPrompts{
		&c.AI.CustomPrompts.SystemPrompts,
		&c.AI.Analyze.CustomPrompts.SystemPrompts,
		&c.AI.Suggest.CustomPrompts.SystemPrompts,
		&c.AI.Draft.CustomPrompts.SystemPrompts,
	} {
		add(sp.AnalyzeFitFile)
		add(sp.SuggestRevisionsFile)
		add(sp.DraftCoverLetterFile)
		add(sp.AdaptCoverLetterFile)
	}

	for _, up := range []*UserPrompts{
		&c.AI.CustomPrompts.UserPrompts,
		&c.AI.Analyze.CustomPrompts.UserPrompts,
		&c.AI.Suggest.CustomPrompts.UserPrompts,
		&c.AI.Draft.CustomPrompts.UserPrompts,
	} {
		add(up.AnalyzeFitFile)
		add(up.SuggestRevisionsFile)
		add(up.DraftCoverLetterFile)
		add(up.AdaptCoverLetterFile)
	}

	return paths
}
