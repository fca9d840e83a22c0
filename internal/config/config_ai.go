package config

// applyOperationDefaults applies global defaults to stage-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetAnalyzeConfig returns the AI configuration for the analyze stage with fallback to global config
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	config := c.AI.Analyze

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.AnalyzeFit == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeFit = c.AI.CustomPrompts.SystemPrompts.AnalyzeFit
	}
	if config.CustomPrompts.UserPrompts.AnalyzeFit == "" {
		config.CustomPrompts.UserPrompts.AnalyzeFit = c.AI.CustomPrompts.UserPrompts.AnalyzeFit
	}
	if config.CustomPrompts.SystemPrompts.AnalyzeFitFile == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeFitFile = c.AI.CustomPrompts.SystemPrompts.AnalyzeFitFile
	}
	if config.CustomPrompts.UserPrompts.AnalyzeFitFile == "" {
		config.CustomPrompts.UserPrompts.AnalyzeFitFile = c.AI.CustomPrompts.UserPrompts.AnalyzeFitFile
	}

	return config
}

// GetSuggestConfig returns the AI configuration for the suggest stage with fallback to global config
func (c *Config) GetSuggestConfig() OperationAIConfig {
	config := c.AI.Suggest

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.SuggestRevisions == "" {
		config.CustomPrompts.SystemPrompts.SuggestRevisions = c.AI.CustomPrompts.SystemPrompts.SuggestRevisions
	}
	if config.CustomPrompts.UserPrompts.SuggestRevisions == "" {
		config.CustomPrompts.UserPrompts.SuggestRevisions = c.AI.CustomPrompts.UserPrompts.SuggestRevisions
	}
	if config.CustomPrompts.SystemPrompts.SuggestRevisionsFile == "" {
		config.CustomPrompts.SystemPrompts.SuggestRevisionsFile = c.AI.CustomPrompts.SystemPrompts.SuggestRevisionsFile
	}
	if config.CustomPrompts.UserPrompts.SuggestRevisionsFile == "" {
		config.CustomPrompts.UserPrompts.SuggestRevisionsFile = c.AI.CustomPrompts.UserPrompts.SuggestRevisionsFile
	}

	return config
}

// GetDraftConfig returns the AI configuration for the draft stage with fallback to global config.
// The draft stage carries two prompt pairs: one for writing a cover letter from
// scratch and one for adapting a caller-provided base letter.
func (c *Config) GetDraftConfig() OperationAIConfig {
	config := c.AI.Draft

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.DraftCoverLetter == "" {
		config.CustomPrompts.SystemPrompts.DraftCoverLetter = c.AI.CustomPrompts.SystemPrompts.DraftCoverLetter
	}
	if config.CustomPrompts.UserPrompts.DraftCoverLetter == "" {
		config.CustomPrompts.UserPrompts.DraftCoverLetter = c.AI.CustomPrompts.UserPrompts.DraftCoverLetter
	}
	if config.CustomPrompts.SystemPrompts.AdaptCoverLetter == "" {
		config.CustomPrompts.SystemPrompts.AdaptCoverLetter = c.AI.CustomPrompts.SystemPrompts.AdaptCoverLetter
	}
	if config.CustomPrompts.UserPrompts.AdaptCoverLetter == "" {
		config.CustomPrompts.UserPrompts.AdaptCoverLetter = c.AI.CustomPrompts.UserPrompts.AdaptCoverLetter
	}
	if config.CustomPrompts.SystemPrompts.DraftCoverLetterFile == "" {
		config.CustomPrompts.SystemPrompts.DraftCoverLetterFile = c.AI.CustomPrompts.SystemPrompts.DraftCoverLetterFile
	}
	if config.CustomPrompts.UserPrompts.DraftCoverLetterFile == "" {
		config.CustomPrompts.UserPrompts.DraftCoverLetterFile = c.AI.CustomPrompts.UserPrompts.DraftCoverLetterFile
	}
	if config.CustomPrompts.SystemPrompts.AdaptCoverLetterFile == "" {
		config.CustomPrompts.SystemPrompts.AdaptCoverLetterFile = c.AI.CustomPrompts.SystemPrompts.AdaptCoverLetterFile
	}
	if config.CustomPrompts.UserPrompts.AdaptCoverLetterFile == "" {
		config.CustomPrompts.UserPrompts.AdaptCoverLetterFile = c.AI.CustomPrompts.UserPrompts.AdaptCoverLetterFile
	}

	return config
}

// GetLoadedAnalyzePrompts returns a copy of the loaded prompts for the analyze stage
func (c *Config) GetLoadedAnalyzePrompts() OperationLoadedPrompts {
	return GetPromptsForOperation("analyze")
}

// GetLoadedSuggestPrompts returns a copy of the loaded prompts for the suggest stage
func (c *Config) GetLoadedSuggestPrompts() OperationLoadedPrompts {
	return GetPromptsForOperation("suggest")
}

// GetLoadedDraftPrompts returns a copy of the loaded prompts for the draft stage
func (c *Config) GetLoadedDraftPrompts() OperationLoadedPrompts {
	return GetPromptsForOperation("draft")
}
