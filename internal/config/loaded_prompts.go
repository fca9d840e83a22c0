package config

import (
	"sync"
)

var (
	loadedPrompts   AllLoadedPrompts
	loadedPromptsMu sync.RWMutex
)

// LoadedPrompts holds the content of prompts loaded from files
type LoadedPrompts struct {
	SystemPrompts LoadedSystemPrompts
	UserPrompts   LoadedUserPrompts
}

// LoadedSystemPrompts contains loaded system-level instructions
type LoadedSystemPrompts struct {
	AnalyzeFit       string
	SuggestRevisions string
	DraftCoverLetter string
	AdaptCoverLetter string
}

// LoadedUserPrompts contains loaded user-level prompt templates
type LoadedUserPrompts struct {
	AnalyzeFit       string
	SuggestRevisions string
	DraftCoverLetter string
	AdaptCoverLetter string
}

// OperationLoadedPrompts holds loaded prompts for a specific pipeline stage
type OperationLoadedPrompts struct {
	SystemPrompts LoadedSystemPrompts
	UserPrompts   LoadedUserPrompts
}

// AllLoadedPrompts holds loaded prompts for all stages
type AllLoadedPrompts struct {
	Global  LoadedPrompts
	Analyze OperationLoadedPrompts
	Suggest OperationLoadedPrompts
	Draft   OperationLoadedPrompts
}

// GetPromptsForOperation returns a copy of the loaded prompts for a stage.
// Safe to call concurrently with prompt hot-reload.
func GetPromptsForOperation(operationType string) OperationLoadedPrompts {
	loadedPromptsMu.RLock()
	defer loadedPromptsMu.RUnlock()

	switch operationType {
	case "analyze":
		return loadedPrompts.Analyze
	case "suggest":
		return loadedPrompts.Suggest
	case "draft":
		return loadedPrompts.Draft
	default:
		return OperationLoadedPrompts{
			SystemPrompts: loadedPrompts.Global.SystemPrompts,
			UserPrompts:   loadedPrompts.Global.UserPrompts,
		}
	}
}

// setLoadedPrompts replaces the loaded prompt set atomically
func setLoadedPrompts(all AllLoadedPrompts) {
	loadedPromptsMu.Lock()
	defer loadedPromptsMu.Unlock()
	loadedPrompts = all
}
