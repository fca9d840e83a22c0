package config

import (
	"strings"
	"testing"
	"time"
)

func TestOperationConfigFallsBackToGlobal(t *testing.T) {
	globalTimeout := 45 * time.Second
	cfg := &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			APIKey:      "global-key",
			Timeout:     globalTimeout,
			MaxRetries:  3,
			Temperature: 0.4,
		},
	}

	analyzeConfig := cfg.GetAnalyzeConfig()

	if analyzeConfig.Provider != "gemini" {
		t.Errorf("Expected provider fallback 'gemini', got '%s'", analyzeConfig.Provider)
	}
	if analyzeConfig.Model != "gemini-2.5-flash" {
		t.Errorf("Expected model fallback, got '%s'", analyzeConfig.Model)
	}
	if analyzeConfig.APIKey != "global-key" {
		t.Errorf("Expected API key fallback, got '%s'", analyzeConfig.APIKey)
	}
	if analyzeConfig.Timeout == nil || *analyzeConfig.Timeout != globalTimeout {
		t.Errorf("Expected timeout fallback %v, got %v", globalTimeout, analyzeConfig.Timeout)
	}
	if analyzeConfig.MaxRetries == nil || *analyzeConfig.MaxRetries != 3 {
		t.Errorf("Expected max retries fallback 3, got %v", analyzeConfig.MaxRetries)
	}
	if analyzeConfig.Temperature == nil || *analyzeConfig.Temperature != 0.4 {
		t.Errorf("Expected temperature fallback 0.4, got %v", analyzeConfig.Temperature)
	}
}

func TestOperationConfigOverridesWin(t *testing.T) {
	stageTimeout := 90 * time.Second
	stageRetries := 1
	cfg := &Config{
		AI: AIConfig{
			Provider:   "gemini",
			Model:      "gemini-2.5-flash",
			APIKey:     "global-key",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			Draft: OperationAIConfig{
				Model:      "gemini-2.5-pro",
				Timeout:    &stageTimeout,
				MaxRetries: &stageRetries,
			},
		},
	}

	draftConfig := cfg.GetDraftConfig()

	if draftConfig.Model != "gemini-2.5-pro" {
		t.Errorf("Expected stage model override, got '%s'", draftConfig.Model)
	}
	if draftConfig.Provider != "gemini" {
		t.Errorf("Expected provider fallback, got '%s'", draftConfig.Provider)
	}
	if draftConfig.Timeout == nil || *draftConfig.Timeout != stageTimeout {
		t.Errorf("Expected stage timeout override %v, got %v", stageTimeout, draftConfig.Timeout)
	}
	if draftConfig.MaxRetries == nil || *draftConfig.MaxRetries != 1 {
		t.Errorf("Expected stage retries override 1, got %v", draftConfig.MaxRetries)
	}
	if draftConfig.APIKey != "global-key" {
		t.Errorf("Expected API key fallback, got '%s'", draftConfig.APIKey)
	}
}

func TestDraftConfigCarriesBothPromptPairs(t *testing.T) {
	cfg := &Config{
		AI: AIConfig{
			Provider: "gemini",
			Model:    "m",
			CustomPrompts: PromptConfig{
				SystemPrompts: SystemPrompts{
					DraftCoverLetter: "write a letter",
					AdaptCoverLetter: "edit the letter",
				},
				UserPrompts: UserPrompts{
					DraftCoverLetter: "scratch template",
					AdaptCoverLetter: "adapt template",
				},
			},
		},
	}

	draftConfig := cfg.GetDraftConfig()

	if draftConfig.CustomPrompts.SystemPrompts.DraftCoverLetter != "write a letter" {
		t.Error("Expected scratch system prompt propagated to draft config")
	}
	if draftConfig.CustomPrompts.SystemPrompts.AdaptCoverLetter != "edit the letter" {
		t.Error("Expected adapt system prompt propagated to draft config")
	}
	if draftConfig.CustomPrompts.UserPrompts.DraftCoverLetter != "scratch template" {
		t.Error("Expected scratch user template propagated to draft config")
	}
	if draftConfig.CustomPrompts.UserPrompts.AdaptCoverLetter != "adapt template" {
		t.Error("Expected adapt user template propagated to draft config")
	}
}

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name        string
		tls         TLSConfig
		expectError bool
		errContains string
	}{
		{
			name:        "disabled mode is valid",
			tls:         TLSConfig{Mode: "disabled"},
			expectError: false,
		},
		{
			name: "server mode with cert and key",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/etc/tls/server.crt",
				KeyFile:  "/etc/tls/server.key",
			},
			expectError: false,
		},
		{
			name:        "server mode without certificates",
			tls:         TLSConfig{Mode: "server"},
			expectError: true,
		},
		{
			name:        "invalid mode",
			tls:         TLSConfig{Mode: "mutual"},
			expectError: true,
			errContains: "invalid TLS mode",
		},
		{
			name: "invalid min version",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/etc/tls/server.crt",
				KeyFile:    "/etc/tls/server.key",
				MinVersion: "1.1",
			},
			expectError: true,
			errContains: "invalid TLS minVersion",
		},
		{
			name: "min version 1.3 is valid",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/etc/tls/server.crt",
				KeyFile:    "/etc/tls/server.key",
				MinVersion: "1.3",
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{TLS: tt.tls}}
			err := cfg.ValidateTLSConfig()

			if tt.expectError {
				if err == nil {
					t.Fatal("Expected validation error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Expected error containing %q, got %q", tt.errContains, err.Error())
				}
			} else if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
		})
	}
}
