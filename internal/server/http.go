package server

import (
	"time"

	"thracker/internal/config"
	thrackerErrors "thracker/internal/errors"
	"thracker/internal/store"
	"thracker/internal/types"
)

// CopilotRequest represents the request body for the copilot endpoint.
// Only applicationId is required; agentSettings in the body override any
// settings stored on the application record.
type CopilotRequest struct {
	ApplicationID   string               `json:"applicationId"`
	OwnerID         string               `json:"ownerId,omitempty"`
	BaseCoverLetter string               `json:"baseCoverLetter,omitempty"`
	AgentSettings   *types.AgentSettings `json:"agentSettings,omitempty"`
}

// CopilotResponse is the shaped copilot result returned to HTTP callers
type CopilotResponse struct {
	CompatibilityScore int                    `json:"compatibilityScore"`
	AnalysisText       string                 `json:"analysisText"`
	Suggestions        []types.SuggestionItem `json:"suggestions"`
	CoverLetter        string                 `json:"coverLetter"`
	Error              string                 `json:"error,omitempty"`
}

// ResumeRequest represents the request body for the resume upload endpoint
type ResumeRequest struct {
	OwnerID string `json:"ownerId,omitempty"`
	Text    string `json:"text"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Application records and resumes resolved by the copilot endpoint
	Store *store.MemoryStore

	// Prompt file hot reload
	PromptWatcher *config.PromptWatcher

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *thrackerErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// stageConfigs returns the resolved per-stage AI configurations keyed by
// operation name
func (s *Server) stageConfigs() map[string]config.OperationAIConfig {
	return map[string]config.OperationAIConfig{
		"analyze": s.AppConfig.GetAnalyzeConfig(),
		"suggest": s.AppConfig.GetSuggestConfig(),
		"draft":   s.AppConfig.GetDraftConfig(),
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, st *store.MemoryStore, logger *thrackerErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		Store:          st,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
