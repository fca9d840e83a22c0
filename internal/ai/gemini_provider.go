package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"thracker/internal/config"
	thrackerErrors "thracker/internal/errors"
	"thracker/internal/types"
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	operationType  string
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *thrackerErrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific stage
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *thrackerErrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, thrackerErrors.NewAIError(thrackerErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	circuitBreaker := NewAICircuitBreaker(operationType, cfg, logger)
	modelBreaker := NewModelCircuitBreaker(operationType, cfg, logger)

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config:         cfg,
		operationType:  operationType,
		circuitBreaker: circuitBreaker,
		modelBreaker:   modelBreaker,
		logger:         logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, getAIModelCheckTimeout())
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)

		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= *g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *g.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on certain errors (auth, invalid input, etc.)
		if !g.isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *g.config.MaxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func (g *GeminiProvider) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Check for network errors (timeouts, connection issues)
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true
		}
		// Consider other network errors retryable (e.g., connection refused)
		return true
	}

	// Check for Google API errors (HTTP status codes)
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// executeAIOperation is a generic helper to run AI operations with common tracing, circuit breaker, and parsing logic.
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("thracker.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, thrackerErrors.NewAIError(thrackerErrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, thrackerErrors.NewAIError(thrackerErrors.ErrCodeAIParseFailed, "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// AnalyzeFit implements AIProvider for resume/job compatibility analysis
func (g *GeminiProvider) AnalyzeFit(ctx context.Context, input types.AnalyzeFitInput) (types.AnalyzeFitOutput, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt("analyze")
	userPrompt := formatAnalyzePrompt(g.getUserPrompt("analyze"), input)
	genaiConfig := g.buildAnalyzeSchema()

	output, tokenUsage, err := executeAIOperation[types.AnalyzeFitOutput](
		g,
		ctx,
		"analyze_fit",
		userPrompt,
		systemPrompt,
		genaiConfig,
		attribute.Int("input.resume_length", len(input.ResumeText)),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)

	if err != nil {
		return types.AnalyzeFitOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("compatibility.score", output.CompatibilityScore),
			attribute.Int("output.analysis_length", len(output.Analysis)),
		)
	}

	return output, tokenUsage, nil
}

// SuggestRevisions implements AIProvider for resume revision suggestions
func (g *GeminiProvider) SuggestRevisions(ctx context.Context, input types.SuggestInput) (types.SuggestOutput, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt("suggest")
	userPrompt := formatSuggestPrompt(g.getUserPrompt("suggest"), input)
	genaiConfig := g.buildSuggestSchema()

	output, tokenUsage, err := executeAIOperation[types.SuggestOutput](
		g,
		ctx,
		"suggest_revisions",
		userPrompt,
		systemPrompt,
		genaiConfig,
		attribute.Int("input.resume_length", len(input.ResumeText)),
		attribute.Int("input.score", input.CompatibilityScore),
	)

	if err != nil {
		return types.SuggestOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("suggestions_count", len(output.Suggestions)),
		)
	}

	return output, tokenUsage, nil
}

// DraftCoverLetter implements AIProvider for cover letter drafting. The
// instruction changes entirely when a base cover letter is present: the system
// prompt switches to edit-in-place and the payload carries the base letter verbatim.
func (g *GeminiProvider) DraftCoverLetter(ctx context.Context, input types.DraftInput) (types.DraftOutput, *TokenUsage, error) {
	systemPromptType := "draft"
	if input.BaseCoverLetter != "" {
		systemPromptType = "adapt"
	}
	systemPrompt := g.getSystemPrompt(systemPromptType)
	userPrompt := formatDraftPrompt(g.getUserPrompt("draft"), g.getUserPrompt("adapt"), input)
	genaiConfig := g.buildDraftSchema()

	output, tokenUsage, err := executeAIOperation[types.DraftOutput](
		g,
		ctx,
		"draft_cover_letter",
		userPrompt,
		systemPrompt,
		genaiConfig,
		attribute.Int("input.resume_length", len(input.ResumeText)),
		attribute.Bool("input.has_base_letter", input.BaseCoverLetter != ""),
	)

	if err != nil {
		return types.DraftOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.letter_length", len(output.CoverLetter)),
		)
	}

	return output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
	}

	// Overall health - both breakers must be healthy
	aiHealthy := g.circuitBreaker.IsHealthy()
	modelHealthy := g.modelBreaker.IsModelHealthy()
	stats["overall_healthy"] = aiHealthy && modelHealthy

	return stats
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// buildAnalyzeSchema creates the schema for fit analysis requests
func (g *GeminiProvider) buildAnalyzeSchema() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"compatibilityScore": {Type: genai.TypeInteger},
				"analysis":           {Type: genai.TypeString},
			},
			Required: []string{"compatibilityScore", "analysis"},
		},
	}

	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}

	return genaiConfig
}

// buildSuggestSchema creates the schema for revision suggestion requests
func (g *GeminiProvider) buildSuggestSchema() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"suggestions": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"original":   {Type: genai.TypeString},
							"suggestion": {Type: genai.TypeString},
						},
						Required: []string{"original", "suggestion"},
					},
				},
			},
			Required: []string{"suggestions"},
		},
	}

	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}

	return genaiConfig
}

// buildDraftSchema creates the schema for cover letter requests
func (g *GeminiProvider) buildDraftSchema() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"coverLetter": {Type: genai.TypeString},
			},
			Required: []string{"coverLetter"},
		},
	}

	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}

	return genaiConfig
}

// getSystemPrompt returns the appropriate system prompt
func (g *GeminiProvider) getSystemPrompt(promptType string) string {
	loadedPrompts := config.GetPromptsForOperation(g.operationType)
	configSystemPrompts := &g.config.CustomPrompts.SystemPrompts

	switch promptType {
	case "analyze":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.AnalyzeFit,
			configSystemPrompts.AnalyzeFit,
			DefaultSystemPrompts.AnalyzeFit,
		)
	case "suggest":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.SuggestRevisions,
			configSystemPrompts.SuggestRevisions,
			DefaultSystemPrompts.SuggestRevisions,
		)
	case "draft":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.DraftCoverLetter,
			configSystemPrompts.DraftCoverLetter,
			DefaultSystemPrompts.DraftCoverLetter,
		)
	case "adapt":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.AdaptCoverLetter,
			configSystemPrompts.AdaptCoverLetter,
			DefaultSystemPrompts.AdaptCoverLetter,
		)
	default:
		return ""
	}
}

// getUserPrompt returns the appropriate user prompt template
func (g *GeminiProvider) getUserPrompt(promptType string) string {
	loadedPrompts := config.GetPromptsForOperation(g.operationType)
	configUserPrompts := &g.config.CustomPrompts.UserPrompts

	switch promptType {
	case "analyze":
		return resolvePrompt(
			loadedPrompts.UserPrompts.AnalyzeFit,
			configUserPrompts.AnalyzeFit,
			DefaultUserPrompts.AnalyzeFit,
		)
	case "suggest":
		return resolvePrompt(
			loadedPrompts.UserPrompts.SuggestRevisions,
			configUserPrompts.SuggestRevisions,
			DefaultUserPrompts.SuggestRevisions,
		)
	case "draft":
		return resolvePrompt(
			loadedPrompts.UserPrompts.DraftCoverLetter,
			configUserPrompts.DraftCoverLetter,
			DefaultUserPrompts.DraftCoverLetter,
		)
	case "adapt":
		return resolvePrompt(
			loadedPrompts.UserPrompts.AdaptCoverLetter,
			configUserPrompts.AdaptCoverLetter,
			DefaultUserPrompts.AdaptCoverLetter,
		)
	default:
		return ""
	}
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// getAIModelCheckTimeout returns the AI model check timeout for health probes
func getAIModelCheckTimeout() time.Duration {
	return 10 * time.Second
}

// resolvePrompt selects the correct prompt string based on priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. A hardcoded default prompt.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
