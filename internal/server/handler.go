package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"thracker/internal/ai"
	"thracker/internal/copilot"
	"thracker/internal/observability"
	"thracker/internal/store"
	"thracker/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createCopilotHandler wraps the copilot pipeline endpoint with observability.
// The handler resolves the application record and resume, runs the three-stage
// pipeline, and always answers 200 with a fully shaped payload once the
// pipeline has started; HTTP error codes are reserved for resolution problems.
func (s *Server) createCopilotHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("thracker.api")
		ctx, span := tracer.Start(ctx, "api.copilot")
		defer span.End()

		// Parse request
		var req CopilotRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.ApplicationID) == "" {
			err := fmt.Errorf("missing application id")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing application id", "applicationId field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("application.id", req.ApplicationID),
			attribute.Bool("request.has_base_cover_letter", req.BaseCoverLetter != ""),
			attribute.String("operation", "copilot"),
		)

		// Resolve the application record
		app, err := s.Store.GetApplication(ctx, req.ApplicationID)
		if err != nil {
			span.RecordError(err)
			if errors.Is(err, store.ErrNotFound) {
				span.SetAttributes(attribute.String("error.type", "not_found"))
				writeErrorResponse(w, "Application not found", fmt.Sprintf("no application record with id %q", req.ApplicationID), http.StatusNotFound)
				return
			}
			span.SetAttributes(attribute.String("error.type", "store"))
			writeErrorResponse(w, "Failed to load application", err.Error(), http.StatusInternalServerError)
			return
		}

		// Resolve the resume: most recent upload, falling back to the
		// configured default text when the owner has none stored
		resumeText, err := s.resolveResumeText(r, &req)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "not_found"))
			writeErrorResponse(w, "Resume not found", err.Error(), http.StatusNotFound)
			return
		}

		// Agent settings precedence: request body, then application record,
		// then empty-string directives
		settings := types.AgentSettings{}
		if app.AgentSettings != nil {
			settings = *app.AgentSettings
		}
		if req.AgentSettings != nil {
			settings = *req.AgentSettings
		}

		runner, cleanup, err := s.buildRunner(om)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}
		defer cleanup()

		result := runner.Run(ctx, copilot.RunInput{
			ResumeText:      resumeText,
			JobDescription:  app.JobDescription,
			JobDetails:      app.JobDetails,
			BaseCoverLetter: req.BaseCoverLetter,
			Settings:        settings,
		})

		// Record business metrics
		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "copilot_run", result.Error == "", om,
			attribute.String("application.id", req.ApplicationID))
		if result.CoverLetter != "" {
			metrics.RecordBusinessMetric(ctx, "cover_letter_drafted", true, om,
				attribute.Bool("adapted", req.BaseCoverLetter != ""))
		}
		if len(result.Suggestions) > 0 {
			metrics.RecordBusinessMetric(ctx, "suggestions_generated", true, om,
				attribute.Int("count", len(result.Suggestions)))
		}

		span.SetAttributes(
			attribute.Bool("success", result.Error == ""),
			attribute.Int("compatibility.score", result.CompatibilityScore),
			attribute.Int("suggestions.count", len(result.Suggestions)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(shapeCopilotResponse(result)); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// resolveResumeText returns the text the pipeline analyzes. The owner defaults
// to "default" so single-tenant deployments need no ownerId plumbing.
func (s *Server) resolveResumeText(r *http.Request, req *CopilotRequest) (string, error) {
	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = "default"
	}

	resume, err := s.Store.LatestResume(r.Context(), ownerID)
	if err == nil {
		return resume.Text, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	if s.AppConfig.Copilot.DefaultResumeText != "" {
		s.Logger.Debug("No stored resume, using configured default",
			"owner_id", ownerID)
		return s.AppConfig.Copilot.DefaultResumeText, nil
	}

	return "", fmt.Errorf("no resume stored for owner %q and no default resume configured", ownerID)
}

// buildRunner assembles a pipeline runner with one AI provider per stage.
// The returned cleanup closes the providers.
func (s *Server) buildRunner(om *observability.ObservabilityManager) (*copilot.Runner, func(), error) {
	analyzeConfig := s.AppConfig.GetAnalyzeConfig()
	suggestConfig := s.AppConfig.GetSuggestConfig()
	draftConfig := s.AppConfig.GetDraftConfig()

	analyzeService, err := ai.NewService(&analyzeConfig, "analyze", s.Logger)
	if err != nil {
		return nil, nil, err
	}
	suggestService, err := ai.NewService(&suggestConfig, "suggest", s.Logger)
	if err != nil {
		_ = analyzeService.Provider.Close()
		return nil, nil, err
	}
	draftService, err := ai.NewService(&draftConfig, "draft", s.Logger)
	if err != nil {
		_ = analyzeService.Provider.Close()
		_ = suggestService.Provider.Close()
		return nil, nil, err
	}

	providers := copilot.Providers{
		Analyze: analyzeService.Provider,
		Suggest: suggestService.Provider,
		Draft:   draftService.Provider,
	}
	timeouts := copilot.Timeouts{
		Analyze: timeoutOrZero(analyzeConfig.Timeout),
		Suggest: timeoutOrZero(suggestConfig.Timeout),
		Draft:   timeoutOrZero(draftConfig.Timeout),
	}

	runner := copilot.NewRunner(providers, timeouts, s.Logger, observability.NewPipelineObserver(om))
	cleanup := func() {
		_ = analyzeService.Provider.Close()
		_ = suggestService.Provider.Close()
		_ = draftService.Provider.Close()
	}
	return runner, cleanup, nil
}

func timeoutOrZero(d *time.Duration) time.Duration {
	if d == nil {
		return 0
	}
	return *d
}

// shapeCopilotResponse converts the pipeline result into the response form:
// suggestions gain stable positional ids and a client-side accepted flag.
func shapeCopilotResponse(result types.CopilotResult) CopilotResponse {
	suggestions := make([]types.SuggestionItem, 0, len(result.Suggestions))
	for i, pair := range result.Suggestions {
		suggestions = append(suggestions, types.SuggestionItem{
			ID:         fmt.Sprintf("suggestion-%d", i),
			Original:   pair.Original,
			Suggestion: pair.Suggestion,
			Accepted:   false,
		})
	}

	return CopilotResponse{
		CompatibilityScore: result.CompatibilityScore,
		AnalysisText:       result.AnalysisText,
		Suggestions:        suggestions,
		CoverLetter:        result.CoverLetter,
		Error:              result.Error,
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
