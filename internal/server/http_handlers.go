package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"thracker/internal/ai"
	"thracker/internal/store"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler provides a comprehensive health check endpoint including AI model status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "thracker",
		"version": s.Version,
	}

	// Check AI model availability for all pipeline stages
	aiStatus := s.checkAIModelsHealth()
	response["ai_models"] = aiStatus

	// Check circuit breaker status
	circuitBreakerStatus := s.checkCircuitBreakerHealth()
	response["circuit_breakers"] = circuitBreakerStatus

	// Report prompt hot-reload status when a watcher is configured
	if promptStatus := s.checkPromptWatcherHealth(); promptStatus != nil {
		response["prompt_reload"] = promptStatus
	}

	// Determine overall health status
	overallHealthy := true
	for _, modelStatus := range aiStatus {
		if modelInfo, ok := modelStatus.(map[string]any); ok {
			if available, exists := modelInfo["available"]; exists {
				if avail, ok := available.(bool); ok && !avail {
					overallHealthy = false
					break
				}
			}
		}
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkAIModelsHealth checks the health of the AI models used by each pipeline stage
func (s *Server) checkAIModelsHealth() map[string]any {
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	aiStatus := make(map[string]any)

	stageConfigs := s.stageConfigs()
	for _, stage := range [...]string{"analyze", "suggest", "draft"} {
		cfg := stageConfigs[stage]
		if service, err := ai.NewService(&cfg, stage, s.Logger); err == nil {
			aiStatus[stage] = service.GetModelInfo(ctx)
		} else {
			aiStatus[stage] = map[string]any{
				"available": false,
				"error":     fmt.Sprintf("Failed to create %s service: %v", stage, err),
			}
		}
	}

	return aiStatus
}

// checkCircuitBreakerHealth checks the health of circuit breakers for all pipeline stages
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	circuitBreakerStatus := make(map[string]any)

	stageConfigs := s.stageConfigs()
	for _, stage := range [...]string{"analyze", "suggest", "draft"} {
		cfg := stageConfigs[stage]
		if _, err := ai.NewService(&cfg, stage, s.Logger); err == nil {
			circuitBreakerStatus[stage] = map[string]any{
				"available": true,
				"message":   fmt.Sprintf("Circuit breaker integrated with %s service", stage),
			}
		} else {
			circuitBreakerStatus[stage] = map[string]any{
				"available": false,
				"error":     fmt.Sprintf("Failed to create %s service: %v", stage, err),
			}
		}
	}

	return circuitBreakerStatus
}

// checkPromptWatcherHealth reports the prompt file watcher state
func (s *Server) checkPromptWatcherHealth() map[string]any {
	if s.PromptWatcher == nil {
		return nil
	}

	return map[string]any{
		"enabled":       true,
		"running":       s.PromptWatcher.IsRunning(),
		"watched_files": s.PromptWatcher.WatchedFiles(),
	}
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "thracker",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if apps, err := s.Store.ListApplications(r.Context()); err == nil {
		response["applications"] = map[string]any{
			"count": len(apps),
		}
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// applicationHandler serves PUT and GET on /applications/{id}
func (s *Server) applicationHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/applications/")
	if id == "" || strings.Contains(id, "/") {
		writeErrorResponse(w, "Invalid application id", "path must be /applications/{id}", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		app, err := s.Store.GetApplication(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeErrorResponse(w, "Application not found", fmt.Sprintf("no application record with id %q", id), http.StatusNotFound)
				return
			}
			writeErrorResponse(w, "Failed to load application", err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSONResponse(w, app)

	case http.MethodPut:
		var app store.Application
		if err := parseJSONRequest(r, &app); err != nil {
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		// The path id wins over any id in the body
		app.ID = id
		if strings.TrimSpace(app.JobDescription) == "" {
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		saved, err := s.Store.PutApplication(r.Context(), app)
		if err != nil {
			writeErrorResponse(w, "Failed to store application", err.Error(), http.StatusInternalServerError)
			return
		}
		s.Logger.Info("Application record stored",
			"application_id", saved.ID,
			"company", saved.JobDetails.Company)
		writeJSONResponse(w, saved)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// resumeHandler serves POST /resumes
func (s *Server) resumeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ResumeRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeErrorResponse(w, "Missing resume text", "text field is required", http.StatusBadRequest)
		return
	}
	if req.OwnerID == "" {
		req.OwnerID = "default"
	}

	resume, err := s.Store.AddResume(r.Context(), store.Resume{
		OwnerID: req.OwnerID,
		Text:    req.Text,
	})
	if err != nil {
		writeErrorResponse(w, "Failed to store resume", err.Error(), http.StatusInternalServerError)
		return
	}

	s.Logger.Info("Resume stored",
		"resume_id", resume.ID,
		"owner_id", resume.OwnerID,
		"length", len(resume.Text))
	w.WriteHeader(http.StatusCreated)
	writeJSONResponse(w, resume)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeJSONResponse writes v as a JSON body
func writeJSONResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
