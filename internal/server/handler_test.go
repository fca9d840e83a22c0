package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"thracker/internal/config"
	thrackerErrors "thracker/internal/errors"
	"thracker/internal/observability"
	"thracker/internal/store"
	"thracker/internal/types"
)

func testLogger(t *testing.T) *thrackerErrors.Logger {
	t.Helper()
	logger, err := thrackerErrors.New("error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}

func newTestServer(t *testing.T, apiKeys []string) *Server {
	t.Helper()
	cfg := &config.Config{}
	return NewServer(cfg, ServerConfig{
		Host:           "127.0.0.1",
		Port:           "8080",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 1 << 20,
	}, store.NewMemoryStore(nil), testLogger(t))
}

func newTestObservability(t *testing.T) *observability.ObservabilityManager {
	t.Helper()
	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("Failed to create observability manager: %v", err)
	}
	return om
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestShapeCopilotResponse(t *testing.T) {
	result := types.CopilotResult{
		CompatibilityScore: 77,
		AnalysisText:       "good fit",
		Suggestions: []types.RevisionPair{
			{Original: "a", Suggestion: "b"},
			{Original: "c", Suggestion: "d"},
			{Original: "e", Suggestion: "f"},
		},
		CoverLetter: "Dear team,",
	}

	response := shapeCopilotResponse(result)

	if len(response.Suggestions) != 3 {
		t.Fatalf("Expected 3 shaped suggestions, got %d", len(response.Suggestions))
	}
	for i, item := range response.Suggestions {
		wantID := fmt.Sprintf("suggestion-%d", i)
		if item.ID != wantID {
			t.Errorf("Expected id %q, got %q", wantID, item.ID)
		}
		if item.Accepted {
			t.Errorf("Expected accepted=false for %q", item.ID)
		}
	}
	if response.Suggestions[1].Original != "c" || response.Suggestions[1].Suggestion != "d" {
		t.Errorf("Expected suggestion content carried over, got %+v", response.Suggestions[1])
	}
	if response.CompatibilityScore != 77 || response.CoverLetter != "Dear team," {
		t.Errorf("Expected scalar fields carried over, got %+v", response)
	}
}

func TestShapeCopilotResponseEmptyResult(t *testing.T) {
	response := shapeCopilotResponse(types.CopilotResult{
		Suggestions: []types.RevisionPair{},
		Error:       "analyze stage failed: boom",
	})

	if response.Suggestions == nil {
		t.Error("Expected non-nil suggestions slice")
	}
	if len(response.Suggestions) != 0 {
		t.Errorf("Expected no suggestions, got %d", len(response.Suggestions))
	}
	if response.Error != "analyze stage failed: boom" {
		t.Errorf("Expected error field carried over, got %q", response.Error)
	}
}

func TestCopilotHandlerMissingApplicationID(t *testing.T) {
	s := newTestServer(t, nil)
	handler := s.createCopilotHandler(newTestObservability(t))

	rec := httptest.NewRecorder()
	handler(rec, jsonRequest(http.MethodPost, "/copilot", `{}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Error != "Missing application id" {
		t.Errorf("Expected missing application id error, got %q", errResp.Error)
	}
}

func TestCopilotHandlerInvalidContentType(t *testing.T) {
	s := newTestServer(t, nil)
	handler := s.createCopilotHandler(newTestObservability(t))

	req := httptest.NewRequest(http.MethodPost, "/copilot", strings.NewReader(`{"applicationId":"app-1"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for missing content type, got %d", rec.Code)
	}
}

func TestCopilotHandlerApplicationNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	handler := s.createCopilotHandler(newTestObservability(t))

	rec := httptest.NewRecorder()
	handler(rec, jsonRequest(http.MethodPost, "/copilot", `{"applicationId":"missing"}`))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Error != "Application not found" {
		t.Errorf("Expected application not found error, got %q", errResp.Error)
	}
}

func TestCopilotHandlerNoResumeNoDefault(t *testing.T) {
	s := newTestServer(t, nil)
	if _, err := s.Store.PutApplication(context.Background(), store.Application{
		ID:             "app-1",
		JobDescription: "jd",
	}); err != nil {
		t.Fatalf("PutApplication failed: %v", err)
	}

	handler := s.createCopilotHandler(newTestObservability(t))
	rec := httptest.NewRecorder()
	handler(rec, jsonRequest(http.MethodPost, "/copilot", `{"applicationId":"app-1"}`))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 when no resume stored and no default configured, got %d", rec.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Error != "Resume not found" {
		t.Errorf("Expected resume not found error, got %q", errResp.Error)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, []string{"valid-key-12345"})

	called := false
	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing key rejected", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/copilot", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
		if called {
			t.Error("Handler should not run without API key")
		}
	})

	t.Run("invalid key rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/copilot", nil)
		req.Header.Set("X-API-Key", "wrong-key")
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
		if called {
			t.Error("Handler should not run with an invalid API key")
		}
	})

	t.Run("valid header key accepted", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/copilot", nil)
		req.Header.Set("X-API-Key", "valid-key-12345")
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rec.Code)
		}
		if !called {
			t.Error("Handler should run with a valid API key")
		}
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/copilot", nil)
		req.Header.Set("Authorization", "Bearer valid-key-12345")
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rec.Code)
		}
		if !called {
			t.Error("Handler should run with a valid bearer token")
		}
	})

	t.Run("no configured keys skips auth", func(t *testing.T) {
		open := newTestServer(t, nil)
		openCalled := false
		openHandler := open.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
			openCalled = true
		})

		openHandler(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/copilot", nil))
		if !openCalled {
			t.Error("Handler should run when no API keys are configured")
		}
	})
}

func TestApplicationHandlerRoundTrip(t *testing.T) {
	s := newTestServer(t, nil)

	putBody := `{"jobDescription": "build Go services", "jobDetails": {"position": "Backend Engineer", "company": "Acme"}}`
	rec := httptest.NewRecorder()
	s.applicationHandler(rec, jsonRequest(http.MethodPut, "/applications/app-1", putBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on PUT, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.applicationHandler(rec, httptest.NewRequest(http.MethodGet, "/applications/app-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on GET, got %d", rec.Code)
	}

	var app store.Application
	if err := json.Unmarshal(rec.Body.Bytes(), &app); err != nil {
		t.Fatalf("Failed to decode application: %v", err)
	}
	if app.ID != "app-1" {
		t.Errorf("Expected path id to win, got %q", app.ID)
	}
	if app.JobDetails.Company != "Acme" {
		t.Errorf("Expected stored job details, got %+v", app.JobDetails)
	}
}

func TestApplicationHandlerGetMissing(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.applicationHandler(rec, httptest.NewRequest(http.MethodGet, "/applications/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestApplicationHandlerMissingJobDescription(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.applicationHandler(rec, jsonRequest(http.MethodPut, "/applications/app-1", `{}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestResumeHandler(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.resumeHandler(rec, jsonRequest(http.MethodPost, "/resumes", `{"text": "my resume"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resume store.Resume
	if err := json.Unmarshal(rec.Body.Bytes(), &resume); err != nil {
		t.Fatalf("Failed to decode resume: %v", err)
	}
	if resume.OwnerID != "default" {
		t.Errorf("Expected default owner, got %q", resume.OwnerID)
	}
	if resume.ID == "" {
		t.Error("Expected assigned resume id")
	}
}

func TestResumeHandlerMissingText(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.resumeHandler(rec, jsonRequest(http.MethodPost, "/resumes", `{"ownerId": "alice"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		apiKey   string
		expected string
	}{
		{"short", "****"},
		{"12345678", "****"},
		{"123456789abcdef", "12345678****"},
	}

	for _, tt := range tests {
		if got := maskAPIKey(tt.apiKey); got != tt.expected {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.apiKey, got, tt.expected)
		}
	}
}
