package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"thracker/internal/errors"
)

// MemoryStore is an in-memory ApplicationStore and ResumeStore, optionally
// seeded from a JSON file at startup. Safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	applications map[string]Application
	resumes      map[string][]Resume // keyed by owner, append order is upload order
	nextResumeID int
	logger       *errors.Logger
}

var (
	_ ApplicationStore = (*MemoryStore)(nil)
	_ ResumeStore      = (*MemoryStore)(nil)
)

// seedFile is the JSON shape accepted by LoadSeed
type seedFile struct {
	Applications []Application `json:"applications"`
	Resumes      []Resume      `json:"resumes"`
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(logger *errors.Logger) *MemoryStore {
	return &MemoryStore{
		applications: make(map[string]Application),
		resumes:      make(map[string][]Resume),
		logger:       logger,
	}
}

// LoadSeed loads applications and resumes from a JSON seed file
func (m *MemoryStore) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read seed file: %s", path), err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.NewIOError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to parse seed file: %s", path), err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, app := range seed.Applications {
		if app.ID == "" {
			continue
		}
		m.applications[app.ID] = app
	}
	for _, resume := range seed.Resumes {
		if resume.OwnerID == "" {
			continue
		}
		m.resumes[resume.OwnerID] = append(m.resumes[resume.OwnerID], resume)
	}

	if m.logger != nil {
		m.logger.Info("Seed data loaded",
			"path", path,
			"applications", len(seed.Applications),
			"resumes", len(seed.Resumes))
	}

	return nil
}

// GetApplication returns the application with the given id
func (m *MemoryStore) GetApplication(ctx context.Context, id string) (Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	app, ok := m.applications[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

// PutApplication creates or replaces an application record
func (m *MemoryStore) PutApplication(ctx context.Context, app Application) (Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := m.applications[app.ID]; ok {
		app.CreatedAt = existing.CreatedAt
	} else {
		app.CreatedAt = now
	}
	app.UpdatedAt = now

	m.applications[app.ID] = app
	return app, nil
}

// ListApplications returns all application records
func (m *MemoryStore) ListApplications(ctx context.Context) ([]Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	apps := make([]Application, 0, len(m.applications))
	for _, app := range m.applications {
		apps = append(apps, app)
	}
	return apps, nil
}

// LatestResume returns the owner's most recently uploaded resume
func (m *MemoryStore) LatestResume(ctx context.Context, ownerID string) (Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.resumes[ownerID]
	if len(history) == 0 {
		return Resume{}, ErrNotFound
	}

	latest := history[0]
	for _, r := range history[1:] {
		if r.UploadedAt.After(latest.UploadedAt) {
			latest = r
		}
	}
	return latest, nil
}

// AddResume stores a resume for its owner and returns it with an assigned id
func (m *MemoryStore) AddResume(ctx context.Context, resume Resume) (Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if resume.ID == "" {
		m.nextResumeID++
		resume.ID = fmt.Sprintf("resume-%d", m.nextResumeID)
	}
	if resume.UploadedAt.IsZero() {
		resume.UploadedAt = time.Now().UTC()
	}

	m.resumes[resume.OwnerID] = append(m.resumes[resume.OwnerID], resume)
	return resume, nil
}
