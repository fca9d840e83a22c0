// Package store provides the persistence boundary for application records and
// resumes. The copilot core treats it as an opaque read-mostly collaborator.
package store

import (
	"context"
	"errors"
	"time"

	"thracker/internal/types"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// Application is a tracked job application record
type Application struct {
	ID             string           `json:"id"`
	JobDescription string           `json:"jobDescription"`
	JobDetails     types.JobDetails `json:"jobDetails"`
	AgentSettings  *types.AgentSettings `json:"agentSettings,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Resume is a stored plain-text resume. Callers keep at most a history of
// uploads; the copilot uses the most recent one.
type Resume struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"ownerId"`
	Text       string    `json:"text"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ApplicationStore provides CRUD access to application records
type ApplicationStore interface {
	GetApplication(ctx context.Context, id string) (Application, error)
	PutApplication(ctx context.Context, app Application) (Application, error)
	ListApplications(ctx context.Context) ([]Application, error)
}

// ResumeStore provides access to stored resumes
type ResumeStore interface {
	// LatestResume returns the owner's most recently uploaded resume.
	LatestResume(ctx context.Context, ownerID string) (Resume, error)
	AddResume(ctx context.Context, resume Resume) (Resume, error)
}
