package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"thracker/internal/types"
)

func TestGetApplicationNotFound(t *testing.T) {
	store := NewMemoryStore(nil)

	_, err := store.GetApplication(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestPutAndGetApplication(t *testing.T) {
	store := NewMemoryStore(nil)

	app := Application{
		ID:             "app-1",
		JobDescription: "build services in Go",
		JobDetails: types.JobDetails{
			Position: "Backend Engineer",
			Company:  "Acme",
		},
	}

	saved, err := store.PutApplication(context.Background(), app)
	if err != nil {
		t.Fatalf("PutApplication failed: %v", err)
	}
	if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Error("Expected timestamps set on save")
	}

	got, err := store.GetApplication(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("GetApplication failed: %v", err)
	}
	if got.JobDetails.Company != "Acme" {
		t.Errorf("Expected company Acme, got %s", got.JobDetails.Company)
	}
}

func TestPutApplicationPreservesCreatedAt(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	first, err := store.PutApplication(ctx, Application{ID: "app-1", JobDescription: "v1"})
	if err != nil {
		t.Fatalf("PutApplication failed: %v", err)
	}

	second, err := store.PutApplication(ctx, Application{ID: "app-1", JobDescription: "v2"})
	if err != nil {
		t.Fatalf("PutApplication failed: %v", err)
	}

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("Expected CreatedAt preserved across updates, got %v then %v",
			first.CreatedAt, second.CreatedAt)
	}
	if second.JobDescription != "v2" {
		t.Errorf("Expected updated record, got %q", second.JobDescription)
	}
}

func TestListApplications(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.PutApplication(ctx, Application{ID: id, JobDescription: "jd"}); err != nil {
			t.Fatalf("PutApplication failed: %v", err)
		}
	}

	apps, err := store.ListApplications(ctx)
	if err != nil {
		t.Fatalf("ListApplications failed: %v", err)
	}
	if len(apps) != 3 {
		t.Errorf("Expected 3 applications, got %d", len(apps))
	}
}

func TestLatestResumePicksMostRecentUpload(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uploads := []Resume{
		{OwnerID: "default", Text: "old", UploadedAt: base},
		{OwnerID: "default", Text: "newest", UploadedAt: base.Add(48 * time.Hour)},
		{OwnerID: "default", Text: "middle", UploadedAt: base.Add(24 * time.Hour)},
	}
	for _, r := range uploads {
		if _, err := store.AddResume(ctx, r); err != nil {
			t.Fatalf("AddResume failed: %v", err)
		}
	}

	latest, err := store.LatestResume(ctx, "default")
	if err != nil {
		t.Fatalf("LatestResume failed: %v", err)
	}
	if latest.Text != "newest" {
		t.Errorf("Expected most recent upload, got %q", latest.Text)
	}
}

func TestLatestResumeNotFound(t *testing.T) {
	store := NewMemoryStore(nil)

	_, err := store.LatestResume(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestLatestResumeIsolatedByOwner(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	if _, err := store.AddResume(ctx, Resume{OwnerID: "alice", Text: "alice resume"}); err != nil {
		t.Fatalf("AddResume failed: %v", err)
	}

	_, err := store.LatestResume(ctx, "bob")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for other owner, got %v", err)
	}
}

func TestAddResumeAssignsID(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	first, err := store.AddResume(ctx, Resume{OwnerID: "default", Text: "one"})
	if err != nil {
		t.Fatalf("AddResume failed: %v", err)
	}
	second, err := store.AddResume(ctx, Resume{OwnerID: "default", Text: "two"})
	if err != nil {
		t.Fatalf("AddResume failed: %v", err)
	}

	if first.ID == "" || second.ID == "" {
		t.Error("Expected generated resume ids")
	}
	if first.ID == second.ID {
		t.Errorf("Expected distinct ids, both were %q", first.ID)
	}
	if first.UploadedAt.IsZero() {
		t.Error("Expected UploadedAt defaulted")
	}
}

func TestLoadSeed(t *testing.T) {
	tempDir := t.TempDir()
	seedPath := filepath.Join(tempDir, "seed.json")

	seed := `{
		"applications": [
			{"id": "app-1", "jobDescription": "jd one", "jobDetails": {"position": "SRE", "company": "Acme"}},
			{"id": "", "jobDescription": "skipped, no id"}
		],
		"resumes": [
			{"id": "resume-1", "ownerId": "default", "text": "resume text", "uploadedAt": "2026-02-01T00:00:00Z"}
		]
	}`
	if err := os.WriteFile(seedPath, []byte(seed), 0600); err != nil {
		t.Fatalf("Failed to write seed file: %v", err)
	}

	store := NewMemoryStore(nil)
	if err := store.LoadSeed(seedPath); err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}

	app, err := store.GetApplication(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("Expected seeded application, got %v", err)
	}
	if app.JobDetails.Position != "SRE" {
		t.Errorf("Expected seeded job details, got %+v", app.JobDetails)
	}

	apps, _ := store.ListApplications(context.Background())
	if len(apps) != 1 {
		t.Errorf("Expected the empty-id record skipped, got %d applications", len(apps))
	}

	resume, err := store.LatestResume(context.Background(), "default")
	if err != nil {
		t.Fatalf("Expected seeded resume, got %v", err)
	}
	if resume.Text != "resume text" {
		t.Errorf("Expected seeded resume text, got %q", resume.Text)
	}
}

func TestLoadSeedBadJSON(t *testing.T) {
	tempDir := t.TempDir()
	seedPath := filepath.Join(tempDir, "seed.json")
	if err := os.WriteFile(seedPath, []byte("{not json"), 0600); err != nil {
		t.Fatalf("Failed to write seed file: %v", err)
	}

	store := NewMemoryStore(nil)
	if err := store.LoadSeed(seedPath); err == nil {
		t.Fatal("Expected error for malformed seed file, got nil")
	}
}

func TestLoadSeedMissingFile(t *testing.T) {
	store := NewMemoryStore(nil)
	if err := store.LoadSeed("/nonexistent/seed.json"); err == nil {
		t.Fatal("Expected error for missing seed file, got nil")
	}
}
