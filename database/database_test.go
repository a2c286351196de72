package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type testDatabase struct {
	Database
	dataDir    string
	uploadsDir string
}

func setupTestDatabase(t *testing.T) testDatabase {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	uploadsDir := filepath.Join(root, "uploads")

	backend, err := NewDiskBackend(uploadsDir)
	if err != nil {
		t.Fatalf("NewDiskBackend() error: %v", err)
	}
	db, err := New(dataDir, NewMediaStore(backend))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return testDatabase{Database: db, dataDir: dataDir, uploadsDir: uploadsDir}
}

// fixedClock pins every clock in the database to t
func (d testDatabase) fixedClock(at time.Time) {
	now := func() time.Time { return at }
	d.postRepo.now = now
	d.projectRepo.now = now
	d.media.now = now
}

func (d testDatabase) uploadedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(d.uploadsDir)
	if err != nil {
		t.Fatalf("reading uploads dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (d testDatabase) uploadExists(t *testing.T, ref string) bool {
	t.Helper()
	name, ok := NameFromURL(ref)
	if !ok {
		t.Fatalf("media %q is not under %s", ref, UploadsURLPrefix)
	}
	_, err := os.Stat(filepath.Join(d.uploadsDir, name))
	return err == nil
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

func strPtr(s string) *string {
	return &s
}

func TestNewInitializesBackingFiles(t *testing.T) {
	db := setupTestDatabase(t)

	for _, name := range []string{PostsFile, ProjectsFile} {
		data := readFile(t, filepath.Join(db.dataDir, name))
		if strings.TrimSpace(string(data)) != "[]" {
			t.Errorf("%s: expected empty array, got %q", name, data)
		}
	}
}

func TestNewKeepsExistingData(t *testing.T) {
	root := t.TempDir()
	existing := `[{"id":1,"title":"Old","link":null,"media":null,"createdAt":"2024-01-02T03:04:05.000Z"}]`
	if err := os.WriteFile(filepath.Join(root, ProjectsFile), []byte(existing), 0o644); err != nil {
		t.Fatalf("writing projects: %v", err)
	}
	backend, err := NewDiskBackend(filepath.Join(root, "uploads"))
	if err != nil {
		t.Fatalf("NewDiskBackend() error: %v", err)
	}

	db, err := New(root, NewMediaStore(backend))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	projects, err := db.ProjectRepo().FindAll()
	if err != nil {
		t.Fatalf("FindAll() error: %v", err)
	}
	if len(projects) != 1 || projects[0].Title != "Old" {
		t.Fatalf("expected the existing project, got %+v", projects)
	}
}

func TestNewRejectsCorruptFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, PostsFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing posts: %v", err)
	}
	backend, err := NewDiskBackend(filepath.Join(root, "uploads"))
	if err != nil {
		t.Fatalf("NewDiskBackend() error: %v", err)
	}

	if _, err := New(root, NewMediaStore(backend)); err == nil {
		t.Fatal("expected error for corrupt posts file")
	}
}
