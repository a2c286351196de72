package database

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
)

// hookedBackend is a DiskBackend that runs callbacks around Put
type hookedBackend struct {
	*DiskBackend
	beforePut func()
	afterPut  func()
}

func (b *hookedBackend) Put(ctx context.Context, name string, r io.Reader) error {
	if b.beforePut != nil {
		b.beforePut()
	}
	if err := b.DiskBackend.Put(ctx, name, r); err != nil {
		return err
	}
	if b.afterPut != nil {
		b.afterPut()
	}
	return nil
}

func setupHookedDatabase(t *testing.T) (Database, *hookedBackend, string, string) {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	uploadsDir := filepath.Join(root, "uploads")

	disk, err := NewDiskBackend(uploadsDir)
	if err != nil {
		t.Fatalf("NewDiskBackend() error: %v", err)
	}
	backend := &hookedBackend{DiskBackend: disk}
	db, err := New(dataDir, NewMediaStore(backend))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return db, backend, dataDir, uploadsDir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	return len(entries)
}

func TestReadsDoNotWaitForMediaUploads(t *testing.T) {
	db, backend, _, _ := setupHookedDatabase(t)

	started := make(chan struct{})
	release := make(chan struct{})
	backend.beforePut = func() {
		close(started)
		<-release
	}

	added := make(chan error, 1)
	go func() {
		_, err := db.PostRepo().Add(context.Background(), models.PostFields{Title: "Slow", Content: "upload"},
			InlineMedia("data:image/png;base64,"+pixelPNG))
		added <- err
	}()
	<-started

	listed := make(chan error, 1)
	go func() {
		_, err := db.PostRepo().FindAll()
		listed <- err
	}()

	select {
	case err := <-listed:
		if err != nil {
			t.Errorf("FindAll() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("FindAll() waited for a pending media upload")
	}

	close(release)
	if err := <-added; err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	posts, err := db.PostRepo().FindAll()
	if err != nil {
		t.Fatalf("FindAll() error: %v", err)
	}
	if len(posts) != 1 || posts[0].Media == nil {
		t.Fatalf("expected one post with media, got %+v", posts)
	}
}

func TestPostAddRemovesMediaWhenWriteFails(t *testing.T) {
	db, backend, dataDir, uploadsDir := setupHookedDatabase(t)
	backend.afterPut = func() { os.RemoveAll(dataDir) }

	_, err := db.PostRepo().Add(context.Background(), models.PostFields{Title: "T", Content: "C"},
		InlineMedia("data:image/png;base64,"+pixelPNG))
	if !errs.IsStorageUnavailable(err) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
	if n := countFiles(t, uploadsDir); n != 0 {
		t.Errorf("expected stored media to be removed, %d files left", n)
	}
}

func TestPostUpdateRemovesNewMediaWhenWriteFails(t *testing.T) {
	db, backend, dataDir, uploadsDir := setupHookedDatabase(t)
	post, err := db.PostRepo().Add(context.Background(), models.PostFields{Title: "T", Content: "C"}, NoMedia())
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	backend.afterPut = func() { os.RemoveAll(dataDir) }

	_, err = db.PostRepo().Update(context.Background(), post.ID, models.PostPatch{},
		InlineMedia("data:image/png;base64,"+pixelPNG))
	if !errs.IsStorageUnavailable(err) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
	if n := countFiles(t, uploadsDir); n != 0 {
		t.Errorf("expected stored media to be removed, %d files left", n)
	}
}

func TestProjectAddRemovesMediaWhenWriteFails(t *testing.T) {
	db, backend, dataDir, uploadsDir := setupHookedDatabase(t)
	backend.afterPut = func() { os.RemoveAll(dataDir) }

	_, err := db.ProjectRepo().Add(context.Background(), models.ProjectFields{Title: "Portfolio Site"},
		InlineMedia("data:image/png;base64,"+pixelPNG))
	if !errs.IsStorageUnavailable(err) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
	if n := countFiles(t, uploadsDir); n != 0 {
		t.Errorf("expected stored media to be removed, %d files left", n)
	}
}

func TestProjectUpdateRemovesNewMediaWhenWriteFails(t *testing.T) {
	db, backend, dataDir, uploadsDir := setupHookedDatabase(t)
	project, err := db.ProjectRepo().Add(context.Background(), models.ProjectFields{Title: "Portfolio Site"}, NoMedia())
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	backend.afterPut = func() { os.RemoveAll(dataDir) }

	_, err = db.ProjectRepo().Update(context.Background(), project.ID, models.ProjectPatch{},
		InlineMedia("data:image/png;base64,"+pixelPNG))
	if !errs.IsStorageUnavailable(err) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
	if n := countFiles(t, uploadsDir); n != 0 {
		t.Errorf("expected stored media to be removed, %d files left", n)
	}
}

func TestUpdateUnknownIDRemovesNewMedia(t *testing.T) {
	db, _, _, uploadsDir := setupHookedDatabase(t)

	_, err := db.PostRepo().Update(context.Background(), 42, models.PostPatch{},
		InlineMedia("data:image/png;base64,"+pixelPNG))
	if !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if n := countFiles(t, uploadsDir); n != 0 {
		t.Errorf("expected stored media to be removed, %d files left", n)
	}
}
