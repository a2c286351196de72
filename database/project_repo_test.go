package database

import (
	"context"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
)

func TestProjectCreateAndDelete(t *testing.T) {
	db := setupTestDatabase(t)
	repo := db.ProjectRepo()
	ctx := context.Background()

	project, err := repo.Add(ctx, models.ProjectFields{Title: "Portfolio Site", Link: strPtr("https://x.io")}, NoMedia())
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if project.ID == 0 {
		t.Error("expected an id")
	}
	if project.Title != "Portfolio Site" || project.Link == nil || *project.Link != "https://x.io" {
		t.Errorf("unexpected project %+v", project)
	}
	if project.Media != nil {
		t.Errorf("expected null media, got %q", *project.Media)
	}
	if project.CreatedAt.IsZero() {
		t.Error("expected createdAt")
	}

	if _, err := repo.Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	projects, err := repo.FindAll()
	if err != nil {
		t.Fatalf("FindAll() error: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("expected no projects, got %+v", projects)
	}
}

func TestProjectAddRequiresTitle(t *testing.T) {
	db := setupTestDatabase(t)

	_, err := db.ProjectRepo().Add(context.Background(), models.ProjectFields{Link: strPtr("https://x.io")}, NoMedia())
	if !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProjectsAndPostsAreIndependent(t *testing.T) {
	db := setupTestDatabase(t)
	db.fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	post, err := db.PostRepo().Add(ctx, models.PostFields{Title: "P", Content: "C"}, NoMedia())
	if err != nil {
		t.Fatalf("Add post error: %v", err)
	}
	project, err := db.ProjectRepo().Add(ctx, models.ProjectFields{Title: "Proj"}, NoMedia())
	if err != nil {
		t.Fatalf("Add project error: %v", err)
	}
	// ids are unique per collection only
	if post.ID != project.ID {
		t.Errorf("expected both collections to start from the clock, got %d and %d", post.ID, project.ID)
	}

	if _, err := db.ProjectRepo().Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := db.PostRepo().FindByID(post.ID); err != nil {
		t.Errorf("post should survive project delete: %v", err)
	}
}

func TestProjectUpdate(t *testing.T) {
	db := setupTestDatabase(t)
	repo := db.ProjectRepo()
	ctx := context.Background()

	project, err := repo.Add(ctx, models.ProjectFields{Title: "Old", Link: strPtr("https://old.io")}, NoMedia())
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	updated, err := repo.Update(ctx, project.ID, models.ProjectPatch{Title: strPtr("New")}, InlineMedia("data:image/jpeg;base64,"+pixelPNG))
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Title != "New" || *updated.Link != "https://old.io" {
		t.Errorf("unexpected merge result %+v", updated)
	}
	if updated.Media == nil || !db.uploadExists(t, *updated.Media) {
		t.Errorf("expected stored media, got %v", updated.Media)
	}
	if updated.UpdatedAt == nil {
		t.Error("expected updatedAt")
	}

	if _, err := repo.Update(ctx, project.ID+1000, models.ProjectPatch{}, NoMedia()); !errs.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := repo.Update(ctx, project.ID, models.ProjectPatch{Title: strPtr(" ")}, NoMedia()); !errs.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestProjectDeleteUnknownID(t *testing.T) {
	db := setupTestDatabase(t)

	if _, err := db.ProjectRepo().Delete(context.Background(), 1); !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProjectDeleteKeepsExternalMedia(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	project, err := db.ProjectRepo().Add(ctx, models.ProjectFields{Title: "T"}, NoMedia())
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	// media outside the uploads prefix is never touched
	err = db.projectRepo.file.mutate(func(projects []models.Project) ([]models.Project, error) {
		projects[0].Media = strPtr("https://cdn.example.com/pic.png")
		return projects, nil
	})
	if err != nil {
		t.Fatalf("mutate() error: %v", err)
	}

	if _, err := db.ProjectRepo().Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
}
