package database

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	PostsFile    = "posts.json"
	ProjectsFile = "projects.json"
)

// Database owns the two collection files under dataDir and the media store.
// It is the only code path that writes to either.
type Database struct {
	postRepo    *PostRepo
	projectRepo *ProjectRepo
	media       *MediaStore
}

// New creates dataDir if needed and checks that both backing files are usable,
// initializing missing ones to an empty array.
func New(dataDir string, media *MediaStore) (Database, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Database{}, fmt.Errorf("create data directory %s: %w", dataDir, err)
	}

	d := Database{
		postRepo:    NewPostRepo(filepath.Join(dataDir, PostsFile), media),
		projectRepo: NewProjectRepo(filepath.Join(dataDir, ProjectsFile), media),
		media:       media,
	}
	if _, err := d.postRepo.FindAll(); err != nil {
		return Database{}, fmt.Errorf("open posts: %w", err)
	}
	if _, err := d.projectRepo.FindAll(); err != nil {
		return Database{}, fmt.Errorf("open projects: %w", err)
	}
	return d, nil
}

// Accessor methods for each repository

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) Media() *MediaStore {
	return d.media
}
