package database

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
)

const projectEntity = "project"

type ProjectRepo struct {
	file   *jsonFile[models.Project]
	media  *MediaStore
	now    func() time.Time
	logger zerolog.Logger
}

func NewProjectRepo(path string, media *MediaStore) *ProjectRepo {
	return &ProjectRepo{
		file:   newJSONFile[models.Project](path, "projects"),
		media:  media,
		now:    time.Now,
		logger: log.With().Str("component", "projectRepo").Logger(),
	}
}

func projectID(p models.Project) int64 { return p.ID }

// FindAll returns all projects, newest first
func (r *ProjectRepo) FindAll() ([]models.Project, error) {
	return r.file.load()
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(id int64) (*models.Project, error) {
	projects, err := r.file.load()
	if err != nil {
		return nil, err
	}
	i := indexByID(projects, id, projectID)
	if i < 0 {
		return nil, errs.NewNotFound(projectEntity, id)
	}
	return &projects[i], nil
}

// Add validates fields, stores the media and prepends the new project
func (r *ProjectRepo) Add(ctx context.Context, fields models.ProjectFields, media MediaInput) (*models.Project, error) {
	if blank(fields.Title) {
		return nil, errs.NewMissingRequiredFieldError("title")
	}
	pending, err := r.media.prepare(media)
	if err != nil {
		return nil, err
	}

	ref, err := r.media.save(ctx, pending)
	if err != nil {
		return nil, err
	}

	var created models.Project
	err = r.file.mutate(func(projects []models.Project) ([]models.Project, error) {
		now := timestamp(r.now)
		created = models.Project{
			ID:        nextID(now, maxID(projects, projectID)),
			Title:     fields.Title,
			Link:      optionalString(fields.Link),
			Media:     ref,
			CreatedAt: now,
		}
		return append([]models.Project{created}, projects...), nil
	})
	if err != nil {
		r.media.Remove(ctx, ref)
		return nil, err
	}

	r.logger.Info().Int64("id", created.ID).Msg("project created")
	return &created, nil
}

// Update merges patch over an existing project, replacing its media if one is given
func (r *ProjectRepo) Update(ctx context.Context, id int64, patch models.ProjectPatch, media MediaInput) (*models.Project, error) {
	if patch.Title != nil && blank(*patch.Title) {
		return nil, errs.NewInvalidFieldError("title", "cannot be empty")
	}
	pending, err := r.media.prepare(media)
	if err != nil {
		return nil, err
	}

	stored, err := r.media.save(ctx, pending)
	if err != nil {
		return nil, err
	}

	var updated models.Project
	var previous *string
	err = r.file.mutate(func(projects []models.Project) ([]models.Project, error) {
		i := indexByID(projects, id, projectID)
		if i < 0 {
			return nil, errs.NewNotFound(projectEntity, id)
		}

		project := projects[i]
		if stored != nil {
			previous = project.Media
			project.Media = stored
		}

		patch.Apply(&project)
		project.Link = optionalString(project.Link)
		now := timestamp(r.now)
		project.UpdatedAt = &now

		projects[i] = project
		updated = project
		return projects, nil
	})
	if err != nil {
		r.media.Remove(ctx, stored)
		return nil, err
	}

	r.media.Remove(ctx, previous)
	r.logger.Info().Int64("id", id).Msg("project updated")
	return &updated, nil
}

// Delete removes a project and, best-effort, its media file
func (r *ProjectRepo) Delete(ctx context.Context, id int64) (*models.Project, error) {
	var removed models.Project
	err := r.file.mutate(func(projects []models.Project) ([]models.Project, error) {
		i := indexByID(projects, id, projectID)
		if i < 0 {
			return nil, errs.NewNotFound(projectEntity, id)
		}
		removed = projects[i]
		return slices.Delete(projects, i, i+1), nil
	})
	if err != nil {
		return nil, err
	}

	r.media.Remove(ctx, removed.Media)
	r.logger.Info().Int64("id", id).Msg("project deleted")
	return &removed, nil
}
