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

const postEntity = "post"

type PostRepo struct {
	file   *jsonFile[models.Post]
	media  *MediaStore
	now    func() time.Time
	logger zerolog.Logger
}

func NewPostRepo(path string, media *MediaStore) *PostRepo {
	return &PostRepo{
		file:   newJSONFile[models.Post](path, "posts"),
		media:  media,
		now:    time.Now,
		logger: log.With().Str("component", "postRepo").Logger(),
	}
}

func postID(p models.Post) int64 { return p.ID }

// FindAll returns all posts, newest first
func (r *PostRepo) FindAll() ([]models.Post, error) {
	return r.file.load()
}

// FindByID returns a post by its ID
func (r *PostRepo) FindByID(id int64) (*models.Post, error) {
	posts, err := r.file.load()
	if err != nil {
		return nil, err
	}
	i := indexByID(posts, id, postID)
	if i < 0 {
		return nil, errs.NewNotFound(postEntity, id)
	}
	return &posts[i], nil
}

func validatePostFields(fields models.PostFields) error {
	if blank(fields.Title) {
		return errs.NewMissingRequiredFieldError("title")
	}
	if blank(fields.Content) {
		return errs.NewMissingRequiredFieldError("content")
	}
	return nil
}

func validatePostPatch(patch models.PostPatch) error {
	if patch.Title != nil && blank(*patch.Title) {
		return errs.NewInvalidFieldError("title", "cannot be empty")
	}
	if patch.Content != nil && blank(*patch.Content) {
		return errs.NewInvalidFieldError("content", "cannot be empty")
	}
	return nil
}

// Add validates fields, stores the media and prepends the new post
func (r *PostRepo) Add(ctx context.Context, fields models.PostFields, media MediaInput) (*models.Post, error) {
	if err := validatePostFields(fields); err != nil {
		return nil, err
	}
	pending, err := r.media.prepare(media)
	if err != nil {
		return nil, err
	}

	// Media goes to the backend before the collection lock is taken; names never collide,
	// so only the JSON read-modify-write is serialized.
	ref, err := r.media.save(ctx, pending)
	if err != nil {
		return nil, err
	}

	var created models.Post
	err = r.file.mutate(func(posts []models.Post) ([]models.Post, error) {
		now := timestamp(r.now)
		postType := fields.Type
		if blank(postType) {
			postType = models.DefaultPostType
		}
		created = models.Post{
			ID:        nextID(now, maxID(posts, postID)),
			Title:     fields.Title,
			Content:   fields.Content,
			Type:      postType,
			Link:      optionalString(fields.Link),
			BlogLink:  optionalString(fields.BlogLink),
			Media:     ref,
			CreatedAt: now,
		}
		return append([]models.Post{created}, posts...), nil
	})
	if err != nil {
		r.media.Remove(ctx, ref)
		return nil, err
	}

	r.logger.Info().Int64("id", created.ID).Msg("post created")
	return &created, nil
}

// Update merges patch over an existing post. A non-empty media input replaces the
// post's media; the previous file is removed once the new record is written.
func (r *PostRepo) Update(ctx context.Context, id int64, patch models.PostPatch, media MediaInput) (*models.Post, error) {
	if err := validatePostPatch(patch); err != nil {
		return nil, err
	}
	pending, err := r.media.prepare(media)
	if err != nil {
		return nil, err
	}

	stored, err := r.media.save(ctx, pending)
	if err != nil {
		return nil, err
	}

	var updated models.Post
	var previous *string
	err = r.file.mutate(func(posts []models.Post) ([]models.Post, error) {
		i := indexByID(posts, id, postID)
		if i < 0 {
			return nil, errs.NewNotFound(postEntity, id)
		}

		post := posts[i]
		if stored != nil {
			previous = post.Media
			post.Media = stored
		}

		patch.Apply(&post)
		if blank(post.Type) {
			post.Type = models.DefaultPostType
		}
		post.Link = optionalString(post.Link)
		post.BlogLink = optionalString(post.BlogLink)
		now := timestamp(r.now)
		post.UpdatedAt = &now

		posts[i] = post
		updated = post
		return posts, nil
	})
	if err != nil {
		r.media.Remove(ctx, stored)
		return nil, err
	}

	r.media.Remove(ctx, previous)
	r.logger.Info().Int64("id", id).Msg("post updated")
	return &updated, nil
}

// Delete removes a post and, best-effort, its media file. It returns the removed post.
func (r *PostRepo) Delete(ctx context.Context, id int64) (*models.Post, error) {
	var removed models.Post
	err := r.file.mutate(func(posts []models.Post) ([]models.Post, error) {
		i := indexByID(posts, id, postID)
		if i < 0 {
			return nil, errs.NewNotFound(postEntity, id)
		}
		removed = posts[i]
		return slices.Delete(posts, i, i+1), nil
	})
	if err != nil {
		return nil, err
	}

	r.media.Remove(ctx, removed.Media)
	r.logger.Info().Int64("id", id).Msg("post deleted")
	return &removed, nil
}
