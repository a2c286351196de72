package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-content-backend/database"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  *database.PostRepo
}

func newPostHandler(postRepo *database.PostRepo) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		postRepo:  postRepo,
	}
}

// getAllPosts returns every post, newest first
// @Router /posts [get]
func (h postHandler) getAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.postRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, posts)
	}
}

// getPost returns one post
// @Router /posts/{postID} [get]
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseID(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, post)
	}
}

// createPost creates a post from a JSON or multipart body. The image is either the
// multipart file field "media" or an inline data URL in "media".
// @Router /posts [post]
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parseContentForm(r)
		defer form.close()
		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode post request body")
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.Add(r.Context(), form.postFields(), form.media)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusCreated, post)
	}
}

// updatePost merges the provided fields over an existing post
// @Router /posts/{postID} [put]
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseID(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		form, err := parseContentForm(r)
		defer form.close()
		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode post request body")
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.Update(r.Context(), postID, form.postPatch(), form.media)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, post)
	}
}

// deletePost deletes a post and its uploaded media
// @Router /posts/{postID} [delete]
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parseID(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.postRepo.Delete(r.Context(), postID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, DeleteResponse{
			Status:  "success",
			Message: "post deleted successfully",
			ID:      postID,
		})
	}
}
