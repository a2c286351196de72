package api

import (
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/errs"
)

// inlineSafeTypes are the raster image types rendered in place; anything else is
// sandboxed and served as a download
var inlineSafeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/avif": true,
}

type mediaHandler struct {
	responder Responder
	logger    zerolog.Logger
	media     *database.MediaStore
}

func newMediaHandler(media *database.MediaStore) mediaHandler {
	logger := log.With().Str("handlerName", "mediaHandler").Logger()

	return mediaHandler{
		responder: NewResponder(logger),
		logger:    logger,
		media:     media,
	}
}

// serveMedia streams an uploaded media file. Stored names are never reused, so responses
// are cacheable forever.
// @Router /uploads/{fileName} [get]
func (h mediaHandler) serveMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "fileName")

		file, err := h.media.Open(r.Context(), name)
		if errors.Is(err, fs.ErrNotExist) {
			h.responder.WriteError(w, errs.NewNotFoundByName("media", name))
			return
		}
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageUnavailableError("open", "media file "+name, err))
			return
		}
		defer file.Close()

		contentType := mime.TypeByExtension(path.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		if !inlineSafeTypes[contentType] {
			// active content (html, svg, ...) must not run on this origin
			w.Header().Set("Content-Security-Policy", "sandbox")
			w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
		}

		if seeker, ok := file.(io.ReadSeeker); ok {
			http.ServeContent(w, r, name, time.Time{}, seeker)
			return
		}
		if _, err := io.Copy(w, file); err != nil {
			h.logger.Warn().Err(err).Str("fileName", name).Msg("failed to stream media file")
		}
	}
}
