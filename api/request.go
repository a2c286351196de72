package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
)

const (
	mediaField         = "media"
	multipartMemoryCap = 32 << 20
)

// contentForm is a create/update body after transport decoding. fields holds every key
// that was present; a nil value is an explicit JSON null.
type contentForm struct {
	fields map[string]*string
	media  database.MediaInput
	close  func()
}

func (f contentForm) str(key string) string {
	if v := f.fields[key]; v != nil {
		return *v
	}
	return ""
}

func (f contentForm) ptr(key string) *string {
	return f.fields[key]
}

func (f contentForm) postFields() models.PostFields {
	return models.PostFields{
		Title:    f.str("title"),
		Content:  f.str("content"),
		Type:     f.str("type"),
		Link:     f.ptr("link"),
		BlogLink: f.ptr("blogLink"),
	}
}

func (f contentForm) postPatch() models.PostPatch {
	return models.PostPatch{
		Title:    f.ptr("title"),
		Content:  f.ptr("content"),
		Type:     f.ptr("type"),
		Link:     f.ptr("link"),
		BlogLink: f.ptr("blogLink"),
	}
}

func (f contentForm) projectFields() models.ProjectFields {
	return models.ProjectFields{
		Title: f.str("title"),
		Link:  f.ptr("link"),
	}
}

func (f contentForm) projectPatch() models.ProjectPatch {
	return models.ProjectPatch{
		Title: f.ptr("title"),
		Link:  f.ptr("link"),
	}
}

// parseContentForm decodes a multipart, urlencoded or JSON body. The media file of a
// multipart body arrives in the "media" file field; everywhere else "media" is an inline
// data URL. Callers must call close once the media has been consumed.
func parseContentForm(r *http.Request) (contentForm, error) {
	form := contentForm{fields: map[string]*string{}, media: database.NoMedia(), close: func() {}}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemoryCap); err != nil {
			return form, bodyError("multipart", err)
		}
		form.close = func() { r.MultipartForm.RemoveAll() }
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 && key != mediaField {
				v := values[0]
				form.fields[key] = &v
			}
		}

		file, header, err := r.FormFile(mediaField)
		switch {
		case err == nil:
			form.media = database.UploadedMedia(header.Filename, file)
			form.close = func() {
				file.Close()
				r.MultipartForm.RemoveAll()
			}
		case errors.Is(err, http.ErrMissingFile):
			form.media = database.InlineMedia(r.FormValue(mediaField))
		default:
			return form, bodyError("multipart", err)
		}

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return form, bodyError("form", err)
		}
		for key, values := range r.PostForm {
			if len(values) > 0 && key != mediaField {
				v := values[0]
				form.fields[key] = &v
			}
		}
		form.media = database.InlineMedia(r.PostForm.Get(mediaField))

	default:
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return form, bodyError("JSON", err)
		}
		for key, value := range raw {
			var s *string
			if err := json.Unmarshal(value, &s); err != nil {
				return form, errs.NewInvalidFieldError(key, "must be a string")
			}
			if key == mediaField {
				if s != nil {
					form.media = database.InlineMedia(*s)
				}
				continue
			}
			form.fields[key] = s
		}
	}
	return form, nil
}

func bodyError(payloadType string, err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errs.NewMaxBodySizeExceededError(maxErr.Limit)
	}
	return errs.NewMalformedPayloadError(payloadType, err)
}

// parseID reads a numeric record id from the URL
func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return 0, errs.NewBadRequestError("missing " + param)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.NewBadRequestError("invalid " + param)
	}
	return id, nil
}
