package database

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-content-backend/errs"
)

// UploadsURLPrefix is the URL path under which stored media is served
const UploadsURLPrefix = "/uploads/"

const maxNameAttempts = 3

type mediaKind int

const (
	mediaNone mediaKind = iota
	mediaUpload
	mediaInline
)

// MediaInput is the media attached to a create or update: nothing, a multipart file,
// or an inline base64 image.
type MediaInput struct {
	kind         mediaKind
	originalName string
	reader       io.Reader
	dataURL      string
}

func NoMedia() MediaInput {
	return MediaInput{kind: mediaNone}
}

// UploadedMedia wraps a file received by the transport layer. Seekable readers
// (multipart.File) are streamed; anything else is buffered.
func UploadedMedia(originalName string, r io.Reader) MediaInput {
	if r == nil {
		return NoMedia()
	}
	return MediaInput{kind: mediaUpload, originalName: originalName, reader: r}
}

// InlineMedia wraps a data URL such as "data:image/png;base64,iVBOR..."
func InlineMedia(dataURL string) MediaInput {
	if strings.TrimSpace(dataURL) == "" {
		return NoMedia()
	}
	return MediaInput{kind: mediaInline, dataURL: dataURL}
}

func (m MediaInput) IsEmpty() bool {
	return m.kind == mediaNone
}

// MediaBackend stores opaque media files by flat name.
// Put must fail with fs.ErrExist if name is taken; Open with fs.ErrNotExist if it is missing.
type MediaBackend interface {
	Put(ctx context.Context, name string, r io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
}

// MediaStore resolves MediaInputs into media references and manages their files
type MediaStore struct {
	backend MediaBackend
	now     func() time.Time
	logger  zerolog.Logger
}

func NewMediaStore(backend MediaBackend) *MediaStore {
	return &MediaStore{
		backend: backend,
		now:     time.Now,
		logger:  log.With().Str("component", "mediaStore").Logger(),
	}
}

// pendingMedia is a validated MediaInput that has not been written yet
type pendingMedia struct {
	kind     mediaKind
	baseName string // sanitized original name, uploads only
	ext      string // inline only
	body     io.ReadSeeker
}

var inlineImagePattern = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+);base64,`)

var inlineExtensions = map[string]string{
	"png":     ".png",
	"jpeg":    ".jpg",
	"jpg":     ".jpg",
	"gif":     ".gif",
	"webp":    ".webp",
	"svg+xml": ".svg",
}

// prepare validates in without touching the backend
func (s *MediaStore) prepare(in MediaInput) (pendingMedia, error) {
	switch in.kind {
	case mediaUpload:
		body, ok := in.reader.(io.ReadSeeker)
		if !ok {
			data, err := io.ReadAll(in.reader)
			if err != nil {
				return pendingMedia{}, errs.NewMalformedPayloadError("media upload", err)
			}
			body = bytes.NewReader(data)
		}
		return pendingMedia{kind: mediaUpload, baseName: sanitizeFileName(in.originalName), body: body}, nil

	case mediaInline:
		match := inlineImagePattern.FindStringSubmatch(in.dataURL)
		if match == nil {
			return pendingMedia{}, errs.NewInvalidFieldError("media", "expected an uploaded file or a base64 image data URL")
		}
		data, err := decodeBase64(in.dataURL[len(match[0]):])
		if err != nil || len(data) == 0 {
			return pendingMedia{}, errs.NewInvalidFieldError("media", "image data is not valid base64")
		}
		ext, ok := inlineExtensions[strings.ToLower(match[1])]
		if !ok {
			ext = ".png"
		}
		return pendingMedia{kind: mediaInline, ext: ext, body: bytes.NewReader(data)}, nil
	}
	return pendingMedia{kind: mediaNone}, nil
}

// save writes p to the backend and returns its media reference, or nil for no media
func (s *MediaStore) save(ctx context.Context, p pendingMedia) (*string, error) {
	if p.kind == mediaNone {
		return nil, nil
	}

	millis := s.now().UnixMilli()
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := p.fileName(millis, attempt)
		if _, err := p.body.Seek(0, io.SeekStart); err != nil {
			return nil, errs.NewStorageUnavailableError("rewind", "media upload", err)
		}

		err := s.backend.Put(ctx, name, p.body)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, errs.NewStorageUnavailableError("store", "media file "+name, err)
		}

		ref := UploadsURLPrefix + name
		s.logger.Debug().Str("media", ref).Msg("stored media file")
		return &ref, nil
	}
	return nil, errs.NewStorageUnavailableError("store", "media file", fmt.Errorf("no free file name after %d attempts", maxNameAttempts))
}

func (p pendingMedia) fileName(millis int64, attempt int) string {
	var suffix string
	if attempt > 0 {
		suffix = "-" + uuid.NewString()[:8]
	}
	if p.kind == mediaInline {
		return fmt.Sprintf("%d%s%s", millis, suffix, p.ext)
	}
	ext := path.Ext(p.baseName)
	stem := strings.TrimSuffix(p.baseName, ext)
	return fmt.Sprintf("%d-%s%s%s", millis, stem, suffix, ext)
}

// Remove deletes the file behind ref if ref points under the uploads prefix.
// Failures are logged only: the record change that triggered the removal stands.
func (s *MediaStore) Remove(ctx context.Context, ref *string) {
	if ref == nil {
		return
	}
	name, ok := NameFromURL(*ref)
	if !ok {
		s.logger.Debug().Str("media", *ref).Msg("media is not under uploads, nothing to remove")
		return
	}
	if err := s.backend.Remove(ctx, name); err != nil {
		s.logger.Warn().Err(err).Str("media", *ref).Msg("failed to remove media file")
		return
	}
	s.logger.Debug().Str("media", *ref).Msg("removed media file")
}

// Open returns the media file stored under name
func (s *MediaStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !validFileName(name) {
		return nil, fs.ErrNotExist
	}
	return s.backend.Open(ctx, name)
}

// NameFromURL extracts the stored file name from a media reference
func NameFromURL(ref string) (string, bool) {
	if !strings.HasPrefix(ref, UploadsURLPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(ref, UploadsURLPrefix)
	if !validFileName(name) {
		return "", false
	}
	return name, true
}

func validFileName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// sanitizeFileName keeps the base name of an uploaded file, replacing anything outside
// [A-Za-z0-9._-] with an underscore
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "upload"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(payload)
}
