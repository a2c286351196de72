package errs

import (
	"errors"
	"fmt"
	"net/http"
	"syscall"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageFull        = errors.New("storage full")
)

func NewNotFound(entity string, id int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
		Details:    fmt.Sprintf("no %s with id %d", entity, id),
	}
}

func NewNotFoundByName(entity, name string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
		Details:    fmt.Sprintf("no %s named %q", entity, name),
	}
}

// NewStorageUnavailableError wraps a failure of the backing files or the media directory.
// A full disk is reported as 507 but still matches ErrStorageUnavailable.
func NewStorageUnavailableError(operation, resource string, cause error) *ApiErr {
	apiErr := &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorageUnavailable,
		Details:    fmt.Sprintf("failed to %s %s", operation, resource),
		Cause:      cause,
	}
	if errors.Is(cause, syscall.ENOSPC) {
		apiErr.StatusCode = http.StatusInsufficientStorage
		apiErr.err = fmt.Errorf("%w: %w", ErrStorageUnavailable, ErrStorageFull)
	}
	return apiErr
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

func IsStorageFull(err error) bool {
	return errors.Is(err, ErrStorageFull)
}
