package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Third-party service errors
var (
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrServiceUnreachable = errors.New("service unreachable")
	ErrUpstreamRejected   = errors.New("upstream service rejected the request")
)

// NewRateLimitError reports a 429 from a third-party API. retryAfter is zero when the
// service did not say.
func NewRateLimitError(service string, retryAfter time.Duration) *ApiErr {
	details := fmt.Sprintf("Rate limit exceeded for %s service", service)
	if retryAfter > 0 {
		details = fmt.Sprintf("%s, retry after %s", details, retryAfter)
	}
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimitExceeded,
		Details:    details,
		Field:      "rate_limit",
	}
}

func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("Service %s is unreachable", service),
		Cause:      cause,
	}
}

// NewUpstreamError reports a non-success answer from a third-party API
func NewUpstreamError(service string, status int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpstreamRejected,
		Details:    fmt.Sprintf("%s answered %d: %s", service, status, message),
	}
}

func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

func IsServiceUnreachableError(err error) bool {
	return errors.Is(err, ErrServiceUnreachable)
}

func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstreamRejected)
}
