// internal/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrInvalidRepoFormat is returned when a repository full name is not in 'owner/name' format.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name'", e.Repo)
}

// APIError is the single classified failure returned by every GitHub call.
// Status is zero when no HTTP response was received.
type APIError struct {
	Message     string
	Status      int
	RateLimited bool
	Err         error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err carries a rate-limited APIError.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return stderrors.As(err, &apiErr) && apiErr.RateLimited
}

// StatusOf returns the HTTP status attached to an APIError in err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
