package feedcloud

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured failure reported by the feed service. StatusCode
// distinguishes the one recoverable case, a 409 conflict, from everything
// else (bad credentials, rate limits, transport failures).
type Error struct {
	StatusCode int
	Code       int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("feed service error (status %d, code %d): %s", e.StatusCode, e.Code, e.Detail)
}

// NewConflictError returns the service's duplicate-write signal.
func NewConflictError(detail string) *Error {
	return &Error{StatusCode: http.StatusConflict, Detail: detail}
}

// NewNotFoundError reports a missing record.
func NewNotFoundError(detail string) *Error {
	return &Error{StatusCode: http.StatusNotFound, Detail: detail}
}

// IsConflict reports whether err is the service's "already exists" signal.
// Only these errors are safe to swallow on idempotent re-runs; anything else
// must propagate.
func IsConflict(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.StatusCode == http.StatusConflict
}

// IsNotFound reports whether err is a missing-record failure.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
