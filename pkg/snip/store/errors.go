package store

import "errors"

var (
	// ErrNotFound is returned when a link (or click event) does not
	// exist, or when the redirect path looks up an inactive link. The
	// two cases are deliberately indistinguishable to callers.
	ErrNotFound = errors.New("link not found")

	// ErrPermissionDenied is returned when the acting user does not own
	// the link in question.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrExhaustedRetries is returned when a unique identifier could
	// not be allocated within the attempt budget. With 62^8 possible
	// identifiers this indicates something is badly wrong and should
	// alert.
	ErrExhaustedRetries = errors.New("exhausted identifier generation retries")
)

// ValidationError represents a bad-input error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
