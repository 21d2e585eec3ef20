// Package errs defines the error taxonomy shared across the service.
// Handlers branch on these types to pick a response status, so every
// caller-distinguishable failure mode gets its own type.
package errs

import "fmt"

// ValidationError means the input itself is bad; retrying without
// changing the request will never help.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ExtractionError means the voice analysis call to the model failed or
// returned something unusable. Transient; safe to retry.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("voice extraction failed: %v", e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// GenerationError means the post generation call to the model failed or
// returned something unusable. Transient; safe to retry.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("post generation failed: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// RateLimitError means the demo attempt budget is spent. Action tells the
// caller what unlocks further use, so the UI can offer it instead of a
// dead end.
type RateLimitError struct {
	Remaining int
	Action    string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("demo attempt limit reached: %s", e.Action)
}

// AuthzError means the caller targeted a resource owned by someone else.
type AuthzError struct {
	Msg string
}

func (e *AuthzError) Error() string { return e.Msg }

// NotFoundError means the named resource does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }
