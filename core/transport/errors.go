package transport

import (
	"fmt"

	"url-policy-sync/core/utils"
)

// Failure is a transport-level failure (connection error, timeout) that
// persisted through every configured attempt.
type Failure struct {
	Method   string
	Path     string
	Attempts int
	Err      error
}

func (e *Failure) Error() string {
	return fmt.Sprintf("%s %s failed after %d attempt(s): %v", e.Method, e.Path, e.Attempts, e.Err)
}

func (e *Failure) Unwrap() error {
	return e.Err
}

// ApplicationError is an HTTP status >= 400 returned by the remote API.
// It is never retried.
type ApplicationError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// Excerpt returns the truncated response body.
func (e *ApplicationError) Excerpt() string {
	return utils.Excerpt(e.Body)
}
