package errors

import (
	stdErrors "errors"
	"fmt"
)

// FetchError represents a failed request to a remote service: either a
// transport failure or a non-success HTTP status. Fetch errors are terminal
// for the request that produced them; callers do not retry.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s failed (HTTP %d): %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s failed (HTTP %d)", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return e.Op + " failed"
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps a transport-level failure.
func NewFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err}
}

// NewStatusError creates a FetchError for a non-success HTTP status.
// body is an optional excerpt of the response body.
func NewStatusError(op string, statusCode int, body string) *FetchError {
	e := &FetchError{Op: op, StatusCode: statusCode}
	if body != "" {
		e.Err = stdErrors.New(body)
	}
	return e
}

// IsFetchError reports whether err is a FetchError (even when wrapped).
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return stdErrors.As(err, &fetchErr)
}
