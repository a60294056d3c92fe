package humaans

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned before any request is made when no API
	// token was supplied.
	ErrMissingToken = errors.New("missing API token")
	// ErrMissingPersonID is returned when a person-scoped call gets an empty ID.
	ErrMissingPersonID = errors.New("missing person ID")
	// ErrRequestFailed wraps every non-200 upstream response.
	ErrRequestFailed = errors.New("request failed")
	// ErrMalformedResponse is returned when a response body does not have the
	// expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// RequestError describes a non-200 upstream response.
type RequestError struct {
	Status int
	URL    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %s returned %d", e.URL, e.Status)
}

func (e *RequestError) Unwrap() error {
	return ErrRequestFailed
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
