package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status  int
	Message string
	URL     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned %d for %s: %s", e.Status, e.URL, e.Message)
}

func (e *StatusError) StatusCode() int { return e.Status }

// EnvelopeError is returned when a 2xx response is unusable: success=false
// or a body that is not an envelope.
type EnvelopeError struct {
	Message string
	Status  int
}

func (e *EnvelopeError) Error() string {
	return "api error: " + e.Message
}

// StatusCode reports a 2xx envelope failure as a bad gateway so that it
// counts as a server-side failure.
func (e *EnvelopeError) StatusCode() int {
	if e.Status >= 400 {
		return e.Status
	}
	return http.StatusBadGateway
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}
