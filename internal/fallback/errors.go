package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// ErrorKind categorizes an API failure for fallback and retry decisions.
type ErrorKind string

const (
	KindNetwork            ErrorKind = "NETWORK_ERROR"
	KindTimeout            ErrorKind = "TIMEOUT_ERROR"
	KindServer             ErrorKind = "SERVER_ERROR"
	KindClient             ErrorKind = "CLIENT_ERROR"
	KindCircuitBreakerOpen ErrorKind = "CIRCUIT_BREAKER_OPEN"
)

func (k ErrorKind) String() string {
	return string(k)
}

// ValidErrorKind reports whether k is one of the known kinds.
func ValidErrorKind(k ErrorKind) bool {
	switch k {
	case KindNetwork, KindTimeout, KindServer, KindClient, KindCircuitBreakerOpen:
		return true
	}
	return false
}

// StatusCoder is implemented by transport errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// ClassifiedError wraps a transport error with its kind.
type ClassifiedError struct {
	Kind  ErrorKind
	Cause error
}

func (e *ClassifiedError) Error() string {
	if e.Cause == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *ClassifiedError) Unwrap() error { return e.Cause }

func (e *ClassifiedError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Cause != nil {
		msg = e.Cause.Error()
	}
	return json.Marshal(struct {
		Kind    ErrorKind `json:"kind"`
		Message string    `json:"message"`
	}{e.Kind, msg})
}

// NewError builds a ClassifiedError of the given kind.
func NewError(kind ErrorKind, cause error) *ClassifiedError {
	return &ClassifiedError{Kind: kind, Cause: cause}
}

// KindOf returns the kind of err, classifying it if needed.
func KindOf(err error) ErrorKind {
	return Classify(err).Kind
}

// Classify maps a raw error to a ClassifiedError. Errors that are already
// classified are returned unchanged. It returns nil for a nil error.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewError(KindTimeout, err)
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		switch code := sc.StatusCode(); {
		case code >= 500:
			return NewError(KindServer, err)
		case code >= 400:
			return NewError(KindClient, err)
		}
	}

	// Connection refused, DNS, reset, EOF and anything without a status.
	return NewError(KindNetwork, err)
}
