package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMalformed marks a response whose body is not the expected envelope.
var ErrMalformed = errors.New("malformed response")

// ErrUnauthorized matches any APIError with a 401/403 status.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response or an envelope with success=false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Status == 0 {
		return msg
	}
	return fmt.Sprintf("%d: %s", e.Status, msg)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && (e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

type malformedError struct {
	what string
	err  error
}

func (e malformedError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.what, e.err)
	}
	return "malformed response: " + e.what
}

func (e malformedError) Unwrap() []error {
	if e.err == nil {
		return []error{ErrMalformed}
	}
	return []error{ErrMalformed, e.err}
}

func malformed(what string, err error) error {
	return malformedError{what: what, err: err}
}

// Message returns the server-provided message carried by err, or fallback.
func Message(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && strings.TrimSpace(ae.Message) != "" {
		return strings.TrimSpace(ae.Message)
	}
	return fallback
}
