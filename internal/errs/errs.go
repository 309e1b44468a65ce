// Package errs defines the failure taxonomy shared by the API client and the tracker:
// local validation failures, transient fetch failures, and authentication failures.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is matched by every auth failure, whether reported by the server
// or detected locally from an expired credential.
var ErrUnauthorized = errors.New("unauthorized")

type Category int

const (
	// Transient covers network failures and 5xx/408/429 responses.
	Transient Category = iota
	// Auth covers 401 responses and missing or expired credentials.
	Auth
	// Rejected covers the remaining 4xx responses, 403 included: a refused
	// resource does not end the session.
	Rejected
)

func (c Category) String() string {
	switch c {
	case Transient:
		return "transient"
	case Auth:
		return "auth"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// ValidationError is raised before any request is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// APIError is a failed remote operation.
type APIError struct {
	Op         string
	StatusCode int // 0 for network-level failures
	Body       string
	Underlying error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: [%s] HTTP %d", e.Op, e.Category(), e.StatusCode)
	}
	return fmt.Sprintf("%s: [%s] %v", e.Op, e.Category(), e.Underlying)
}

func (e *APIError) Unwrap() error { return e.Underlying }

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Category() == Auth
}

func (e *APIError) Category() Category {
	return categoryFor(e.StatusCode)
}

func categoryFor(status int) Category {
	switch {
	case status == 0:
		return Transient
	case status == http.StatusUnauthorized:
		return Auth
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests:
		return Transient
	case status >= 400 && status < 500:
		return Rejected
	default:
		return Transient
	}
}

func NewHTTPError(op string, status int, body string) *APIError {
	return &APIError{
		Op:         op,
		StatusCode: status,
		Body:       body,
		Underlying: fmt.Errorf("%s failed with status %d", op, status),
	}
}

func NewNetworkError(op string, err error) *APIError {
	return &APIError{Op: op, Underlying: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Category() == Transient
	}
	return false
}
