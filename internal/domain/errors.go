package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCartNotFound is returned by cart mutations whose cart id the backend no longer knows.
	ErrCartNotFound = errors.New("cart does not exist")
)

// ValidationError is raised locally before any upstream request is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UserError is a business error reported by the commerce backend
// (userErrors / customerUserErrors).
type UserError struct {
	Field   []string
	Code    string
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// UpstreamStatusError is a non-2xx transport response from an external platform.
type UpstreamStatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Service, e.StatusCode)
}
