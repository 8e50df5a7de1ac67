// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrResourceUnavailable means a model artifact could not be loaded.
	// It is fatal: no evaluation may run without both artifacts.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrInvalidMeasurement means a measurement is outside its declared domain.
	ErrInvalidMeasurement = errors.New("invalid measurement")

	// Journal errors.
	ErrNotFound = errors.New("not found")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Unavailable wraps err as ErrResourceUnavailable for the named resource.
func Unavailable(resource string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrResourceUnavailable, resource)
	}
	return fmt.Errorf("%w: %s: %w", ErrResourceUnavailable, resource, err)
}
