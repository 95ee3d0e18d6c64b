// Package domain contains the core domain models and types.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure cases.
var (
	// ErrDecodeFailed indicates the content could not be decoded to text.
	ErrDecodeFailed = errors.New("content could not be decoded as text")

	// ErrContentTooLarge indicates the content exceeds the decode limit.
	ErrContentTooLarge = errors.New("content exceeds maximum decode size")

	// ErrMissingFile indicates an upload request carried no file.
	ErrMissingFile = errors.New("no file provided")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidPolicy indicates a policy table failed validation.
	ErrInvalidPolicy = errors.New("invalid policy")
)

// StageError wraps a failure inside one pipeline stage.
type StageError struct {
	// Stage is the stage that failed.
	Stage string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// WrapError creates a new StageError with context.
func WrapError(stage string, err error) *StageError {
	return &StageError{
		Stage: stage,
		Err:   err,
	}
}

// RecoveredError converts a value recovered from a panic into an error.
func RecoveredError(stage string, r any) *StageError {
	if err, ok := r.(error); ok {
		return WrapError(stage, err)
	}
	return WrapError(stage, fmt.Errorf("panic: %v", r))
}

// StageOf returns the stage name carried by err, if any.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
