package apperrors

import (
	"errors"
	"fmt"
)

// Load errors
var (
	// ErrSourceFormat covers malformed source documents and unparseable fields
	// that have no null fallback.
	ErrSourceFormat = errors.New("malformed source data")
	// ErrSourceUnreadable covers missing or unreadable source files.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrConstraint covers warehouse integrity violations (foreign keys, not-null, uniqueness).
	ErrConstraint = errors.New("warehouse constraint violated")
	// ErrConnectivity covers lost or refused database connections.
	ErrConnectivity = errors.New("warehouse unreachable")
	// ErrRolledBack marks a load whose transaction was undone.
	ErrRolledBack = errors.New("load rolled back")
)

// Report errors
var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrReportQuery       = errors.New("report query failed")
)

// Configuration errors
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// LoadError carries the stage and source that failed during ingestion.
type LoadError struct {
	Stage  string
	Source string
	Err    error
}

// Error implements error interface
func (e *LoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s (%s): %v", e.Stage, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap interface
func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError wraps err with the stage and source it occurred in.
func NewLoadError(stage, source string, err error) error {
	if err == nil {
		return nil
	}
	return &LoadError{Stage: stage, Source: source, Err: err}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewSourceFormatError reports a malformed source field or document.
func NewSourceFormatError(format string, args ...interface{}) error {
	return NewCustomError(ErrSourceFormat, fmt.Sprintf(format, args...))
}
