package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeIO         ErrorType = "IO"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeRender     ErrorType = "RENDER"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IOError creates a file system error for the given path
func IOError(operation, path string, cause error) *AppError {
	return NewAppError(ErrTypeIO, fmt.Sprintf("%s %s", operation, path), cause).
		WithContext("path", path)
}

// RenderError creates a chart rendering error
func RenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// TypeOf classifies err by walking its chain. Sentinel errors map onto
// their natural type; anything else is IO.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Type
	}
	switch {
	case Is(err, ErrMissingColumn):
		return ErrTypeNotFound
	case Is(err, ErrParse), Is(err, ErrDuplicateDate):
		return ErrTypeParsing
	case Is(err, ErrNoData), Is(err, ErrInvalidWindow), Is(err, ErrLengthMismatch), Is(err, ErrEmptySeries),
		Is(err, ErrUnsorted):
		return ErrTypeValidation
	}
	return ErrTypeIO
}
