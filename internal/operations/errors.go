package operations

import (
	"context"
	"errors"
	"fmt"

	apperrors "rvolchart/internal/errors"
)

// ErrorType represents the type of operation error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeParsing      ErrorType = "parsing"
	ErrorTypeIO           ErrorType = "io"
	ErrorTypeRender       ErrorType = "render"
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypeCancellation ErrorType = "cancellation"
)

// OperationError is returned by Pipeline.Run when a stage fails
type OperationError struct {
	Type    ErrorType              `json:"type"`
	Stage   string                 `json:"stage,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"cause,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewStageError wraps the failure of stage, classifying cause
func NewStageError(stage string, cause error) *OperationError {
	return &OperationError{
		Type:    classify(cause),
		Stage:   stage,
		Message: "stage failed",
		Cause:   cause,
	}
}

// NewCancellationError reports a run cancelled before stage started
func NewCancellationError(stage string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeCancellation,
		Stage:   stage,
		Message: "operation was cancelled",
		Cause:   cause,
	}
}

// StageOf returns the stage that produced err, or "" when err is not an
// OperationError
func StageOf(err error) string {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Stage
	}
	return ""
}

func classify(err error) ErrorType {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeCancellation
	}
	switch apperrors.TypeOf(err) {
	case apperrors.ErrTypeNotFound:
		return ErrorTypeNotFound
	case apperrors.ErrTypeParsing:
		return ErrorTypeParsing
	case apperrors.ErrTypeValidation:
		return ErrorTypeValidation
	case apperrors.ErrTypeRender:
		return ErrorTypeRender
	case apperrors.ErrTypeConfig:
		return ErrorTypeConfig
	default:
		return ErrorTypeIO
	}
}
