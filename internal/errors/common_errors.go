package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeLoad       ErrorType = "LOAD"
	ErrTypeParse      ErrorType = "PARSE"
	ErrTypeSchema     ErrorType = "SCHEMA"
	ErrTypeRender     ErrorType = "RENDER"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
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

// NewLoadError reports a missing, unreadable or malformed input file.
func NewLoadError(path string, cause error) *AppError {
	return NewAppError(ErrTypeLoad, fmt.Sprintf("cannot load %s", path), cause).
		WithContext("file", path)
}

// NewSchemaError reports a header that does not match the declared schema.
func NewSchemaError(path, message string) *AppError {
	return NewAppError(ErrTypeSchema, fmt.Sprintf("%s: %s", path, message), nil).
		WithContext("file", path)
}

// NewParseError reports a cell that could not be parsed. row is the 1-based
// row of the file, the header being row 1.
func NewParseError(path string, row int, column, value string, cause error) *AppError {
	msg := fmt.Sprintf("%s row %d column %s: cannot parse %q", path, row, column, value)
	return NewAppError(ErrTypeParse, msg, cause).
		WithContext("file", path).
		WithContext("row", row).
		WithContext("column", column)
}

// NewRenderError reports a chart or report artefact that could not be produced.
func NewRenderError(artifact string, cause error) *AppError {
	return NewAppError(ErrTypeRender, fmt.Sprintf("render %s", artifact), cause).
		WithContext("artifact", artifact)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// TypeOf returns the AppError type wrapped by err, or "" if there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
