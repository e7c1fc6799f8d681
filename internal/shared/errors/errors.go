package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND_ERROR"
	ErrorTypePermission       ErrorType = "PERMISSION_DENIED"
	ErrorTypePersistenceWrite ErrorType = "PERSISTENCE_WRITE_ERROR"
	ErrorTypePersistenceRead  ErrorType = "PERSISTENCE_READ_ERROR"
	ErrorTypeInfrastructure   ErrorType = "INFRASTRUCTURE_ERROR"
	ErrorTypeInternal         ErrorType = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInternalServer   = errors.New("internal server error")
)

// Domain-specific errors
var (
	ErrPersonNotFound    = errors.New("person not found")
	ErrFileNotFound      = errors.New("file not found")
	ErrMissingField      = errors.New("required field missing")
	ErrKeyNotFound       = errors.New("storage key not found")
	ErrStorageClosed     = errors.New("storage closed")
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest).WithCause(ErrInvalidInput)
}

// NewMissingFieldError creates a validation error for an empty required field
func NewMissingFieldError(field string) *AppError {
	return NewAppError(ErrorTypeValidation, fmt.Sprintf("%s is required", field), http.StatusBadRequest).
		WithCode("missing_" + field).
		WithDetail("field", field).
		WithCause(ErrMissingField)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound).WithCause(ErrNotFound)
}

// NewPersonNotFoundError creates a not found error for a person id
func NewPersonNotFoundError(id string) *AppError {
	return NewAppError(ErrorTypeNotFound, "person not found", http.StatusNotFound).
		WithCode("person_not_found").
		WithDetail("id", id).
		WithCause(ErrPersonNotFound)
}

// NewFileNotFoundError creates a not found error for a file id of an owner
func NewFileNotFoundError(ownerID, fileID string) *AppError {
	return NewAppError(ErrorTypeNotFound, "file not found", http.StatusNotFound).
		WithCode("file_not_found").
		WithDetail("owner_id", ownerID).
		WithDetail("file_id", fileID).
		WithCause(ErrFileNotFound)
}

// NewPermissionDeniedError creates an error for a refused device capability
func NewPermissionDeniedError(message string) *AppError {
	return NewAppError(ErrorTypePermission, message, http.StatusForbidden).
		WithCode("permission_denied").
		WithCause(ErrPermissionDenied)
}

// NewPersistenceWriteError wraps a failed durable write
func NewPersistenceWriteError(key string, cause error) *AppError {
	return NewAppError(ErrorTypePersistenceWrite, "failed to persist collection", http.StatusInternalServerError).
		WithDetail("key", key).
		WithCause(cause)
}

// NewPersistenceReadError wraps a failed or malformed durable read
func NewPersistenceReadError(key string, cause error) *AppError {
	return NewAppError(ErrorTypePersistenceRead, "failed to load collection", http.StatusInternalServerError).
		WithDetail("key", key).
		WithCause(cause)
}

// NewInfrastructureError creates an infrastructure error
func NewInfrastructureError(message string) *AppError {
	return NewAppError(ErrorTypeInfrastructure, message, http.StatusInternalServerError)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// Helper functions for common error scenarios

// WrapError wraps an error with context
func WrapError(err error, message string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// AsAppError returns the AppError in err's chain, if any
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type == ErrorTypeNotFound
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrPersonNotFound) || errors.Is(err, ErrFileNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type == ErrorTypeValidation
	}
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrMissingField)
}

// IsPermissionDenied checks if an error is a permission denial
func IsPermissionDenied(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type == ErrorTypePermission
	}
	return errors.Is(err, ErrPermissionDenied)
}

// HTTPStatus returns the HTTP status for err, 500 when it carries none
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok && appErr.HTTPCode != 0 {
		return appErr.HTTPCode
	}
	return http.StatusInternalServerError
}
