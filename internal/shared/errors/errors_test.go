package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Behavior(t *testing.T) {
	err := NewAppError(ErrorTypeValidation, "invalid input", http.StatusBadRequest).
		WithCode("VAL001").WithDetail("field", "nombre").WithComponent("test-component")
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "VAL001", err.Code)
	assert.Equal(t, "test-component", err.Component)
	assert.Equal(t, "nombre", err.Details["field"])
	assert.Equal(t, "invalid input", err.Error())
}

func TestAppError_WithCause_Unwrap(t *testing.T) {
	err := NewPersonNotFoundError("p1")
	assert.Equal(t, ErrPersonNotFound, err.Unwrap())
	assert.True(t, errors.Is(err, ErrPersonNotFound))
	assert.Equal(t, "p1", err.Details["id"])
}

func TestMissingFieldError(t *testing.T) {
	err := NewMissingFieldError("apellido")
	assert.Equal(t, "missing_apellido", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsNotFound(NewFileNotFoundError("p1", "f1")))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", NewPersonNotFoundError("x"))))
	assert.True(t, IsNotFound(ErrPersonNotFound))
	assert.True(t, IsPermissionDenied(NewPermissionDeniedError("gallery")))
	assert.True(t, IsPermissionDenied(ErrPermissionDenied))
	assert.True(t, IsValidation(ErrMissingField))
	assert.False(t, IsValidation(errors.New("other")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NewPersonNotFoundError("x")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(NewPermissionDeniedError("no")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestWrapError(t *testing.T) {
	orig := NewMissingFieldError("name")
	assert.Same(t, orig, WrapError(orig, "ignored"))

	wrapped := WrapError(errors.New("disk"), "write failed")
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.Equal(t, "write failed: disk", wrapped.Error())
}

func TestPersistenceErrors(t *testing.T) {
	cause := errors.New("redis down")
	w := NewPersistenceWriteError("PERSONS_LIST", cause)
	assert.Equal(t, ErrorTypePersistenceWrite, w.Type)
	assert.ErrorIs(t, w, cause)
	r := NewPersistenceReadError("FILES_LIST", cause)
	assert.Equal(t, "FILES_LIST", r.Details["key"])
}
