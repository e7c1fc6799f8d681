package utils

import (
	"context"
	"errors"

	"gestion-personas/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
	ErrOperationNotFound  = errors.New("operation not found in context")
	ErrOperationNotString = errors.New("operation in context is not a string")
)

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.RequestIDKey, ErrRequestIDNotFound, ErrRequestIDNotString)
}

// GetOperationFromContext retrieves the name of the running command from the context.
func GetOperationFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.OperationKey, ErrOperationNotFound, ErrOperationNotString)
}

// WithRequestID returns a copy of ctx carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithOperation returns a copy of ctx carrying the command name.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// WithPersonID returns a copy of ctx carrying the id of the targeted person.
func WithPersonID(ctx context.Context, personID string) context.Context {
	return context.WithValue(ctx, contextkeys.PersonIDKey, personID)
}

func stringValue(ctx context.Context, key interface{}, missing, wrongType error) (string, error) {
	val := ctx.Value(key)
	if val == nil {
		return "", missing
	}
	s, ok := val.(string)
	if !ok {
		return "", wrongType
	}
	return s, nil
}
