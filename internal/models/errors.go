package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound marks lookups by identifier that matched nothing. Callers wrap
// it with the entity and id, e.g. fmt.Errorf("order %s: %w", id, ErrNotFound).
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials marks a failed login attempt
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError reports every invalid input field at once rather than
// failing on the first.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a per-field message
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

// Err returns the error if any field failed, nil otherwise
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StorageError wraps a persistence failure. The failed operation is treated
// as a no-op and never retried.
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
