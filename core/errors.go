package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("permission denied")

	// ErrReferenced is returned when a record cannot be removed because others still reference it.
	ErrReferenced = errors.New("record is still referenced by other records")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return "invalid data"
	}
	return err.Err.Error()
}

// ConflictError reports a record that would duplicate an existing one on its logical key.
type ConflictError struct {
	Resource string
	Fields   []string
}

func NewConflictError(resource string, fields ...string) error {
	return &ConflictError{Resource: resource, Fields: fields}
}

func (err ConflictError) Error() string {
	if len(err.Fields) == 0 {
		return fmt.Sprintf("%s already exists", err.Resource)
	}
	return fmt.Sprintf("%s with the same %s already exists", err.Resource, strings.Join(err.Fields, ", "))
}

// IsNotFound reports whether err (or its cause) is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
