// Package apperr defines the error taxonomy shared by all domain services
// and the HTTP boundary: validation failures (with field-level detail),
// uniqueness conflicts, and missing entities. Anything outside the taxonomy
// is treated as a store failure and surfaced as a 500.
package apperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// FieldError describes a single invalid field in a request payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Msg    string
	Fields []FieldError
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError with optional field details.
func Validation(msg string, fields ...FieldError) *ValidationError {
	return &ValidationError{Msg: msg, Fields: fields}
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness violation (duplicate CPF, CNS, CNES).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Conflict builds a ConflictError.
func Conflict(msg string) *ConflictError { return &ConflictError{Msg: msg} }

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string) *NotFoundError { return &NotFoundError{Resource: resource} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

const uniqueViolation = "23505"

// FromStore classifies a pgx error. pgx.ErrNoRows becomes NotFound for the
// given resource; a unique-constraint violation becomes a Conflict using the
// constraint-name → message table. Everything else passes through untouched
// so the boundary reports it as a store failure.
func FromStore(err error, resource string, conflicts map[string]string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(resource)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if msg, ok := conflicts[pgErr.ConstraintName]; ok {
			return Conflict(msg)
		}
		return Conflict("duplicate value violates a uniqueness constraint")
	}
	return err
}
