package services

import (
	"errors"
	"fmt"
)

// The engine fails fast: every error below is raised before any mutation, or
// after a full rollback. Each kind carries enough context (field, entity, id)
// for the caller to present an actionable message.

// ValidationError means the caller-supplied request violates a precondition.
// Retrying without changing the input will fail again.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d no encontrado", e.Entity, e.ID)
}

// NewNotFoundError creates a NotFoundError for an entity
func NewNotFoundError(entity string, id uint) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError means a concurrent modification was detected (optimistic
// check failure). The caller should re-fetch current state and retry.
type ConflictError struct {
	Entity string
	ID     uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d fue modificado por otra operación, reintente", e.Entity, e.ID)
}

// NewConflictError creates a ConflictError for an entity
func NewConflictError(entity string, id uint) *ConflictError {
	return &ConflictError{Entity: entity, ID: id}
}

// StorageError wraps a persistence-layer failure. The whole request was
// rolled back; the identical request is safe to retry thanks to the
// idempotency key.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("error de almacenamiento en %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsStorage reports whether err is a StorageError
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// Common service errors
var (
	ErrInvalidState = errors.New("transición de estado inválida")
	ErrDuplicate    = errors.New("registro duplicado")
	ErrUnauthorized = errors.New("no autorizado")
)
