package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a single-row fetch matched no rows.
	ErrNotFound = errors.New("entity not found")

	// ErrAmbiguousResult is returned when a single-row fetch matched more
	// than one row. The primary key makes this unreachable for tasks, but
	// callers can still rely on it being distinct from ErrNotFound.
	ErrAmbiguousResult = errors.New("query returned more than one row")

	// ErrConnection is returned when a statement could not reach the engine:
	// the connection could not be established, was lost mid-statement, or
	// the context ended before the engine replied.
	ErrConnection = errors.New("database connection failed")

	// ErrStorage is returned when the engine received a statement and
	// rejected it (constraint violation, malformed statement, missing
	// privileges), or when a returned row could not be mapped.
	ErrStorage = errors.New("storage operation rejected")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity. It always travels together with ErrStorage.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when the engine rejects a row because a
	// NOT NULL or CHECK constraint failed. It always travels together with
	// ErrStorage.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTaskNotFound indicates that the requested task does not exist in the store.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAmbiguousResultError checks if a single-row fetch matched several rows.
func IsAmbiguousResultError(err error) bool {
	return errors.Is(err, ErrAmbiguousResult)
}

// IsConnectionError checks if the error means the engine could not be reached.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsStorageError checks if the error means the engine rejected a statement.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "task")
	Operation string // The operation that failed (e.g., "create", "get_by_id")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
