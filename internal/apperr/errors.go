// Package apperr defines the error taxonomy the ledger exposes to callers.
// Handlers map these onto HTTP statuses; services never swallow a storage
// failure into a success response.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed input before storage is touched.
type ValidationError struct {
	Field string
	Tag   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", e.Field, e.Tag)
}

// NotFoundError means a referenced entity does not exist or does not belong
// to the calling store.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// InsufficientStockError means no single batch can supply the requested
// quantity. Available carries the total quantity across all batches so the
// caller can adjust and resubmit; this is an expected error, not a fault.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock remaining (available: %d)", e.Available)
}

// StorageError wraps a failed persistence write. The whole operation was
// rolled back; the caller should retry and must not assume partial state.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError unless it is already part of the
// taxonomy (or nil), so domain errors pass through transaction boundaries
// unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var nf *NotFoundError
	var is *InsufficientStockError
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &is) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
