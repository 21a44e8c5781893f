package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/newsdesk/internal/store"
)

// Service errors. Callers check them with errors.Is; the API layer maps them
// to HTTP status codes.
var (
	// ErrNotFound is the parent of every "not found" error from this package.
	ErrNotFound = errors.New("not found")

	// ErrTaskNotFound indicates that the search task does not exist.
	ErrTaskNotFound = fmt.Errorf("%w: search task", ErrNotFound)

	// ErrHeadlineNotFound indicates that the headline does not exist.
	ErrHeadlineNotFound = fmt.Errorf("%w: headline", ErrNotFound)

	// ErrTaskInactive is returned when ingestion is requested for a disabled
	// task. No generation call is made.
	ErrTaskInactive = errors.New("search task is inactive")

	// ErrHeadlineNotFresh is returned when a rewrite is requested for a
	// headline that another attempt already claimed or finished.
	ErrHeadlineNotFresh = errors.New("headline is not fresh")

	// ErrHeadlineNotFailed is returned when a re-queue is requested for a
	// headline that has not failed.
	ErrHeadlineNotFailed = errors.New("headline is not failed")

	// ErrParse matches every *ParseError.
	ErrParse = errors.New("response could not be parsed")

	// ErrStorage matches every *StorageError.
	ErrStorage = errors.New("storage failure")
)

// ParseError reports model output that did not contain the expected JSON.
type ParseError struct {
	Reason string
	Err    error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse failed: %s", e.Reason)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrParse) true for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// StorageError wraps a persistence failure with the operation that hit it.
type StorageError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for StorageError.
func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) true for any StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError maps store errors to service errors. Not-found sentinels
// are returned directly; anything else is wrapped in a StorageError.
func NewStorageError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if store.IsNotFoundError(err) {
		switch {
		case errors.Is(err, store.ErrTaskNotFound):
			return ErrTaskNotFound
		case errors.Is(err, store.ErrHeadlineNotFound):
			return ErrHeadlineNotFound
		}
	}

	return &StorageError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
