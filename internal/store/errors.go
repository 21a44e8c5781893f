package store

import (
	"errors"
	"fmt"
)

// Base errors. Store implementations wrap them so callers can match with
// errors.Is regardless of backend.
var (
	ErrNotFound         = errors.New("entity not found")
	ErrDuplicate        = errors.New("entity already exists")
	ErrInvalidEntity    = errors.New("invalid entity")
	ErrInvalidReference = errors.New("referenced entity does not exist")

	// ErrStatusConflict means a conditional transition found the row in some
	// other status. The row exists.
	ErrStatusConflict = errors.New("entity is not in the expected status")
)

// Entity-specific variants.
var (
	ErrTaskNotFound     = fmt.Errorf("%w: search task", ErrNotFound)
	ErrHeadlineNotFound = fmt.Errorf("%w: headline", ErrNotFound)
	ErrArticleNotFound  = fmt.Errorf("%w: article", ErrNotFound)

	// ErrArticleExists is returned for a second article on one headline.
	ErrArticleExists = fmt.Errorf("%w: article for headline", ErrDuplicate)
)

func IsNotFoundError(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsDuplicateError(err error) bool { return errors.Is(err, ErrDuplicate) }

// StoreError adds the entity and operation to a failure.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
