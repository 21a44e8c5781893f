package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "wrapped ErrNotFound", err: fmt.Errorf("lookup: %w", ErrNotFound), expected: true},
		{name: "ErrTaskNotFound", err: ErrTaskNotFound, expected: true},
		{name: "wrapped ErrHeadlineNotFound", err: fmt.Errorf("rewrite: %w", ErrHeadlineNotFound), expected: true},
		{name: "ErrArticleNotFound", err: ErrArticleNotFound, expected: true},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: true},
		{name: "ErrArticleExists", err: ErrArticleExists, expected: true},
		{name: "wrapped ErrArticleExists", err: fmt.Errorf("insert: %w", ErrArticleExists), expected: true},
		{name: "ErrNotFound", err: ErrNotFound, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("with wrapped error", func(t *testing.T) {
		err := NewStoreError("headline", "transition", "status changed concurrently", ErrStatusConflict)
		assert.Equal(t,
			"transition operation on headline failed: status changed concurrently: entity is not in the expected status",
			err.Error())
		assert.ErrorIs(t, err, ErrStatusConflict)

		var storeErr *StoreError
		assert.ErrorAs(t, fmt.Errorf("outer: %w", err), &storeErr)
		assert.Equal(t, "headline", storeErr.Entity)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("article", "create", "bad tags", nil)
		assert.Equal(t, "create operation on article failed: bad tags", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})
}
