// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidHeadlineStatus is returned when a headline status is not valid.
	ErrInvalidHeadlineStatus = errors.New("invalid headline status")

	// ErrInvalidTransition is returned when a headline cannot move from its
	// current status to the requested one.
	ErrInvalidTransition = errors.New("invalid headline status transition")

	// ErrInvalidSchedule is returned when a task schedule is not HH:MM.
	ErrInvalidSchedule = errors.New("invalid schedule, expected HH:MM")
)
