package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrMissingBaseURL is returned when the proxy client has no base URL.
	ErrMissingBaseURL = errors.New("proxy base URL cannot be empty")

	// ErrEmptyCompletion is returned when the model produced no text.
	ErrEmptyCompletion = errors.New("model returned no text")
)
