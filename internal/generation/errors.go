package generation

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Common errors returned by the generation package
var (
	// ErrUpstream matches every *UpstreamError.
	ErrUpstream = errors.New("generation upstream error")

	// ErrInvalidResponse is returned when a response body does not have the expected shape.
	ErrInvalidResponse = errors.New("invalid response from generation service")

	// ErrContentBlocked is returned when the model refuses the prompt on safety grounds.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when a client configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generation client configuration")

	// ErrEmptyMessage is returned when Chat is called without a message.
	ErrEmptyMessage = errors.New("chat message cannot be empty")

	// ErrUnknownProfile is returned when a profile reference cannot be resolved.
	ErrUnknownProfile = errors.New("unknown generation profile")
)

// maxBodyInError caps how much of an upstream body is kept in an error.
const maxBodyInError = 2048

// UpstreamError reports a non-2xx status or a transport failure from the
// generation service. StatusCode is zero for transport failures.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

// NewUpstreamError builds an UpstreamError, truncating body.
func NewUpstreamError(op string, statusCode int, body string, err error) *UpstreamError {
	if len(body) > maxBodyInError {
		cut := maxBodyInError
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}
	return &UpstreamError{Op: op, StatusCode: statusCode, Body: body, Err: err}
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s failed: %d - %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s failed: %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	default:
		return e.Op + " failed"
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUpstream) true for any UpstreamError.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// Transient reports whether retrying later might succeed.
func (e *UpstreamError) Transient() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}
