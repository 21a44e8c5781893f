package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/newsdesk/internal/api/shared"
	"github.com/phrazzld/newsdesk/internal/domain"
	"github.com/phrazzld/newsdesk/internal/generation"
	"github.com/phrazzld/newsdesk/internal/service"
	"github.com/phrazzld/newsdesk/internal/store"
)

// MapErrorToStatusCode maps service and store errors to HTTP status codes
// so internal error types never reach clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrTaskInactive),
		errors.Is(err, service.ErrHeadlineNotFresh),
		errors.Is(err, service.ErrHeadlineNotFailed):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrUpstream),
		errors.Is(err, service.ErrParse):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that carries
// no internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return "Search task not found"
	case errors.Is(err, service.ErrHeadlineNotFound):
		return "Headline not found"
	case errors.Is(err, service.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, service.ErrTaskInactive):
		return "Search task is inactive"
	case errors.Is(err, service.ErrHeadlineNotFresh):
		return "Headline is not fresh"
	case errors.Is(err, service.ErrHeadlineNotFailed):
		return "Only failed headlines can be re-queued"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"
	case errors.Is(err, generation.ErrUpstream):
		return "Generation service request failed"
	case errors.Is(err, service.ErrParse):
		return "Generation service returned an unreadable response"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError logs err and writes the mapped status with a safe message.
// A non-empty customMessage replaces the default message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, customMessage string) {
	status := MapErrorToStatusCode(err)
	message := customMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns a validator error into a short message
// naming the field and the failed rule.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()
	if !strings.Contains(errMsg, "Field validation") {
		return "Validation error"
	}

	// Key: 'ManualRunRequest.TaskID' Error:Field validation for 'TaskID' failed on the 'required' tag
	parts := strings.Split(errMsg, "Error:")
	if len(parts) < 2 {
		return "Validation error"
	}
	fieldParts := strings.Split(parts[1], "'")
	if len(fieldParts) < 3 {
		return "Validation error"
	}
	field := fieldParts[1]
	if len(fieldParts) >= 5 && fieldParts[3] != "" {
		return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(fieldParts[3]))
	}
	return fmt.Sprintf("Invalid %s", field)
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "must be a UUID"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
