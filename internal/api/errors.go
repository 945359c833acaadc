package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/calref/retouch-api/internal/api/shared"
	"github.com/calref/retouch-api/internal/domain"
	"github.com/calref/retouch-api/internal/service"
	"github.com/calref/retouch-api/internal/store"
	"github.com/calref/retouch-api/internal/task"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Credential errors
	case errors.Is(err, task.ErrCredentialUnusable):
		return http.StatusConflict

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrItemNotEditable),
		errors.Is(err, store.ErrItemNotEligible),
		errors.Is(err, store.ErrAlreadyProcessing),
		errors.Is(err, store.ErrResultNotReady),
		errors.Is(err, task.ErrNoEligibleItems):
		return http.StatusConflict

	// Upload errors
	case errors.Is(err, service.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrThumbnailFailed):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrItemSourceEmpty),
		errors.Is(err, domain.ErrItemFileNameEmpty):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, task.ErrCredentialUnusable):
		return "API key is missing or was rejected; re-authorize before starting a run"

	case errors.Is(err, store.ErrItemNotFound):
		return "Queue item not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrItemNotEditable):
		return "Item cannot be edited in its current status"
	case errors.Is(err, store.ErrItemNotEligible):
		return "Item is not eligible for processing"
	case errors.Is(err, store.ErrAlreadyProcessing):
		return "Another item is already processing"
	case errors.Is(err, store.ErrResultNotReady):
		return "Item has no completed result"
	case errors.Is(err, task.ErrNoEligibleItems):
		return "No items are eligible for processing"

	case errors.Is(err, service.ErrUploadTooLarge):
		return "Uploaded image is too large"
	case errors.Is(err, service.ErrUnsupportedMediaType):
		return "Unsupported image format"
	case errors.Is(err, service.ErrThumbnailFailed):
		return "Image could not be rendered for preview"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrItemSourceEmpty),
		errors.Is(err, domain.ErrItemFileNameEmpty):
		return "Invalid request data"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an internal error onto an HTTP response: status code
// from MapErrorToStatusCode, body message from GetSafeErrorMessage (or the
// provided override), full redacted details in the logs only.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMessage string) {
	status := MapErrorToStatusCode(err)

	message := GetSafeErrorMessage(err)
	if defaultMessage != "" && status == http.StatusInternalServerError {
		message = defaultMessage
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'Request.Field' Error:Field validation for 'Field' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
