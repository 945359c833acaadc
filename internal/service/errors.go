package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrUploadTooLarge indicates an uploaded image exceeds the configured
	// size cap. API layer should map this to HTTP 413.
	ErrUploadTooLarge = errors.New("uploaded image exceeds size limit")

	// ErrUnsupportedMediaType indicates an upload whose media type is not an
	// accepted image format. API layer should map this to HTTP 415.
	ErrUnsupportedMediaType = errors.New("unsupported image media type")

	// ErrThumbnailFailed indicates the stored image could not be decoded
	// for preview rendering. API layer should map this to HTTP 422.
	ErrThumbnailFailed = errors.New("thumbnail rendering failed")
)
