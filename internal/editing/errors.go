package editing

import "errors"

// Common errors returned by the editing package
var (
	// ErrEditFailed is returned when an image edit fails for any general reason
	ErrEditFailed = errors.New("failed to edit image")

	// ErrNoImageGenerated is returned when the service resolves a response
	// without an extractable output image
	ErrNoImageGenerated = errors.New("no image generated")

	// ErrAuthRejected is returned when the service rejects the credential.
	// This is the single fatal category: it halts the remainder of a run.
	ErrAuthRejected = errors.New("credential rejected by image service")

	// ErrSafetyBlocked is returned when the service blocks the content due to
	// safety filters
	ErrSafetyBlocked = errors.New("content blocked by image service safety filters")

	// ErrRateLimited is returned when the service reports a too-many-requests
	// condition
	ErrRateLimited = errors.New("image service rate limit exceeded")

	// ErrImageDecode is returned when the source image bytes cannot be decoded
	// to read pixel dimensions; a per-item error, never fatal to the run
	ErrImageDecode = errors.New("failed to decode source image")

	// ErrInvalidConfig is returned when the editor configuration is invalid
	ErrInvalidConfig = errors.New("invalid editor configuration")
)
