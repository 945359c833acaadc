package editing

import (
	"errors"
	"strings"
)

// Category is the user-facing classification of a failed edit attempt.
type Category string

// The classifier maps every failure into exactly one of these categories.
// Only CategoryAuthRejected is fatal to a run; the rest affect one item.
const (
	CategoryAuthRejected  Category = "auth_rejected"
	CategorySafetyBlocked Category = "safety_blocked"
	CategoryRateLimited   Category = "rate_limited"
	CategoryUnknown       Category = "unknown"
)

// Fatal reports whether this category halts the remainder of the run.
func (c Category) Fatal() bool {
	return c == CategoryAuthRejected
}

// Message returns the user-facing text recorded on the item for this
// category.
func (c Category) Message() string {
	switch c {
	case CategoryAuthRejected:
		return "API key was rejected. Re-authorize before starting another run."
	case CategorySafetyBlocked:
		return "Blocked by content safety filters."
	case CategoryRateLimited:
		return "Rate limit exceeded. Try again later."
	default:
		return "generation failed"
	}
}

// Classify maps a raw failure from the edit call or request builder into a
// Category. It is a pure function over the error's identity and textual
// signal; it never retries and never inspects anything but the error itself.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	switch {
	case errors.Is(err, ErrAuthRejected):
		return CategoryAuthRejected
	case errors.Is(err, ErrSafetyBlocked):
		return CategorySafetyBlocked
	case errors.Is(err, ErrRateLimited):
		return CategoryRateLimited
	}

	msg := strings.ToLower(err.Error())

	switch {
	// The Gemini API reports an unusable key as a missing entity; treat any
	// equivalent authorization-rejection signal the same way.
	case strings.Contains(msg, "entity was not found"),
		strings.Contains(msg, "entity not found"),
		strings.Contains(msg, "api key not valid"),
		strings.Contains(msg, "api_key_invalid"),
		strings.Contains(msg, "unauthenticated"):
		return CategoryAuthRejected
	case strings.Contains(msg, "safety"),
		strings.Contains(msg, "prohibited content"):
		return CategorySafetyBlocked
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "quota"):
		return CategoryRateLimited
	default:
		return CategoryUnknown
	}
}
