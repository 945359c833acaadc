package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrItemNotFound indicates that the requested queue item does not exist.
	// Processing-side callers use this to detect an item removed mid-flight.
	ErrItemNotFound = fmt.Errorf("%w: queue item", ErrNotFound)

	// ErrItemNotEditable is returned when a mutation targets an item whose
	// status does not permit it, e.g. setting a custom instruction on an
	// item that is currently processing or already succeeded.
	ErrItemNotEditable = errors.New("queue item not editable in current status")

	// ErrItemNotEligible is returned by MarkProcessing when the item exists
	// but is not in an eligible (idle or error) status.
	ErrItemNotEligible = errors.New("queue item not eligible for processing")

	// ErrAlreadyProcessing is returned by MarkProcessing when another item
	// is already in-flight. The store enforces that at most one item is
	// processing at any time.
	ErrAlreadyProcessing = errors.New("another queue item is already processing")

	// ErrResultNotReady is returned when a result is requested for an item
	// that has not completed successfully.
	ErrResultNotReady = errors.New("queue item result not ready")
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
