package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/calref/retouch-api/internal/domain"
)

// QueueStore defines the interface for queue item data access.
//
// Status transitions flow through the Mark* methods so the store can enforce
// the single-flight rule: at most one item is in processing status at any
// time, regardless of how many callers race on MarkProcessing.
type QueueStore interface {
	// Enqueue appends a new item to the end of the queue.
	// The item must be valid according to domain validation rules.
	Enqueue(ctx context.Context, item *domain.QueueItem) error

	// Get retrieves a queue item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.QueueItem, error)

	// List returns all queue items in insertion order.
	List(ctx context.Context) ([]*domain.QueueItem, error)

	// Remove deletes a queue item by its ID.
	// Returns ErrItemNotFound if the item does not exist. Removing an item
	// that is currently processing is permitted; the in-flight attempt's
	// subsequent MarkSuccess or MarkError then reports ErrItemNotFound and
	// the caller discards the result.
	Remove(ctx context.Context, id uuid.UUID) error

	// Clear removes every item from the queue.
	Clear(ctx context.Context) error

	// SetCustomInstruction updates the per-item instruction text.
	// Returns ErrItemNotFound if the item does not exist, and
	// ErrItemNotEditable if the item is processing or already succeeded.
	SetCustomInstruction(ctx context.Context, id uuid.UUID, instruction string) error

	// SetGlobalInstruction replaces the queue-wide instruction applied to
	// every item in a run.
	SetGlobalInstruction(ctx context.Context, instruction string) error

	// GlobalInstruction returns the current queue-wide instruction.
	GlobalInstruction(ctx context.Context) (string, error)

	// EligibleIDs returns, in queue order, the IDs of all items whose status
	// makes them eligible for processing (idle or error). Callers snapshot
	// this once at run start; items enqueued afterwards are not picked up.
	EligibleIDs(ctx context.Context) ([]uuid.UUID, error)

	// MarkProcessing transitions an eligible item into processing status and
	// clears any previous error message.
	// Returns ErrItemNotFound if the item does not exist, ErrItemNotEligible
	// if its status is not idle or error, and ErrAlreadyProcessing if any
	// other item is currently in processing status.
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// MarkSuccess records a completed edit: stores the result bytes and
	// media type and transitions the item to success status.
	// Returns ErrItemNotFound if the item was removed while in flight.
	MarkSuccess(ctx context.Context, id uuid.UUID, result []byte, mediaType string) error

	// MarkError records a failed edit attempt: stores the user-facing
	// message and transitions the item to error status. The source image
	// and any custom instruction are retained so the item can be retried
	// in a later run.
	// Returns ErrItemNotFound if the item was removed while in flight.
	MarkError(ctx context.Context, id uuid.UUID, message string) error
}
