package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Item-specific validation errors
var (
	// ErrItemIDEmpty is returned when a queue item ID is empty or nil.
	ErrItemIDEmpty = errors.New("queue item ID cannot be empty")

	// ErrItemSourceEmpty is returned when a queue item has no source image bytes.
	ErrItemSourceEmpty = errors.New("queue item source image cannot be empty")

	// ErrItemFileNameEmpty is returned when a queue item has no original file name.
	ErrItemFileNameEmpty = errors.New("queue item file name cannot be empty")

	// ErrItemStatusInvalid is returned when a queue item carries an unknown status.
	ErrItemStatusInvalid = errors.New("invalid queue item status")
)

// ItemStatus represents the lifecycle state of a queue item.
type ItemStatus string

// Possible item status values. The lifecycle is
// idle -> processing -> {success, error}, with error -> processing on
// resubmission. Success is terminal.
const (
	ItemStatusIdle       ItemStatus = "idle"
	ItemStatusProcessing ItemStatus = "processing"
	ItemStatusSuccess    ItemStatus = "success"
	ItemStatusError      ItemStatus = "error"
)

// IsValid reports whether the status is one of the known values.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusIdle, ItemStatusProcessing, ItemStatusSuccess, ItemStatusError:
		return true
	}
	return false
}

// Eligible reports whether an item in this status may be picked up by a run.
// Only idle and error items are eligible; success is terminal and processing
// means a run already owns the item.
func (s ItemStatus) Eligible() bool {
	return s == ItemStatusIdle || s == ItemStatusError
}

// DefaultMediaType is assumed for uploads that do not declare a media type.
const DefaultMediaType = "image/png"

// QueueItem represents one unit of batch image-edit work and its lifecycle
// state. SourceImage is immutable after creation; ResultImage is set exactly
// once, when the item reaches success.
type QueueItem struct {
	ID                uuid.UUID  `json:"id"`
	FileName          string     `json:"file_name"`
	MediaType         string     `json:"media_type"`
	SourceImage       []byte     `json:"-"`
	Status            ItemStatus `json:"status"`
	CustomInstruction string     `json:"custom_instruction,omitempty"`
	ResultImage       []byte     `json:"-"`
	ResultMediaType   string     `json:"result_media_type,omitempty"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewQueueItem creates a new QueueItem in the idle state with the given
// original file name, declared media type, and source image bytes. An empty
// media type falls back to DefaultMediaType. Returns an error if validation
// fails.
func NewQueueItem(fileName, mediaType string, source []byte) (*QueueItem, error) {
	if mediaType == "" {
		mediaType = DefaultMediaType
	}

	now := time.Now().UTC()
	item := &QueueItem{
		ID:          uuid.New(),
		FileName:    fileName,
		MediaType:   mediaType,
		SourceImage: source,
		Status:      ItemStatusIdle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the QueueItem has valid data.
// Returns an error if any field fails validation.
func (i *QueueItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if i.FileName == "" {
		return ErrItemFileNameEmpty
	}

	if len(i.SourceImage) == 0 {
		return ErrItemSourceEmpty
	}

	if !i.Status.IsValid() {
		return ErrItemStatusInvalid
	}

	return nil
}

// Clone returns a copy of the item. Image byte slices share the original
// backing arrays; they are never mutated in place, so sharing is safe and
// avoids copying potentially large payloads on every snapshot.
func (i *QueueItem) Clone() *QueueItem {
	c := *i
	return &c
}
