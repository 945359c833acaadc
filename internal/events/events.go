package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the queue processor.
const (
	TypeRunStarted  = "run.started"
	TypeRunFinished = "run.finished"
	TypeRunAborted  = "run.aborted"
	TypeRunCanceled = "run.canceled"

	TypeItemProcessing = "item.processing"
	TypeItemSuccess    = "item.success"
	TypeItemError      = "item.error"
	TypeItemSkipped    = "item.skipped"
)

// Event represents one run or item lifecycle transition. The payload is
// event-type specific and serialized as JSON so handlers stay independent
// of the processor's internal types.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants above
	Type string `json:"type"`

	// Payload contains the transition-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event with the given type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// Handler defines an interface for components that consume events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// Emitter defines an interface for components that publish events.
// This allows the processor to announce transitions without direct
// knowledge of handlers.
type Emitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
