package api

import (
	"time"

	"github.com/calref/retouch-api/internal/domain"
)

// ItemResponse represents one queue item in API responses. Image bytes are
// never inlined; clients fetch them through the result and thumbnail
// endpoints.
type ItemResponse struct {
	ID                string    `json:"id"`
	FileName          string    `json:"file_name"`
	MediaType         string    `json:"media_type"`
	Status            string    `json:"status"`
	CustomInstruction string    `json:"custom_instruction,omitempty"`
	ErrorMessage      string    `json:"error_message,omitempty"`
	HasResult         bool      `json:"has_result"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// QueueResponse wraps the full queue listing together with the run-active
// flag and the queue-wide instruction, so one poll refreshes the whole view.
type QueueResponse struct {
	Items             []ItemResponse `json:"items"`
	Active            bool           `json:"active"`
	GlobalInstruction string         `json:"global_instruction"`
}

// CreatedItemsResponse lists the items created by one enqueue request.
type CreatedItemsResponse struct {
	Items []ItemResponse `json:"items"`
}

// UpdateInstructionRequest is the body for per-item and global instruction
// updates. An empty string clears the instruction.
type UpdateInstructionRequest struct {
	Instruction *string `json:"instruction" validate:"required"`
}

// InstructionResponse returns the queue-wide instruction.
type InstructionResponse struct {
	Instruction string `json:"instruction"`
}

// StartRunResponse reports whether a processing run was started.
type StartRunResponse struct {
	Started bool `json:"started"`
}

// CredentialResponse describes the credential state without echoing the key.
type CredentialResponse struct {
	Configured bool `json:"configured"`
	Usable     bool `json:"usable"`
}

// UpdateCredentialRequest replaces the upstream API key.
type UpdateCredentialRequest struct {
	APIKey string `json:"api_key" validate:"required,min=1"`
}

// itemToResponse converts a domain.QueueItem to an ItemResponse.
func itemToResponse(item *domain.QueueItem) ItemResponse {
	return ItemResponse{
		ID:                item.ID.String(),
		FileName:          item.FileName,
		MediaType:         item.MediaType,
		Status:            string(item.Status),
		CustomInstruction: item.CustomInstruction,
		ErrorMessage:      item.ErrorMessage,
		HasResult:         len(item.ResultImage) > 0,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}
