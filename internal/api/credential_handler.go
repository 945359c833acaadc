package api

import (
	"net/http"

	"github.com/calref/retouch-api/internal/api/shared"
	"github.com/calref/retouch-api/internal/service/credential"
)

// CredentialHandler handles API-key state requests. The key itself is
// write-only: responses report configuration and usability, never the value.
type CredentialHandler struct {
	creds *credential.State
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(creds *credential.State) *CredentialHandler {
	return &CredentialHandler{creds: creds}
}

// GetCredential handles GET /api/credential requests. Clients poll this to
// learn that a mid-run rejection invalidated the key.
func (h *CredentialHandler) GetCredential(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, CredentialResponse{
		Configured: h.creds.APIKey() != "",
		Usable:     h.creds.Usable(),
	})
}

// UpdateCredential handles PUT /api/credential requests, replacing the key
// and restoring usability.
func (h *CredentialHandler) UpdateCredential(w http.ResponseWriter, r *http.Request) {
	var req UpdateCredentialRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	h.creds.Set(req.APIKey)
	shared.RespondWithJSON(w, r, http.StatusOK, CredentialResponse{
		Configured: true,
		Usable:     h.creds.Usable(),
	})
}
