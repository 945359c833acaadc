package api

import (
	"errors"
	"net/http"

	"github.com/calref/retouch-api/internal/api/shared"
	"github.com/calref/retouch-api/internal/service"
	"github.com/calref/retouch-api/internal/task"
)

// RunHandler handles processing-run HTTP requests.
type RunHandler struct {
	queueService *service.QueueService
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(queueService *service.QueueService) *RunHandler {
	return &RunHandler{queueService: queueService}
}

// StartRun handles POST /api/runs requests. Both outcomes answer 202: a
// fresh run with started=true, and a request while a run is already active
// with started=false, making retries harmless.
func (h *RunHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	started, err := h.queueService.StartRun(r.Context())
	if err != nil {
		if errors.Is(err, task.ErrCredentialUnusable) {
			shared.RespondWithErrorAndLog(w, r,
				http.StatusConflict, GetSafeErrorMessage(err), err,
				shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err, "Failed to start run")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, StartRunResponse{Started: started})
}

// CancelRun handles POST /api/runs/cancel requests. Cancellation takes
// effect at the next item boundary; the in-flight edit still completes.
func (h *RunHandler) CancelRun(w http.ResponseWriter, r *http.Request) {
	h.queueService.CancelRun(r.Context())
	w.WriteHeader(http.StatusAccepted)
}

// GetRunStatus handles GET /api/runs/current requests.
func (h *RunHandler) GetRunStatus(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.queueService.RunStatus())
}
