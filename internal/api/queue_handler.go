package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/calref/retouch-api/internal/api/shared"
	"github.com/calref/retouch-api/internal/domain"
	"github.com/calref/retouch-api/internal/service"
)

// uploadFieldName is the multipart form field carrying the image files.
const uploadFieldName = "images"

// maxUploadFiles bounds how many images one enqueue request may carry.
const maxUploadFiles = 16

// QueueHandler handles queue-related HTTP requests.
type QueueHandler struct {
	queueService   *service.QueueService
	maxUploadBytes int64
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(queueService *service.QueueService, maxUploadBytes int64) *QueueHandler {
	return &QueueHandler{
		queueService:   queueService,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateItem handles POST /api/queue requests. The upload arrives as
// multipart form data with one or more files in the "images" field; an
// optional "instruction" field seeds each created item's custom instruction.
// On a mid-batch failure the items already enqueued stay in the queue.
func (h *QueueHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	// The per-file limit is enforced by the service; this caps the request
	// as a whole, with headroom for the non-file form fields.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes*maxUploadFiles+(64<<10))

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge,
				"Upload exceeds the request size limit")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed multipart form")
		return
	}

	files := r.MultipartForm.File[uploadFieldName]
	if len(files) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			fmt.Sprintf("Missing %q form field", uploadFieldName))
		return
	}
	if len(files) > maxUploadFiles {
		shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("At most %d files per request", maxUploadFiles))
		return
	}

	instruction := r.FormValue("instruction")

	created := make([]ItemResponse, 0, len(files))
	for _, header := range files {
		item, err := h.enqueueFile(r, header, instruction)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to add item to queue")
			return
		}
		created = append(created, itemToResponse(item))
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreatedItemsResponse{Items: created})
}

func (h *QueueHandler) enqueueFile(r *http.Request, header *multipart.FileHeader, instruction string) (*domain.QueueItem, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	item, err := h.queueService.AddItem(r.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		return nil, err
	}

	if instruction != "" {
		if err := h.queueService.SetItemInstruction(r.Context(), item.ID, instruction); err != nil {
			return nil, err
		}
		item.CustomInstruction = instruction
	}
	return item, nil
}

// ListItems handles GET /api/queue requests.
func (h *QueueHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.queueService.ListItems(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list queue")
		return
	}

	global, err := h.queueService.GlobalInstruction(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read global instruction")
		return
	}

	response := QueueResponse{
		Items:             make([]ItemResponse, 0, len(items)),
		Active:            h.queueService.RunStatus().Active,
		GlobalInstruction: global,
	}
	for _, item := range items {
		response.Items = append(response.Items, itemToResponse(item))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetItem handles GET /api/queue/{id} requests.
func (h *QueueHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.queueService.GetItem(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch item")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// DeleteItem handles DELETE /api/queue/{id} requests.
func (h *QueueHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.queueService.RemoveItem(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to remove item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearQueue handles DELETE /api/queue requests.
func (h *QueueHandler) ClearQueue(w http.ResponseWriter, r *http.Request) {
	if err := h.queueService.ClearQueue(r.Context()); err != nil {
		HandleAPIError(w, r, err, "Failed to clear queue")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateItemInstruction handles PUT /api/queue/{id}/instruction requests.
func (h *QueueHandler) UpdateItemInstruction(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateInstructionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.queueService.SetItemInstruction(r.Context(), id, *req.Instruction); err != nil {
		HandleAPIError(w, r, err, "Failed to update instruction")
		return
	}

	item, err := h.queueService.GetItem(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch item")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// UpdateGlobalInstruction handles PUT /api/instruction requests.
func (h *QueueHandler) UpdateGlobalInstruction(w http.ResponseWriter, r *http.Request) {
	var req UpdateInstructionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.queueService.SetGlobalInstruction(r.Context(), *req.Instruction); err != nil {
		HandleAPIError(w, r, err, "Failed to update instruction")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, InstructionResponse{Instruction: *req.Instruction})
}

// GetGlobalInstruction handles GET /api/instruction requests.
func (h *QueueHandler) GetGlobalInstruction(w http.ResponseWriter, r *http.Request) {
	instruction, err := h.queueService.GlobalInstruction(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch instruction")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, InstructionResponse{Instruction: instruction})
}

// GetResult handles GET /api/queue/{id}/result requests, streaming the
// edited image as a download.
func (h *QueueHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	export, err := h.queueService.Result(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export result")
		return
	}

	w.Header().Set("Content-Type", export.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Data); err != nil {
		// The response is already committed; nothing to send the client.
		return
	}
}

// GetThumbnail handles GET /api/queue/{id}/thumbnail requests. Succeeded
// items preview their result; everything else previews the upload.
func (h *QueueHandler) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	thumb, err := h.queueService.Thumbnail(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to render thumbnail")
		return
	}

	w.Header().Set("Content-Type", domain.DefaultMediaType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(thumb)
}
