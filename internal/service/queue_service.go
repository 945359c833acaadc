package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/calref/retouch-api/internal/config"
	"github.com/calref/retouch-api/internal/domain"
	"github.com/calref/retouch-api/internal/store"
	"github.com/calref/retouch-api/internal/task"
)

// QueueServiceError is a custom error type for queue service errors.
type QueueServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for QueueServiceError.
func (e *QueueServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("queue service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("queue service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *QueueServiceError) Unwrap() error {
	return e.Err
}

// RunController is the slice of the processing runner the service needs.
type RunController interface {
	// Start begins a run over the currently eligible items. Returns false
	// without error when a run is already active.
	Start(ctx context.Context) (bool, error)

	// Cancel requests the active run stop at the next item boundary.
	Cancel()

	// Active reports whether a run is in flight.
	Active() bool

	// Progress returns a snapshot of the current or most recent run.
	Progress() task.Progress
}

// ResultExport is a finished edit packaged for download.
type ResultExport struct {
	FileName  string
	MediaType string
	Data      []byte
}

// acceptedMediaTypes are the upload formats the pipeline can decode.
var acceptedMediaTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// resultExtensions maps a result media type to a download file extension.
var resultExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// QueueService provides queue manipulation, run control, and result export.
type QueueService struct {
	store  store.QueueStore
	runner RunController
	cfg    config.QueueConfig
	logger *slog.Logger
}

// NewQueueService creates a QueueService with its dependencies.
func NewQueueService(
	queueStore store.QueueStore,
	runner RunController,
	cfg config.QueueConfig,
	logger *slog.Logger,
) *QueueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueService{
		store:  queueStore,
		runner: runner,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "queue_service")),
	}
}

// AddItem validates an upload and appends it to the queue. An empty media
// type is sniffed from the data.
func (s *QueueService) AddItem(ctx context.Context, fileName, mediaType string, data []byte) (*domain.QueueItem, error) {
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrUploadTooLarge, len(data), s.cfg.MaxUploadBytes)
	}

	// Multipart parts often arrive as application/octet-stream; trust the
	// bytes over the declared type.
	if !acceptedMediaTypes[mediaType] && len(data) > 0 {
		mediaType = http.DetectContentType(data)
	}
	if !acceptedMediaTypes[mediaType] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mediaType)
	}

	item, err := domain.NewQueueItem(fileName, mediaType, data)
	if err != nil {
		return nil, err
	}
	if err := s.store.Enqueue(ctx, item); err != nil {
		return nil, &QueueServiceError{Operation: "add", Message: "failed to enqueue item", Err: err}
	}

	s.logger.InfoContext(ctx, "item added to queue",
		slog.String("item_id", item.ID.String()),
		slog.String("file_name", item.FileName),
		slog.Int("bytes", len(data)))
	return item, nil
}

// ListItems returns all queue items in insertion order.
func (s *QueueService) ListItems(ctx context.Context) ([]*domain.QueueItem, error) {
	return s.store.List(ctx)
}

// GetItem returns one queue item by ID.
func (s *QueueService) GetItem(ctx context.Context, id uuid.UUID) (*domain.QueueItem, error) {
	return s.store.Get(ctx, id)
}

// RemoveItem deletes one queue item. Removing an in-flight item is allowed;
// its pending result is discarded when the edit call returns.
func (s *QueueService) RemoveItem(ctx context.Context, id uuid.UUID) error {
	return s.store.Remove(ctx, id)
}

// ClearQueue removes every item.
func (s *QueueService) ClearQueue(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// SetItemInstruction updates the per-item instruction text.
func (s *QueueService) SetItemInstruction(ctx context.Context, id uuid.UUID, instruction string) error {
	return s.store.SetCustomInstruction(ctx, id, instruction)
}

// SetGlobalInstruction replaces the queue-wide instruction.
func (s *QueueService) SetGlobalInstruction(ctx context.Context, instruction string) error {
	return s.store.SetGlobalInstruction(ctx, instruction)
}

// GlobalInstruction returns the queue-wide instruction.
func (s *QueueService) GlobalInstruction(ctx context.Context) (string, error) {
	return s.store.GlobalInstruction(ctx)
}

// StartRun begins processing the eligible items. Returns false when a run
// is already active.
func (s *QueueService) StartRun(ctx context.Context) (bool, error) {
	return s.runner.Start(ctx)
}

// CancelRun requests the active run stop at the next item boundary.
func (s *QueueService) CancelRun(ctx context.Context) {
	s.runner.Cancel()
	s.logger.InfoContext(ctx, "run cancel requested")
}

// RunStatus returns a snapshot of the current or most recent run.
func (s *QueueService) RunStatus() task.Progress {
	return s.runner.Progress()
}

// Result packages a successfully edited item for download. The download
// name keeps the upload's stem and appends an "-edited" suffix with an
// extension matching the result format.
func (s *QueueService) Result(ctx context.Context, id uuid.UUID) (*ResultExport, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ItemStatusSuccess || len(item.ResultImage) == 0 {
		return nil, store.ErrResultNotReady
	}

	return &ResultExport{
		FileName:  exportFileName(item.FileName, item.ResultMediaType),
		MediaType: item.ResultMediaType,
		Data:      item.ResultImage,
	}, nil
}

// Thumbnail renders a bounded preview of an item. Succeeded items preview
// their edit result; everything else previews the source upload.
func (s *QueueService) Thumbnail(ctx context.Context, id uuid.UUID) ([]byte, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	source := item.SourceImage
	if item.Status == domain.ItemStatusSuccess && len(item.ResultImage) > 0 {
		source = item.ResultImage
	}

	img, err := imaging.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThumbnailFailed, err)
	}

	edge := s.cfg.ThumbnailMaxEdge
	thumb := imaging.Fit(img, edge, edge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThumbnailFailed, err)
	}
	return buf.Bytes(), nil
}

// exportFileName derives the download name for an edited image from the
// upload's name and the result's media type.
func exportFileName(uploadName, resultMediaType string) string {
	stem := strings.TrimSuffix(uploadName, filepath.Ext(uploadName))
	if stem == "" {
		stem = "image"
	}
	ext, ok := resultExtensions[resultMediaType]
	if !ok {
		ext = ".png"
	}
	return stem + "-edited" + ext
}
