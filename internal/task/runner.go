package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/calref/retouch-api/internal/editing"
	"github.com/calref/retouch-api/internal/events"
	"github.com/calref/retouch-api/internal/service/credential"
	"github.com/calref/retouch-api/internal/store"
)

// Errors returned by Start.
var (
	// ErrCredentialUnusable is returned when no usable API key is available.
	// A new key must be supplied before another run can start.
	ErrCredentialUnusable = errors.New("credential is not usable")

	// ErrNoEligibleItems is returned when the queue holds nothing in idle or
	// error status at the moment a run is requested.
	ErrNoEligibleItems = errors.New("no eligible items in queue")
)

// decodeFailureMessage is recorded on an item whose source bytes could not
// be probed for dimensions before any API call was made.
const decodeFailureMessage = "Could not decode the source image."

// Progress is a point-in-time snapshot of the current or most recent run.
type Progress struct {
	Active          bool       `json:"active"`
	Total           int        `json:"total"`
	Processed       int        `json:"processed"`
	CurrentItemID   *uuid.UUID `json:"current_item_id,omitempty"`
	CancelRequested bool       `json:"cancel_requested"`
}

// SequentialRunner processes the edit queue one item at a time.
//
// A run snapshots the eligible item IDs and the global instruction once at
// start; items enqueued or edited afterwards wait for the next run. The
// store enforces that only one item is ever in processing status, and the
// runner itself refuses to start while a run is active, so edits are
// strictly sequential.
type SequentialRunner struct {
	store   store.QueueStore
	editor  editing.Editor
	creds   *credential.State
	emitter events.Emitter
	logger  *slog.Logger

	mu       sync.Mutex
	active   bool
	canceled bool
	cancel   context.CancelFunc
	progress Progress
	done     chan struct{}
}

// NewSequentialRunner wires a runner to its collaborators. The emitter may
// be nil when no observers are interested in run events.
func NewSequentialRunner(
	queueStore store.QueueStore,
	editor editing.Editor,
	creds *credential.State,
	emitter events.Emitter,
	logger *slog.Logger,
) *SequentialRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &SequentialRunner{
		store:   queueStore,
		editor:  editor,
		creds:   creds,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "sequential_runner")),
	}
}

// Start begins a run over the items currently eligible, processing them in
// the background. It returns false without error when a run is already
// active, making repeated start requests harmless. The run detaches from
// the caller's context; only Stop or process shutdown interrupts it
// mid-item.
func (r *SequentialRunner) Start(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return false, nil
	}
	if !r.creds.Usable() {
		return false, ErrCredentialUnusable
	}

	ids, err := r.store.EligibleIDs(ctx)
	if err != nil {
		return false, err
	}
	if len(ids) == 0 {
		return false, ErrNoEligibleItems
	}

	global, err := r.store.GlobalInstruction(ctx)
	if err != nil {
		return false, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.active = true
	r.canceled = false
	r.cancel = cancel
	r.done = make(chan struct{})
	r.progress = Progress{Active: true, Total: len(ids)}

	go r.run(runCtx, ids, global)
	return true, nil
}

// Cancel requests that the active run stop at the next item boundary. The
// in-flight edit, if any, is allowed to finish and its result is recorded.
// Cancel is a no-op when no run is active.
func (r *SequentialRunner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active || r.canceled {
		return
	}
	r.canceled = true
	r.progress.CancelRequested = true
	r.logger.Info("run cancellation requested")
}

// Stop aborts any active run, interrupting the in-flight edit call, and
// waits for the run goroutine to exit. Used on server shutdown.
func (r *SequentialRunner) Stop() {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return
	}
	r.canceled = true
	r.progress.CancelRequested = true
	r.cancel()
	done := r.done
	r.mu.Unlock()

	<-done
}

// Active reports whether a run is currently in flight.
func (r *SequentialRunner) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Progress returns a snapshot of the current or most recent run.
func (r *SequentialRunner) Progress() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// cancelRequested reports whether the run should stop before the next item.
func (r *SequentialRunner) cancelRequested(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canceled
}

func (r *SequentialRunner) setCurrentItem(id *uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.CurrentItemID = id
}

func (r *SequentialRunner) incrementProcessed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.Processed++
}

func (r *SequentialRunner) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = false
	r.progress.Active = false
	r.progress.CurrentItemID = nil
	r.cancel()
	close(r.done)
}

// run walks the snapshotted IDs in order. It exits early when canceled at
// an item boundary or when the credential is rejected mid-run.
func (r *SequentialRunner) run(ctx context.Context, ids []uuid.UUID, globalInstruction string) {
	defer r.finish()

	r.logger.InfoContext(ctx, "run started", slog.Int("eligible", len(ids)))
	r.emit(ctx, events.TypeRunStarted, map[string]int{"eligible": len(ids)})

	for _, id := range ids {
		if r.cancelRequested(ctx) {
			r.logger.InfoContext(ctx, "run canceled at item boundary",
				slog.Int("processed", r.Progress().Processed))
			r.emit(ctx, events.TypeRunCanceled, r.Progress())
			return
		}

		if aborted := r.processItem(ctx, id, globalInstruction); aborted {
			r.emit(ctx, events.TypeRunAborted, r.Progress())
			return
		}
		r.incrementProcessed()
	}

	r.logger.InfoContext(ctx, "run finished", slog.Int("processed", r.Progress().Processed))
	r.emit(ctx, events.TypeRunFinished, r.Progress())
}

// processItem performs one edit attempt. It returns true when the run must
// abort because the upstream service rejected the credential.
func (r *SequentialRunner) processItem(ctx context.Context, id uuid.UUID, globalInstruction string) (aborted bool) {
	logger := r.logger.With(slog.String("item_id", id.String()))

	item, err := r.store.Get(ctx, id)
	if err != nil {
		// Removed since the snapshot was taken.
		logger.InfoContext(ctx, "skipping item no longer in queue")
		r.emit(ctx, events.TypeItemSkipped, map[string]string{"item_id": id.String()})
		return false
	}

	if err := r.store.MarkProcessing(ctx, id); err != nil {
		logger.WarnContext(ctx, "item not markable, skipping", slog.Any("error", err))
		r.emit(ctx, events.TypeItemSkipped, map[string]string{"item_id": id.String()})
		return false
	}
	r.setCurrentItem(&id)
	defer r.setCurrentItem(nil)
	r.emit(ctx, events.TypeItemProcessing, map[string]string{"item_id": id.String()})

	req, err := editing.BuildRequest(item, globalInstruction)
	if err != nil {
		logger.WarnContext(ctx, "request build failed", slog.Any("error", err))
		r.recordError(ctx, logger, id, decodeFailureMessage)
		return false
	}

	result, err := r.editor.EditImage(ctx, req)
	if err != nil {
		category := editing.Classify(err)
		logger.ErrorContext(ctx, "edit attempt failed",
			slog.String("category", string(category)),
			slog.Any("error", err))

		r.recordError(ctx, logger, id, category.Message())

		if category.Fatal() {
			// The key is dead; every further call would fail the same way.
			r.creds.Invalidate()
			logger.ErrorContext(ctx, "credential rejected, aborting run")
			return true
		}
		return false
	}

	if err := r.store.MarkSuccess(ctx, id, result.Data, result.MediaType); err != nil {
		// Item removed while its edit was in flight; drop the result.
		logger.DebugContext(ctx, "item removed mid-flight, result discarded")
		r.emit(ctx, events.TypeItemSkipped, map[string]string{"item_id": id.String()})
		return false
	}

	logger.InfoContext(ctx, "item edited", slog.Int("result_bytes", len(result.Data)))
	r.emit(ctx, events.TypeItemSuccess, map[string]string{"item_id": id.String()})
	return false
}

// recordError marks the item failed, tolerating mid-flight removal.
func (r *SequentialRunner) recordError(ctx context.Context, logger *slog.Logger, id uuid.UUID, message string) {
	if err := r.store.MarkError(ctx, id, message); err != nil {
		logger.DebugContext(ctx, "item removed mid-flight, error not recorded")
		r.emit(ctx, events.TypeItemSkipped, map[string]string{"item_id": id.String()})
		return
	}
	r.emit(ctx, events.TypeItemError, map[string]string{
		"item_id": id.String(),
		"message": message,
	})
}

// emit publishes a run event, tolerating a nil emitter and handler errors.
func (r *SequentialRunner) emit(ctx context.Context, eventType string, payload interface{}) {
	if r.emitter == nil {
		return
	}
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to build event",
			slog.String("event_type", eventType), slog.Any("error", err))
		return
	}
	if err := r.emitter.EmitEvent(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "event handler error",
			slog.String("event_type", eventType), slog.Any("error", err))
	}
}
