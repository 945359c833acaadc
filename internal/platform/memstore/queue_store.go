// Package memstore provides an in-memory implementation of the store
// interfaces. Queue state is scoped to the lifetime of the process; nothing
// is persisted across restarts.
package memstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/calref/retouch-api/internal/domain"
	"github.com/calref/retouch-api/internal/store"
)

// QueueStore is a mutex-guarded, ordered in-memory queue.
// It implements store.QueueStore and enforces the single-flight rule.
type QueueStore struct {
	mu                sync.Mutex
	order             []uuid.UUID
	items             map[uuid.UUID]*domain.QueueItem
	globalInstruction string
	logger            *slog.Logger
}

// Compile-time check that QueueStore satisfies the interface.
var _ store.QueueStore = (*QueueStore)(nil)

// NewQueueStore creates an empty in-memory queue store.
func NewQueueStore(logger *slog.Logger) *QueueStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueStore{
		items:  make(map[uuid.UUID]*domain.QueueItem),
		logger: logger.With(slog.String("component", "memstore")),
	}
}

// Enqueue appends a validated item to the end of the queue.
func (s *QueueStore) Enqueue(ctx context.Context, item *domain.QueueItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store our own copy so later caller mutations cannot corrupt queue state.
	s.items[item.ID] = item.Clone()
	s.order = append(s.order, item.ID)

	s.logger.DebugContext(ctx, "item enqueued",
		slog.String("item_id", item.ID.String()),
		slog.String("file_name", item.FileName),
		slog.Int("queue_length", len(s.order)))
	return nil
}

// Get returns a copy of the item with the given ID.
func (s *QueueStore) Get(_ context.Context, id uuid.UUID) (*domain.QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, store.ErrItemNotFound
	}
	return item.Clone(), nil
}

// List returns copies of all items in insertion order.
func (s *QueueStore) List(_ context.Context) ([]*domain.QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.QueueItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out, nil
}

// Remove deletes the item with the given ID, whatever its status.
func (s *QueueStore) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return store.ErrItemNotFound
	}
	if item.Status == domain.ItemStatusProcessing {
		s.logger.InfoContext(ctx, "removing in-flight item; pending result will be discarded",
			slog.String("item_id", id.String()))
	}

	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes every item from the queue.
func (s *QueueStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.order)
	s.items = make(map[uuid.UUID]*domain.QueueItem)
	s.order = nil

	s.logger.DebugContext(ctx, "queue cleared", slog.Int("removed", n))
	return nil
}

// SetCustomInstruction updates the per-item instruction on an idle or
// errored item.
func (s *QueueStore) SetCustomInstruction(_ context.Context, id uuid.UUID, instruction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return store.ErrItemNotFound
	}
	if !item.Status.Eligible() {
		return store.ErrItemNotEditable
	}

	item.CustomInstruction = instruction
	item.UpdatedAt = time.Now().UTC()
	return nil
}

// SetGlobalInstruction replaces the queue-wide instruction.
func (s *QueueStore) SetGlobalInstruction(_ context.Context, instruction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.globalInstruction = instruction
	return nil
}

// GlobalInstruction returns the queue-wide instruction.
func (s *QueueStore) GlobalInstruction(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.globalInstruction, nil
}

// EligibleIDs returns the IDs of idle and errored items in queue order.
func (s *QueueStore) EligibleIDs(_ context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []uuid.UUID
	for _, id := range s.order {
		if s.items[id].Status.Eligible() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// MarkProcessing transitions an eligible item to processing status. The
// single-flight rule is enforced here, under the same lock that performs
// the transition, so concurrent callers cannot both succeed.
func (s *QueueStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return store.ErrItemNotFound
	}
	if !item.Status.Eligible() {
		return store.ErrItemNotEligible
	}
	for _, other := range s.items {
		if other.Status == domain.ItemStatusProcessing {
			return store.ErrAlreadyProcessing
		}
	}

	item.Status = domain.ItemStatusProcessing
	item.ErrorMessage = ""
	item.UpdatedAt = time.Now().UTC()

	s.logger.DebugContext(ctx, "item marked processing", slog.String("item_id", id.String()))
	return nil
}

// MarkSuccess stores the edit result and transitions the item to success.
func (s *QueueStore) MarkSuccess(ctx context.Context, id uuid.UUID, result []byte, mediaType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return store.ErrItemNotFound
	}

	item.Status = domain.ItemStatusSuccess
	item.ResultImage = result
	item.ResultMediaType = mediaType
	item.ErrorMessage = ""
	item.UpdatedAt = time.Now().UTC()

	s.logger.DebugContext(ctx, "item marked success",
		slog.String("item_id", id.String()),
		slog.Int("result_bytes", len(result)))
	return nil
}

// MarkError records a failure message and transitions the item to error.
// The source image and custom instruction stay in place for a later retry.
func (s *QueueStore) MarkError(ctx context.Context, id uuid.UUID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return store.ErrItemNotFound
	}

	item.Status = domain.ItemStatusError
	item.ErrorMessage = message
	item.UpdatedAt = time.Now().UTC()

	s.logger.DebugContext(ctx, "item marked error",
		slog.String("item_id", id.String()),
		slog.String("message", message))
	return nil
}
