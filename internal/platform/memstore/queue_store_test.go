package memstore

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calref/retouch-api/internal/domain"
	"github.com/calref/retouch-api/internal/store"
)

func newTestStore() *QueueStore {
	return NewQueueStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustEnqueue(t *testing.T, s *QueueStore, fileName string) *domain.QueueItem {
	t.Helper()

	item, err := domain.NewQueueItem(fileName, "image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	require.NoError(t, s.Enqueue(context.Background(), item))
	return item
}

func TestEnqueueAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()

	first := mustEnqueue(t, s, "a.png")
	second := mustEnqueue(t, s, "b.png")

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
	assert.Equal(t, domain.ItemStatusIdle, items[0].Status)
}

func TestEnqueueRejectsInvalidItem(t *testing.T) {
	t.Parallel()
	s := newTestStore()

	err := s.Enqueue(context.Background(), &domain.QueueItem{ID: uuid.New()})
	assert.Error(t, err)
}

func TestGetReturnsCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()
	item := mustEnqueue(t, s, "a.png")

	got, err := s.Get(ctx, item.ID)
	require.NoError(t, err)

	// Mutating the returned copy must not leak into stored state.
	got.CustomInstruction = "scribbled on"

	again, err := s.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, again.CustomInstruction)
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore()

	_, err := s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()
	first := mustEnqueue(t, s, "a.png")
	second := mustEnqueue(t, s, "b.png")

	require.NoError(t, s.Remove(ctx, first.ID))

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)

	assert.ErrorIs(t, s.Remove(ctx, first.ID), store.ErrItemNotFound)
}

func TestClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()
	mustEnqueue(t, s, "a.png")
	mustEnqueue(t, s, "b.png")

	require.NoError(t, s.Clear(ctx))

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSetCustomInstruction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()
	item := mustEnqueue(t, s, "a.png")

	require.NoError(t, s.SetCustomInstruction(ctx, item.ID, "brighten"))

	got, err := s.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "brighten", got.CustomInstruction)
}

func TestSetCustomInstructionStatusRules(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()
	item := mustEnqueue(t, s, "a.png")

	require.NoError(t, s.MarkProcessing(ctx, item.ID))
	assert.ErrorIs(t, s.SetCustomInstruction(ctx, item.ID, "x"), store.ErrItemNotEditable)

	require.NoError(t, s.MarkSuccess(ctx, item.ID, []byte{1}, "image/png"))
	assert.ErrorIs(t, s.SetCustomInstruction(ctx, item.ID, "x"), store.ErrItemNotEditable)

	// Errored items can be re-instructed before a retry.
	errored := mustEnqueue(t, s, "b.png")
	require.NoError(t, s.MarkProcessing(ctx, errored.ID))
	require.NoError(t, s.MarkError(ctx, errored.ID, "generation failed"))
	assert.NoError(t, s.SetCustomInstruction(ctx, errored.ID, "try harder"))
}

func TestGlobalInstruction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()

	got, err := s.GlobalInstruction(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.SetGlobalInstruction(ctx, "Remove the background."))

	got, err = s.GlobalInstruction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Remove the background.", got)
}

func TestEligibleIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()
	first := mustEnqueue(t, s, "a.png")
	second := mustEnqueue(t, s, "b.png")
	third := mustEnqueue(t, s, "c.png")

	// Succeeded items are skipped; errored items remain eligible.
	require.NoError(t, s.MarkProcessing(ctx, first.ID))
	require.NoError(t, s.MarkSuccess(ctx, first.ID, []byte{1}, "image/png"))
	require.NoError(t, s.MarkProcessing(ctx, second.ID))
	require.NoError(t, s.MarkError(ctx, second.ID, "generation failed"))

	ids, err := s.EligibleIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID, third.ID}, ids)
}

func TestMarkProcessingSingleFlight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()
	first := mustEnqueue(t, s, "a.png")
	second := mustEnqueue(t, s, "b.png")

	require.NoError(t, s.MarkProcessing(ctx, first.ID))
	assert.ErrorIs(t, s.MarkProcessing(ctx, second.ID), store.ErrAlreadyProcessing)

	// Finishing the in-flight item frees the slot.
	require.NoError(t, s.MarkSuccess(ctx, first.ID, []byte{1}, "image/png"))
	assert.NoError(t, s.MarkProcessing(ctx, second.ID))
}

func TestMarkProcessingEligibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()
	item := mustEnqueue(t, s, "a.png")

	require.NoError(t, s.MarkProcessing(ctx, item.ID))
	require.NoError(t, s.MarkSuccess(ctx, item.ID, []byte{1}, "image/png"))

	assert.ErrorIs(t, s.MarkProcessing(ctx, item.ID), store.ErrItemNotEligible)
	assert.ErrorIs(t, s.MarkProcessing(ctx, uuid.New()), store.ErrItemNotFound)
}

func TestMarkProcessingClearsErrorMessage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()
	item := mustEnqueue(t, s, "a.png")

	require.NoError(t, s.MarkProcessing(ctx, item.ID))
	require.NoError(t, s.MarkError(ctx, item.ID, "generation failed"))
	require.NoError(t, s.MarkProcessing(ctx, item.ID))

	got, err := s.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ErrorMessage)
	assert.Equal(t, domain.ItemStatusProcessing, got.Status)
}

func TestMarkSuccessStoresResult(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()
	item := mustEnqueue(t, s, "a.png")

	require.NoError(t, s.MarkProcessing(ctx, item.ID))
	require.NoError(t, s.MarkSuccess(ctx, item.ID, []byte{0xCA, 0xFE}, "image/png"))

	got, err := s.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusSuccess, got.Status)
	assert.Equal(t, []byte{0xCA, 0xFE}, got.ResultImage)
	assert.Equal(t, "image/png", got.ResultMediaType)
}

func TestMarkAfterRemoval(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore()
	item := mustEnqueue(t, s, "a.png")

	require.NoError(t, s.MarkProcessing(ctx, item.ID))
	require.NoError(t, s.Remove(ctx, item.ID))

	assert.ErrorIs(t, s.MarkSuccess(ctx, item.ID, []byte{1}, "image/png"), store.ErrItemNotFound)
	assert.ErrorIs(t, s.MarkError(ctx, item.ID, "generation failed"), store.ErrItemNotFound)

	// The single-flight slot is freed by the removal.
	next := mustEnqueue(t, s, "b.png")
	assert.NoError(t, s.MarkProcessing(ctx, next.ID))
}
