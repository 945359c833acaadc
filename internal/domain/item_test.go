package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calref/retouch-api/internal/domain"
)

func TestNewQueueItem(t *testing.T) {
	t.Parallel()

	t.Run("creates idle item with declared media type", func(t *testing.T) {
		t.Parallel()

		item, err := domain.NewQueueItem("vacation.jpg", "image/jpeg", []byte{0x01, 0x02})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, "vacation.jpg", item.FileName)
		assert.Equal(t, "image/jpeg", item.MediaType)
		assert.Equal(t, domain.ItemStatusIdle, item.Status)
		assert.Empty(t, item.ErrorMessage)
		assert.Nil(t, item.ResultImage)
		assert.False(t, item.CreatedAt.IsZero())
	})

	t.Run("defaults media type when none declared", func(t *testing.T) {
		t.Parallel()

		item, err := domain.NewQueueItem("scan", "", []byte{0x01})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultMediaType, item.MediaType)
	})

	t.Run("rejects empty source image", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewQueueItem("empty.png", "image/png", nil)
		assert.ErrorIs(t, err, domain.ErrItemSourceEmpty)
	})

	t.Run("rejects empty file name", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewQueueItem("", "image/png", []byte{0x01})
		assert.ErrorIs(t, err, domain.ErrItemFileNameEmpty)
	})
}

func TestQueueItemValidate(t *testing.T) {
	t.Parallel()

	item, err := domain.NewQueueItem("a.png", "image/png", []byte{0x01})
	require.NoError(t, err)

	item.Status = domain.ItemStatus("archived")
	assert.ErrorIs(t, item.Validate(), domain.ErrItemStatusInvalid)

	item.Status = domain.ItemStatusIdle
	item.ID = uuid.Nil
	assert.ErrorIs(t, item.Validate(), domain.ErrItemIDEmpty)
}

func TestItemStatusEligible(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.ItemStatusIdle.Eligible())
	assert.True(t, domain.ItemStatusError.Eligible())
	assert.False(t, domain.ItemStatusProcessing.Eligible())
	assert.False(t, domain.ItemStatusSuccess.Eligible())
}

func TestQueueItemClone(t *testing.T) {
	t.Parallel()

	item, err := domain.NewQueueItem("a.png", "image/png", []byte{0x01})
	require.NoError(t, err)

	clone := item.Clone()
	clone.Status = domain.ItemStatusProcessing
	clone.CustomInstruction = "make it pop"

	assert.Equal(t, domain.ItemStatusIdle, item.Status)
	assert.Empty(t, item.CustomInstruction)
}
