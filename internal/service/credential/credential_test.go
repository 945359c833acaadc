package credential

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestState(key string) *State {
	return NewState(key, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewState(t *testing.T) {
	t.Parallel()

	s := newTestState("key-123")
	assert.True(t, s.Usable())
	assert.Equal(t, "key-123", s.APIKey())

	empty := newTestState("")
	assert.False(t, empty.Usable())
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	s := newTestState("key-123")
	s.Invalidate()

	assert.False(t, s.Usable())
	// The rejected key remains visible for diagnostics.
	assert.Equal(t, "key-123", s.APIKey())

	// Invalidating twice is a no-op.
	s.Invalidate()
	assert.False(t, s.Usable())
}

func TestSetRestoresUsability(t *testing.T) {
	t.Parallel()

	s := newTestState("key-123")
	s.Invalidate()

	s.Set("key-456")
	assert.True(t, s.Usable())
	assert.Equal(t, "key-456", s.APIKey())

	s.Set("")
	assert.False(t, s.Usable())
}
