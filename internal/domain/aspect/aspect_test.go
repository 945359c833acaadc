package aspect

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		width  float64
		height float64
		want   string
	}{
		{name: "square", width: 1000, height: 1000, want: "1:1"},
		{name: "full HD landscape", width: 1920, height: 1080, want: "16:9"},
		{name: "full HD portrait", width: 1080, height: 1920, want: "9:16"},
		{name: "classic monitor", width: 800, height: 600, want: "4:3"},
		{name: "classic portrait", width: 600, height: 800, want: "3:4"},
		{name: "near square leans square", width: 1024, height: 1000, want: "1:1"},
		{name: "ultrawide clamps to 16:9", width: 3440, height: 1440, want: "16:9"},
		{name: "tall strip clamps to 9:16", width: 500, height: 2000, want: "9:16"},
		{name: "tiny dimensions", width: 3, height: 4, want: "3:4"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Match(tc.width, tc.height)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatch_TieResolvesToEarliestLabel(t *testing.T) {
	t.Parallel()

	// 0.875 sits exactly halfway between 1:1 (1.0) and 3:4 (0.75).
	// The first declared label must win.
	got, err := Match(875, 1000)
	require.NoError(t, err)
	assert.Equal(t, "1:1", got)
}

func TestMatch_InvalidDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		width  float64
		height float64
	}{
		{name: "zero height", width: 100, height: 0},
		{name: "zero width", width: 0, height: 100},
		{name: "negative width", width: -100, height: 100},
		{name: "negative height", width: 100, height: -100},
		{name: "NaN width", width: math.NaN(), height: 100},
		{name: "infinite height", width: 100, height: math.Inf(1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Match(tc.width, tc.height)
			assert.ErrorIs(t, err, ErrInvalidDimensions)
		})
	}
}

func TestSupported(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"1:1", "3:4", "4:3", "9:16", "16:9"}, Supported())
}
