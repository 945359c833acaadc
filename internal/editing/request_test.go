package editing

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calref/retouch-api/internal/domain"
)

// encodePNG renders a blank PNG with the given pixel dimensions.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBuildRequest(t *testing.T) {
	t.Parallel()

	item, err := domain.NewQueueItem("portrait.png", "image/png", encodePNG(t, 1080, 1920))
	require.NoError(t, err)
	item.CustomInstruction = "warm the skin tones"

	req, err := BuildRequest(item, "Remove the background.")
	require.NoError(t, err)

	assert.Equal(t, item.SourceImage, req.ImageData)
	assert.Equal(t, "image/png", req.MediaType)
	assert.Equal(t, "Remove the background. warm the skin tones", req.Instruction)
	assert.Equal(t, "9:16", req.AspectRatio)
	assert.Equal(t, ResolutionTierMax, req.ResolutionTier)
}

func TestBuildRequestAspectRatios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		width  int
		height int
		want   string
	}{
		{"square", 1000, 1000, "1:1"},
		{"landscape", 1920, 1080, "16:9"},
		{"portrait", 1080, 1920, "9:16"},
		{"classic landscape", 800, 600, "4:3"},
		{"classic portrait", 600, 800, "3:4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			item, err := domain.NewQueueItem("photo.png", "image/png", encodePNG(t, tt.width, tt.height))
			require.NoError(t, err)

			req, err := BuildRequest(item, "sharpen")
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.AspectRatio)
		})
	}
}

func TestBuildRequestUndecodableImage(t *testing.T) {
	t.Parallel()

	item, err := domain.NewQueueItem("broken.png", "image/png", []byte("not an image"))
	require.NoError(t, err)

	req, err := BuildRequest(item, "sharpen")
	assert.Nil(t, req)
	assert.ErrorIs(t, err, ErrImageDecode)
}

func TestBuildRequestDefaultsMediaType(t *testing.T) {
	t.Parallel()

	item, err := domain.NewQueueItem("photo.png", "", encodePNG(t, 100, 100))
	require.NoError(t, err)
	// NewQueueItem already defaults this; guard against a stored blank too.
	item.MediaType = ""

	req, err := BuildRequest(item, "sharpen")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMediaType, req.MediaType)
}

func TestComposeInstruction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "global custom", ComposeInstruction("global", "custom"))
	assert.Equal(t, "global ", ComposeInstruction("global", ""))
	assert.Equal(t, " custom", ComposeInstruction("", "custom"))
}
