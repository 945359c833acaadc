package editing

import (
	"bytes"
	"fmt"
	"image"

	// Register the decoders for the upload formats the queue accepts so
	// image.DecodeConfig can probe pixel dimensions.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/calref/retouch-api/internal/domain"
	"github.com/calref/retouch-api/internal/domain/aspect"
)

// ResolutionTierMax is the highest output resolution tier the image service
// offers. Every request uses it: batch edits routinely carry embedded text,
// which is only legible at the top tier.
const ResolutionTierMax = "4K"

// BuildRequest assembles the outbound edit request for one queue item.
//
// It probes the source image's pixel dimensions to match a supported output
// aspect ratio, composes the instruction text (global instruction first,
// then the item's custom instruction), and stamps the fixed maximum
// resolution tier. Returns an error wrapping ErrImageDecode when the source
// bytes cannot be decoded; the caller treats that as a per-item failure, not
// a run-level one.
func BuildRequest(item *domain.QueueItem, globalInstruction string) (*EditRequest, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(item.SourceImage))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	ratio, err := aspect.Match(float64(cfg.Width), float64(cfg.Height))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	mediaType := item.MediaType
	if mediaType == "" {
		mediaType = domain.DefaultMediaType
	}

	return &EditRequest{
		ImageData:      item.SourceImage,
		MediaType:      mediaType,
		Instruction:    ComposeInstruction(globalInstruction, item.CustomInstruction),
		AspectRatio:    ratio,
		ResolutionTier: ResolutionTierMax,
	}, nil
}

// ComposeInstruction joins the run-wide global instruction with an item's
// custom instruction, global text first. The custom part may be empty.
func ComposeInstruction(global, custom string) string {
	return global + " " + custom
}
