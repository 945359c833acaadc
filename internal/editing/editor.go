package editing

import "context"

// EditRequest is the fully assembled payload for one outbound image-edit
// call. Build it with BuildRequest; the fields are exactly what the external
// service contract needs and nothing else.
type EditRequest struct {
	// ImageData holds the source image bytes to edit.
	ImageData []byte

	// MediaType is the declared media type of ImageData.
	MediaType string

	// Instruction is the composed instruction text: the run's global
	// instruction followed by the item's custom instruction.
	Instruction string

	// AspectRatio is the supported output aspect-ratio label matched to the
	// source image's pixel dimensions.
	AspectRatio string

	// ResolutionTier is the requested output resolution tier.
	ResolutionTier string
}

// EditedImage is the service's successful output for one request.
type EditedImage struct {
	// Data holds the edited image bytes, ready for display or download.
	Data []byte

	// MediaType is the media type the service returned the image in.
	MediaType string
}

// Editor defines the interface for submitting one image-edit request to an
// external generative service. This interface serves as a boundary between
// the application core and the external API, following the hexagonal
// architecture pattern.
//
// Implementations must issue exactly one call per invocation: the sequential
// run loop relies on EditImage not returning until the request has fully
// resolved. EditImage returns ErrNoImageGenerated when the service responds
// without an extractable image, and wraps other failures in the package's
// sentinel errors where they can be recognized.
type Editor interface {
	EditImage(ctx context.Context, req *EditRequest) (*EditedImage, error)
}
