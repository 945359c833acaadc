// Package aspect selects the closest supported output aspect ratio for a
// source image. The generative image API only produces a fixed set of aspect
// ratios, so every source image is mapped to the nearest supported label
// before a request is assembled.
package aspect

import (
	"errors"
	"math"
)

// ErrInvalidDimensions is returned when the source dimensions are not
// positive finite numbers.
var ErrInvalidDimensions = errors.New("image dimensions must be positive")

// ratio pairs a supported output label with its numeric width/height value.
type ratio struct {
	Label string
	Value float64
}

// supported is the fixed, ordered set of output aspect ratios the API offers.
// Order matters: ties between equally distant candidates resolve to the
// earliest entry.
var supported = []ratio{
	{"1:1", 1.0},
	{"3:4", 0.75},
	{"4:3", 1.3333},
	{"9:16", 0.5625},
	{"16:9", 1.7778},
}

// Supported returns the labels of all supported output aspect ratios in their
// declared order.
func Supported() []string {
	labels := make([]string, len(supported))
	for i, r := range supported {
		labels[i] = r.Label
	}
	return labels
}

// Match returns the supported aspect-ratio label closest to width/height.
//
// The label whose value has the smallest absolute difference from the source
// ratio wins; a later candidate replaces an earlier one only when its
// difference is strictly smaller, so ties resolve deterministically to the
// first declared label. Returns ErrInvalidDimensions when either dimension is
// not a positive finite number.
func Match(width, height float64) (string, error) {
	if width <= 0 || height <= 0 ||
		math.IsNaN(width) || math.IsInf(width, 0) ||
		math.IsNaN(height) || math.IsInf(height, 0) {
		return "", ErrInvalidDimensions
	}

	source := width / height

	best := supported[0]
	bestDiff := math.Abs(source - best.Value)
	for _, candidate := range supported[1:] {
		if diff := math.Abs(source - candidate.Value); diff < bestDiff {
			best = candidate
			bestDiff = diff
		}
	}

	return best.Label, nil
}
