package renderer

import "errors"

var (
	// ErrInvalidResolution is returned for non-positive image dimensions
	ErrInvalidResolution = errors.New("renderer: invalid resolution")

	// ErrResolutionTooLarge is returned when the frame buffers would exceed the configured pixel budget
	ErrResolutionTooLarge = errors.New("renderer: resolution too large")

	// ErrNoScene is returned when rendering is started without a scene
	ErrNoScene = errors.New("renderer: no scene")
)
