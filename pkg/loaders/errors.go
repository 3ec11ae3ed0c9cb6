package loaders

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for mesh files with an unknown extension or encoding
	ErrUnsupportedFormat = errors.New("loaders: unsupported format")

	// ErrMalformedMesh is returned when a mesh file cannot be parsed
	ErrMalformedMesh = errors.New("loaders: malformed mesh")
)

// malformed reports a parse problem at a 1-based line, or without position when line is 0
func malformed(format string, line int, msg string, args ...interface{}) error {
	if line > 0 {
		return fmt.Errorf("%s line %d: %s: %w", format, line, fmt.Sprintf(msg, args...), ErrMalformedMesh)
	}
	return fmt.Errorf("%s: %s: %w", format, fmt.Sprintf(msg, args...), ErrMalformedMesh)
}
