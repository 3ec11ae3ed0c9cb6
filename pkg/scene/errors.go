package scene

import "errors"

var (
	// ErrVertexIndexOutOfRange is returned when a face references a missing vertex
	ErrVertexIndexOutOfRange = errors.New("scene: vertex index out of range")

	// ErrTextureIndexOutOfRange is returned when a face references a missing texture
	ErrTextureIndexOutOfRange = errors.New("scene: texture index out of range")

	// ErrUnknownScene is returned when a built-in scene name is not registered
	ErrUnknownScene = errors.New("scene: unknown built-in scene")
)
