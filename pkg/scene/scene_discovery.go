package scene

import (
	"fmt"
	"sort"
	"strings"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string // Identifier used on the command line
	DisplayName string // Human readable name
	Description string
	build       func() (*Scene, error)
}

var builtinScenes = []SceneInfo{
	{
		Name:        "default",
		DisplayName: "Default",
		Description: "Cube and sphere on the checkerboard ground",
		build:       NewDefaultScene,
	},
	{
		Name:        "cornell",
		DisplayName: "Cornell Box",
		Description: "Open-top Cornell box with two blocks",
		build:       NewCornellBoxScene,
	},
	{
		Name:        "textured",
		DisplayName: "Textured Plane",
		Description: "Checkerboard and UV debug textures",
		build:       NewTexturedPlaneScene,
	},
	{
		Name:        "glass",
		DisplayName: "Glass",
		Description: "Dielectric sphere in front of a mirror",
		build:       NewGlassScene,
	},
	{
		Name:        "spheregrid",
		DisplayName: "Sphere Grid",
		Description: "Grid of colored spheres with mirror accents",
		build:       NewSphereGridScene,
	},
}

// ListBuiltinScenes returns the built-in scenes sorted by display name
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	copy(scenes, builtinScenes)

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes
}

// NewBuiltinScene builds the built-in scene with the given name. Names are
// matched case-insensitively.
func NewBuiltinScene(name string) (*Scene, error) {
	for _, info := range builtinScenes {
		if strings.EqualFold(info.Name, name) {
			s, err := info.build()
			if err != nil {
				return nil, fmt.Errorf("failed to build scene %q: %w", info.Name, err)
			}
			return s, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
}
