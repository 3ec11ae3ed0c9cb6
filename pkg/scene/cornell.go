package scene

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
)

// NewCornellBoxScene creates a Cornell-style box in normalized scene units.
// The ceiling and front are left open so the overhead area light reaches
// the interior.
func NewCornellBoxScene() (*Scene, error) {
	var b meshBuilder

	// Colored walls are 1x1 solid textures
	white := surface{tag: material.Diffuse, texture: b.addTexture(material.NewSolidTexture(core.NewVec3(0.73, 0.73, 0.73)))}
	red := surface{tag: material.Diffuse, texture: b.addTexture(material.NewSolidTexture(core.NewVec3(0.65, 0.05, 0.05)))}
	green := surface{tag: material.Diffuse, texture: b.addTexture(material.NewSolidTexture(core.NewVec3(0.12, 0.45, 0.15)))}

	boxSize := 2.0
	corner := core.NewVec3(-1, -1, -1)
	x := core.NewVec3(boxSize, 0, 0)
	y := core.NewVec3(0, boxSize, 0)
	z := core.NewVec3(0, 0, boxSize)

	// Floor (white) - XZ plane at y=-1
	b.addQuad(corner, z, x, white)

	// Back wall (white) - XY plane at z=-1
	b.addQuad(corner, y, x, white)

	// Left wall (red) - YZ plane at x=-1
	b.addQuad(corner, z, y, red)

	// Right wall (green) - YZ plane at x=1
	b.addQuad(corner.Add(x), y, z, green)

	// Tall block
	b.addBox(core.NewVec3(-0.6, -1, -0.6), core.NewVec3(-0.05, 0.2, -0.05), white)

	// Short block
	b.addBox(core.NewVec3(0.1, -1, 0.0), core.NewVec3(0.65, -0.4, 0.55), white)

	return b.build()
}
