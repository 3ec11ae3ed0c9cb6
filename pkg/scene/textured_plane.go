package scene

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
)

// NewTexturedPlaneScene creates a scene demonstrating texture mapping: a
// checkerboard floor tile, a UV debug cube and a tiled sphere
func NewTexturedPlaneScene() (*Scene, error) {
	var b meshBuilder

	checkerboard := surface{
		tag: material.Diffuse,
		texture: b.addTexture(material.NewCheckerboardTexture(256, 256, 32,
			[3]uint8{230, 230, 230}, // White
			[3]uint8{50, 50, 200},   // Blue
		)),
	}
	uvDebug := surface{tag: material.Diffuse, texture: b.addTexture(material.NewUVDebugTexture(256, 256))}

	// Floor tile slightly above the ground plane
	b.addQuad(core.NewVec3(-1.5, -1.1, 1.5), core.NewVec3(3, 0, 0), core.NewVec3(0, 0, -3), checkerboard)

	b.addBox(core.NewVec3(-1.0, -1.1, -0.4), core.NewVec3(-0.2, -0.3, 0.4), uvDebug)
	b.addUVSphere(core.NewVec3(0.6, -0.6, 0.0), 0.5, 16, 32, checkerboard)

	return b.build()
}
