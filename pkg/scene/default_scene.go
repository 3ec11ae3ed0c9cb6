package scene

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
)

// NewDefaultScene creates the scene shown when no mesh is loaded: a plain
// cube and a sphere resting on the checkerboard ground
func NewDefaultScene() (*Scene, error) {
	var b meshBuilder

	b.addBox(core.NewVec3(-1.0, -1.2, -0.5), core.NewVec3(0.0, -0.2, 0.5), plainDiffuse)
	b.addUVSphere(core.NewVec3(0.6, -0.7, 0.0), 0.5, 16, 32, plainDiffuse)

	return b.build()
}

// NewGlassScene creates a scene with a dielectric sphere in front of a
// textured sphere and a mirror panel behind them
func NewGlassScene() (*Scene, error) {
	var b meshBuilder

	glass := surface{tag: material.Dielectric, texture: NoTexture}
	mirror := surface{tag: material.Mirror, texture: b.addTexture(material.NewSolidTexture(core.NewVec3(0.9, 0.9, 0.9)))}
	blue := surface{tag: material.Diffuse, texture: b.addTexture(material.NewSolidTexture(core.NewVec3(0.1, 0.2, 0.5)))}

	b.addUVSphere(core.NewVec3(-0.4, -0.6, 0.4), 0.6, 24, 48, glass)
	b.addUVSphere(core.NewVec3(0.6, -0.8, -0.4), 0.4, 16, 32, blue)

	// Mirror panel standing behind the spheres
	b.addQuad(core.NewVec3(-1.0, -1.2, -1.0), core.NewVec3(2.0, 0, 0), core.NewVec3(0, 1.6, 0), mirror)

	return b.build()
}
