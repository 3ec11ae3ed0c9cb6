package scene

import (
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
)

// meshBuilder accumulates primitives into a MeshInput for the built-in scenes
type meshBuilder struct {
	input MeshInput
}

// surface describes how added faces are shaded
type surface struct {
	tag     material.Tag
	texture int
}

var plainDiffuse = surface{tag: material.Diffuse, texture: NoTexture}

func (b *meshBuilder) addTexture(t *material.Texture) int {
	b.input.Textures = append(b.input.Textures, t)
	return len(b.input.Textures) - 1
}

func (b *meshBuilder) addVertex(p core.Vec3) int {
	b.input.Vertices = append(b.input.Vertices, p)
	return len(b.input.Vertices) - 1
}

func (b *meshBuilder) addFace(face []int, uvs []core.Vec2, s surface) {
	b.input.Faces = append(b.input.Faces, face)
	b.input.FaceUVs = append(b.input.FaceUVs, uvs)
	b.input.FaceTextureIDs = append(b.input.FaceTextureIDs, s.texture)
	b.input.FaceTags = append(b.input.FaceTags, s.tag)
}

// addQuad adds the quad corner, corner+u, corner+u+v, corner+v with UVs
// spanning the unit square
func (b *meshBuilder) addQuad(corner, u, v core.Vec3, s surface) {
	face := []int{
		b.addVertex(corner),
		b.addVertex(corner.Add(u)),
		b.addVertex(corner.Add(u).Add(v)),
		b.addVertex(corner.Add(v)),
	}
	uvs := []core.Vec2{
		core.NewVec2(0, 0),
		core.NewVec2(1, 0),
		core.NewVec2(1, 1),
		core.NewVec2(0, 1),
	}
	b.addFace(face, uvs, s)
}

// addBox adds an axis-aligned box as six outward-facing quads
func (b *meshBuilder) addBox(lo, hi core.Vec3, s surface) {
	dx := core.NewVec3(hi.X-lo.X, 0, 0)
	dy := core.NewVec3(0, hi.Y-lo.Y, 0)
	dz := core.NewVec3(0, 0, hi.Z-lo.Z)

	b.addQuad(lo, dy, dx, s)         // back (-z)
	b.addQuad(lo.Add(dz), dx, dy, s) // front (+z)
	b.addQuad(lo, dz, dy, s)         // left (-x)
	b.addQuad(lo.Add(dx), dy, dz, s) // right (+x)
	b.addQuad(lo, dx, dz, s)         // bottom (-y)
	b.addQuad(lo.Add(dy), dz, dx, s) // top (+y)
}

// addUVSphere adds a latitude/longitude tessellated sphere. Rings share
// vertices so the surface is closed.
func (b *meshBuilder) addUVSphere(center core.Vec3, radius float64, stacks, slices int, s surface) {
	index := func(i, j int) int { return i*(slices+1) + j }
	base := len(b.input.Vertices)

	for i := 0; i <= stacks; i++ {
		theta := math.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			phi := 2 * math.Pi * float64(j) / float64(slices)
			dir := core.NewVec3(math.Sin(theta)*math.Cos(phi), math.Cos(theta), math.Sin(theta)*math.Sin(phi))
			b.addVertex(center.Add(dir.Multiply(radius)))
		}
	}

	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			v0 := float64(i) / float64(stacks)
			v1 := float64(i+1) / float64(stacks)
			u0 := float64(j) / float64(slices)
			u1 := float64(j+1) / float64(slices)
			face := []int{
				base + index(i, j),
				base + index(i, j+1),
				base + index(i+1, j+1),
				base + index(i+1, j),
			}
			uvs := []core.Vec2{
				core.NewVec2(u0, 1-v0),
				core.NewVec2(u1, 1-v0),
				core.NewVec2(u1, 1-v1),
				core.NewVec2(u0, 1-v1),
			}
			b.addFace(face, uvs, s)
		}
	}
}

func (b *meshBuilder) build() (*Scene, error) {
	return New(b.input)
}
