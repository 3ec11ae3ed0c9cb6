package loaders

import (
	"fmt"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// minProjectionExtent is the smallest extent divided by; thinner axes map to 0
const minProjectionExtent = 1e-4

// ProjectPlanarUVs computes UVs for the selected faces by projecting them
// onto the axis plane perpendicular to the thinnest dimension of their joint
// bounding box: YZ when x is thinnest, XZ (v flipped) when y is, otherwise XY.
// The result is parallel to selected; invalid face indices get nil.
func ProjectPlanarUVs(vertices []core.Vec3, faces [][]int, selected []int) [][]core.Vec2 {
	bounds := core.EmptyAABB()
	for _, f := range selected {
		if f < 0 || f >= len(faces) {
			continue
		}
		for _, idx := range faces[f] {
			if idx >= 0 && idx < len(vertices) {
				bounds = bounds.Expand(vertices[idx])
			}
		}
	}

	uvs := make([][]core.Vec2, len(selected))
	if !bounds.IsValid() {
		return uvs
	}

	size := bounds.Size()
	dx, dy, dz := size.X, size.Y, size.Z

	var project func(p core.Vec3) core.Vec2
	switch {
	case dx <= dy && dx <= dz:
		dy, dz = projectionExtent(dy), projectionExtent(dz)
		project = func(p core.Vec3) core.Vec2 {
			return core.NewVec2((p.Y-bounds.Min.Y)/dy, (p.Z-bounds.Min.Z)/dz)
		}
	case dy <= dz:
		dx, dz = projectionExtent(dx), projectionExtent(dz)
		project = func(p core.Vec3) core.Vec2 {
			return core.NewVec2((p.X-bounds.Min.X)/dx, 1-(p.Z-bounds.Min.Z)/dz)
		}
	default:
		dx, dy = projectionExtent(dx), projectionExtent(dy)
		project = func(p core.Vec3) core.Vec2 {
			return core.NewVec2((p.X-bounds.Min.X)/dx, (p.Y-bounds.Min.Y)/dy)
		}
	}

	for i, f := range selected {
		if f < 0 || f >= len(faces) {
			continue
		}
		face := faces[f]
		faceUVs := make([]core.Vec2, len(face))
		for k, idx := range face {
			if idx >= 0 && idx < len(vertices) {
				faceUVs[k] = project(vertices[idx])
			}
		}
		uvs[i] = faceUVs
	}
	return uvs
}

func projectionExtent(d float64) float64 {
	if d < minProjectionExtent {
		return 1
	}
	return d
}

// ApplyTexture appends texture to the mesh and assigns it to the selected
// faces with planar-projected UVs. Unselected faces keep their texture and UVs.
func ApplyTexture(mesh *scene.MeshInput, texture *material.Texture, selected []int) error {
	for _, f := range selected {
		if f < 0 || f >= len(mesh.Faces) {
			return fmt.Errorf("face %d of %d: %w", f, len(mesh.Faces), ErrMalformedMesh)
		}
	}

	textureID := len(mesh.Textures)
	mesh.Textures = append(mesh.Textures, texture)

	if len(mesh.FaceTextureIDs) < len(mesh.Faces) {
		ids := make([]int, len(mesh.Faces))
		copy(ids, mesh.FaceTextureIDs)
		for f := len(mesh.FaceTextureIDs); f < len(ids); f++ {
			ids[f] = scene.NoTexture
		}
		mesh.FaceTextureIDs = ids
	}
	if len(mesh.FaceUVs) < len(mesh.Faces) {
		faceUVs := make([][]core.Vec2, len(mesh.Faces))
		copy(faceUVs, mesh.FaceUVs)
		mesh.FaceUVs = faceUVs
	}

	projected := ProjectPlanarUVs(mesh.Vertices, mesh.Faces, selected)
	for i, f := range selected {
		mesh.FaceTextureIDs[f] = textureID
		mesh.FaceUVs[f] = projected[i]
	}
	return nil
}
