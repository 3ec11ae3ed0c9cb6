package scene

import (
	"fmt"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/geometry"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
)

// Scene furniture shared by every render
const (
	DefaultGroundY       = -1.2
	DefaultLightRadius   = 5.0
	DefaultLightEmission = 12.0
)

// DefaultLightCenter is where the area light sits in normalized scene space
var DefaultLightCenter = core.NewVec3(10, 20, 10)

// NoTexture marks an untextured face or triangle
const NoTexture = -1

// MeshInput is the polygonal mesh handed over by the editor or a loader.
// All per-face slices are optional; when present they are indexed like Faces.
type MeshInput struct {
	Vertices       []core.Vec3
	Faces          [][]int
	FaceTextureIDs []int          // NoTexture for untextured faces
	FaceUVs        [][]core.Vec2  // one UV per face vertex
	FaceTags       []material.Tag // material tag per face, Diffuse if absent
	Textures       []*material.Texture
}

// Light is the single spherical area light
type Light struct {
	geometry.Sphere
	Emission float64
}

// DefaultLight returns the light every scene is lit by unless overridden
func DefaultLight() Light {
	return Light{
		Sphere:   geometry.Sphere{Center: DefaultLightCenter, Radius: DefaultLightRadius},
		Emission: DefaultLightEmission,
	}
}

// Scene is the flattened, triangulated render representation. It is built
// once and shared read-only by all render workers.
type Scene struct {
	Vertices   []core.Vec3
	Triangles  []geometry.Triangle
	TextureIDs []int          // per triangle
	UVs        [][3]core.Vec2 // per triangle, valid when HasUVs is set
	HasUVs     []bool         // per triangle
	Tags       []material.Tag // per triangle
	Textures   []*material.Texture
	BVH        *geometry.BVH

	Light  Light
	Ground *geometry.GroundPlane // nil removes the ground plane
}

// New triangulates the mesh, validates its indices and builds the BVH.
// The default light and ground plane are installed; callers may replace
// them before the first frame.
func New(input MeshInput) (*Scene, error) {
	s := &Scene{
		Vertices: input.Vertices,
		Textures: input.Textures,
		Light:    DefaultLight(),
		Ground:   &geometry.GroundPlane{Y: DefaultGroundY},
	}

	for f, face := range input.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(input.Vertices) {
				return nil, fmt.Errorf("face %d references vertex %d of %d: %w", f, idx, len(input.Vertices), ErrVertexIndexOutOfRange)
			}
		}

		texID := NoTexture
		if f < len(input.FaceTextureIDs) {
			texID = input.FaceTextureIDs[f]
			if texID >= len(input.Textures) || texID < NoTexture {
				return nil, fmt.Errorf("face %d references texture %d of %d: %w", f, texID, len(input.Textures), ErrTextureIndexOutOfRange)
			}
		}

		tag := material.Diffuse
		if f < len(input.FaceTags) {
			tag = input.FaceTags[f]
		}

		var uvs []core.Vec2
		if f < len(input.FaceUVs) {
			uvs = input.FaceUVs[f]
		}

		for _, corners := range Triangulate(len(face)) {
			s.Triangles = append(s.Triangles, geometry.Triangle{face[corners[0]], face[corners[1]], face[corners[2]]})
			s.TextureIDs = append(s.TextureIDs, texID)
			s.Tags = append(s.Tags, tag)

			// Faces whose UV list does not cover every vertex render untextured
			if len(uvs) >= len(face) {
				s.UVs = append(s.UVs, [3]core.Vec2{uvs[corners[0]], uvs[corners[1]], uvs[corners[2]]})
				s.HasUVs = append(s.HasUVs, true)
			} else {
				s.UVs = append(s.UVs, [3]core.Vec2{})
				s.HasUVs = append(s.HasUVs, false)
			}
		}
	}

	s.BVH = geometry.NewBVH(s.Vertices, s.Triangles)
	return s, nil
}

// Triangulate returns the corner triples of a fan triangulation of an
// n-gon around its first corner. Triangles pass through, quads split along
// the 0-2 diagonal and faces with fewer than three corners yield nothing.
func Triangulate(n int) [][3]int {
	if n < 3 {
		return nil
	}
	tris := make([][3]int, 0, n-2)
	for i := 1; i+1 < n; i++ {
		tris = append(tris, [3]int{0, i, i + 1})
	}
	return tris
}

// TriangleCount returns the number of triangles after triangulation
func (s *Scene) TriangleCount() int {
	return len(s.Triangles)
}

// HitKind tags what a scene ray struck
type HitKind uint8

const (
	Miss HitKind = iota
	MeshHit
	GroundHit
	LightHit
)

func (k HitKind) String() string {
	switch k {
	case Miss:
		return "miss"
	case MeshHit:
		return "mesh"
	case GroundHit:
		return "ground"
	case LightHit:
		return "light"
	default:
		return fmt.Sprintf("hitkind(%d)", uint8(k))
	}
}

// Hit is the nearest intersection along a ray. Triangle, U and V are only
// meaningful for mesh hits.
type Hit struct {
	Kind     HitKind
	T        float64
	Point    core.Vec3
	Normal   core.Vec3 // geometric normal, not oriented toward the ray
	Triangle int
	U, V     float64
}

// Intersect finds the nearest hit within tMax among the mesh, the ground
// plane and the light. The ground and the light only replace an earlier
// hit when strictly closer. The ray direction must be unit length.
func (s *Scene) Intersect(ray core.Ray, tMax float64) Hit {
	hit := Hit{Kind: Miss, T: tMax}

	if th, ok := s.BVH.Intersect(ray, tMax); ok {
		hit = Hit{
			Kind:     MeshHit,
			T:        th.T,
			Point:    th.Point,
			Normal:   th.Normal,
			Triangle: th.Triangle,
			U:        th.U,
			V:        th.V,
		}
	}

	if s.Ground != nil {
		if t, ok := s.Ground.Hit(ray); ok && t < hit.T {
			hit = Hit{Kind: GroundHit, T: t, Point: ray.At(t), Normal: s.Ground.Normal()}
		}
	}

	if t, ok := s.Light.Hit(ray); ok && t < hit.T {
		p := ray.At(t)
		hit = Hit{Kind: LightHit, T: t, Point: p, Normal: s.Light.NormalAt(p)}
	}

	return hit
}

// Tag returns the material tag of a hit; only mesh triangles carry tags
func (s *Scene) Tag(hit Hit) material.Tag {
	if hit.Kind != MeshHit {
		return material.Diffuse
	}
	return s.Tags[hit.Triangle]
}

// Albedo returns the surface reflectance at a mesh or ground hit. Textured
// triangles sample their texture at the barycentric-interpolated UV.
func (s *Scene) Albedo(hit Hit) core.Vec3 {
	switch hit.Kind {
	case GroundHit:
		return material.CheckerAlbedo(hit.Point)
	case MeshHit:
		texID := s.TextureIDs[hit.Triangle]
		if texID == NoTexture || !s.HasUVs[hit.Triangle] {
			return material.DefaultAlbedo
		}
		uv := s.UVs[hit.Triangle]
		w := 1.0 - hit.U - hit.V
		u := w*uv[0].X + hit.U*uv[1].X + hit.V*uv[2].X
		v := w*uv[0].Y + hit.U*uv[1].Y + hit.V*uv[2].Y
		return s.Textures[texID].Sample(u, v)
	default:
		return core.Vec3{}
	}
}
