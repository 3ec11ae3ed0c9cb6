package geometry

import "github.com/df07/go-mesh-pathtracer/pkg/core"

const (
	// ParallelEpsilon rejects rays whose determinant against a triangle is
	// this close to zero (ray parallel to the triangle plane).
	ParallelEpsilon = 1e-6

	// MinHitDistance is the smallest accepted hit distance. It keeps rays
	// from re-hitting the surface they were spawned on.
	MinHitDistance = 1e-4
)

// Triangle holds three indices into a vertex array
type Triangle [3]int

// IntersectTriangle tests a ray against the triangle (v0, v1, v2) using the
// two-edge parametric method. On a hit it returns the distance along the ray
// and the barycentric coordinates u (weight of v1) and v (weight of v2).
//
// The rejection order matters for degenerate input: parallel, then u, then v
// and u+v, then distance.
func IntersectTriangle(ray core.Ray, v0, v1, v2 core.Vec3) (t, u, v float64, ok bool) {
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -ParallelEpsilon && a < ParallelEpsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	t = f * edge2.Dot(q)
	if t <= ParallelEpsilon {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// TriangleNormal returns the unit geometric normal, oriented by the vertex winding
func TriangleNormal(v0, v1, v2 core.Vec3) core.Vec3 {
	return v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
}

// Centroid returns the average of the three vertices
func Centroid(v0, v1, v2 core.Vec3) core.Vec3 {
	return v0.Add(v1).Add(v2).Multiply(1.0 / 3.0)
}
