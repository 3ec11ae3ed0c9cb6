package geometry

import (
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// Sphere is an analytic sphere, used as the emitting area light
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// Hit returns the nearer intersection distance of a unit-direction ray with
// the sphere. Only the entering root is considered, so rays starting inside
// the sphere miss.
func (s Sphere) Hit(ray core.Ray) (float64, bool) {
	op := s.Center.Subtract(ray.Origin)
	b := op.Dot(ray.Direction)
	det := b*b - op.Dot(op) + s.Radius*s.Radius
	if det <= 0 {
		return 0, false
	}
	t := b - math.Sqrt(det)
	if t <= MinHitDistance {
		return 0, false
	}
	return t, true
}

// NormalAt returns the outward unit normal at a point on the surface
func (s Sphere) NormalAt(p core.Vec3) core.Vec3 {
	return p.Subtract(s.Center).Normalize()
}

// Area returns the surface area of the sphere
func (s Sphere) Area() float64 {
	return 4.0 * math.Pi * s.Radius * s.Radius
}

// SamplePoint returns a point uniformly distributed on the sphere surface
func (s Sphere) SamplePoint(random *core.Rand) core.Vec3 {
	return s.Center.Add(core.RandomUnitVector(random).Multiply(s.Radius))
}
