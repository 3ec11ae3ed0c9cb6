package geometry

import (
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// GroundPlane is an infinite horizontal plane at height Y with normal +Y
type GroundPlane struct {
	Y float64
}

// Normal returns the plane's geometric normal
func (p GroundPlane) Normal() core.Vec3 {
	return core.NewVec3(0, 1, 0)
}

// Hit returns the distance at which the ray crosses the plane. Rays nearly
// parallel to the plane and crossings closer than MinHitDistance miss.
func (p GroundPlane) Hit(ray core.Ray) (float64, bool) {
	if math.Abs(ray.Direction.Y) <= ParallelEpsilon {
		return 0, false
	}
	t := (p.Y - ray.Origin.Y) * ray.InvDir.Y
	if t <= MinHitDistance {
		return 0, false
	}
	return t, true
}
