package core

import "math"

// minDirectionComponent replaces near-zero direction components when
// computing the inverse direction so slab tests never divide by zero.
const minDirectionComponent = 1e-8

// Ray represents a ray with an origin, a direction and the precomputed
// reciprocal of each direction component for slab tests.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	InvDir    Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction,
		InvDir: Vec3{
			X: 1.0 / safeComponent(direction.X),
			Y: 1.0 / safeComponent(direction.Y),
			Z: 1.0 / safeComponent(direction.Z),
		},
	}
}

func safeComponent(d float64) float64 {
	if math.Abs(d) > minDirectionComponent {
		return d
	}
	return minDirectionComponent
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
