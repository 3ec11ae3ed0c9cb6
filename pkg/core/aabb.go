package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that any Expand call will replace
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, point := range points {
		box = box.Expand(point)
	}
	return box
}

// Expand returns the box grown to contain p
func (aabb AABB) Expand(p Vec3) AABB {
	return AABB{Min: aabb.Min.Min(p), Max: aabb.Max.Max(p)}
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// Contains reports whether other lies entirely inside this box
func (aabb AABB) Contains(other AABB) bool {
	return aabb.Min.X <= other.Min.X && aabb.Min.Y <= other.Min.Y && aabb.Min.Z <= other.Min.Z &&
		aabb.Max.X >= other.Max.X && aabb.Max.Y >= other.Max.Y && aabb.Max.Z >= other.Max.Z
}

// ContainsPoint reports whether p lies inside or on the box
func (aabb AABB) ContainsPoint(p Vec3) bool {
	return aabb.Contains(AABB{Min: p, Max: p})
}

// Hit tests the ray against the box with the slab method using the ray's
// precomputed inverse direction. The box counts as hit when the overlap
// interval is non-empty, starts before tMax and ends in front of the origin.
func (aabb AABB) Hit(ray Ray, tMax float64) bool {
	t1 := (aabb.Min.X - ray.Origin.X) * ray.InvDir.X
	t2 := (aabb.Max.X - ray.Origin.X) * ray.InvDir.X
	tNear, tFar := math.Min(t1, t2), math.Max(t1, t2)

	t1 = (aabb.Min.Y - ray.Origin.Y) * ray.InvDir.Y
	t2 = (aabb.Max.Y - ray.Origin.Y) * ray.InvDir.Y
	tNear = math.Max(tNear, math.Min(t1, t2))
	tFar = math.Min(tFar, math.Max(t1, t2))

	t1 = (aabb.Min.Z - ray.Origin.Z) * ray.InvDir.Z
	t2 = (aabb.Max.Z - ray.Origin.Z) * ray.InvDir.Z
	tNear = math.Max(tNear, math.Min(t1, t2))
	tFar = math.Min(tFar, math.Max(t1, t2))

	return tFar >= tNear && tNear < tMax && tFar > 0
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y {
		if size.X > size.Z {
			return 0
		}
		return 2
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}
