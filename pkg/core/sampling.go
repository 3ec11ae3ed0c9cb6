package core

import "math"

// RandomUnitVector returns a direction uniformly distributed on the unit sphere
func RandomUnitVector(random *Rand) Vec3 {
	z := random.Float64()*2.0 - 1.0
	a := random.Float64() * 2.0 * math.Pi
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	return NewVec3(r*math.Cos(a), r*math.Sin(a), z)
}

// OrthonormalBasis builds two tangents that together with w form a right-handed basis
func OrthonormalBasis(w Vec3) (u, v Vec3) {
	var nt Vec3
	if math.Abs(w.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	u = nt.Cross(w).Normalize()
	v = w.Cross(u)
	return u, v
}

// SampleCosineHemisphere generates a cosine-weighted direction in the hemisphere
// around normal from two uniform samples
func SampleCosineHemisphere(normal Vec3, u1, u2 float64) Vec3 {
	phi := 2.0 * math.Pi * u1
	r := math.Sqrt(u2)

	tangent, bitangent := OrthonormalBasis(normal)
	return tangent.Multiply(math.Cos(phi) * r).
		Add(bitangent.Multiply(math.Sin(phi) * r)).
		Add(normal.Multiply(math.Sqrt(1.0 - u2))).
		Normalize()
}

// TentSample maps a uniform sample in [0,1) to an offset in [-1,1)
// distributed with a tent (triangle) density peaking at 0
func TentSample(u float64) float64 {
	r := 2.0 * u
	if r < 1.0 {
		return math.Sqrt(r) - 1.0
	}
	return 1.0 - math.Sqrt(2.0-r)
}
