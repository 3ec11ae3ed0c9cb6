package material

import (
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// DefaultRefractiveIndex is the index of refraction used for dielectric triangles
const DefaultRefractiveIndex = 1.5

// ScatterDielectric picks the outgoing direction for a ray hitting a
// dielectric surface. normal is the geometric normal in either orientation;
// the side the ray arrives from decides whether it enters or leaves the
// material. u is a uniform sample used to choose between reflection and
// refraction with Schlick's Fresnel approximation.
func ScatterDielectric(direction, normal core.Vec3, refractiveIndex, u float64) core.Vec3 {
	unitDirection := direction.Normalize()

	// Determine if we're entering or exiting the material
	refractionRatio := 1.0 / refractiveIndex
	if unitDirection.Dot(normal) > 0 {
		normal = normal.Negate()
		refractionRatio = refractiveIndex
	}

	cosTheta := math.Min(-unitDirection.Dot(normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	// Check for total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > u {
		return Reflect(unitDirection, normal)
	}
	return refractVector(unitDirection, normal, refractionRatio)
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// refractVector calculates the refraction of a vector using Snell's law
func refractVector(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel).Normalize()
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
