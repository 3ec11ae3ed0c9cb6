package integrator

import (
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with
// next-event estimation toward the scene's area light
type PathTracingIntegrator struct {
	scene  *scene.Scene
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(s *scene.Scene, config Config) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		scene:  s,
		config: config,
	}
}

// Config returns the integrator configuration
func (pt *PathTracingIntegrator) Config() Config {
	return pt.config
}

// Radiance traces one path starting at ray. Emission from the light is only
// counted on a camera ray or right after a specular bounce; every diffuse
// vertex gathers the light through next-event estimation instead.
func (pt *PathTracingIntegrator) Radiance(ray core.Ray, random *core.Rand) core.Vec3 {
	throughput := core.Splat(1)
	radiance := core.Vec3{}
	emission := core.Splat(pt.scene.Light.Emission)
	specularBounce := false

	for depth := 0; depth < pt.config.MaxDepth; depth++ {
		hit := pt.scene.Intersect(ray, math.Inf(1))

		switch hit.Kind {
		case scene.Miss:
			return radiance.Add(throughput.Multiply(pt.config.Ambient))
		case scene.LightHit:
			if depth == 0 || specularBounce {
				return radiance.Add(throughput.MultiplyVec(emission))
			}
			return radiance
		}

		albedo := pt.scene.Albedo(hit)
		tag := pt.scene.Tag(hit)

		// Orient the normal against the incoming ray
		normal := hit.Normal
		if normal.Dot(ray.Direction) >= 0 {
			normal = normal.Negate()
		}

		if !tag.IsSpecular() {
			radiance = radiance.Add(throughput.MultiplyVec(pt.directLight(hit.Point, normal, albedo, emission, random)))
		}

		f := albedo
		if tag == material.Dielectric {
			f = core.Splat(1)
		}

		if depth > pt.config.RouletteDepth {
			p := f.MaxComponent()
			if random.Float64() >= p {
				break
			}
			f = f.Multiply(1.0 / p)
		}
		throughput = throughput.MultiplyVec(f)

		var direction core.Vec3
		switch tag {
		case material.Mirror:
			direction = material.Reflect(ray.Direction, normal).Normalize()
		case material.Dielectric:
			direction = material.ScatterDielectric(ray.Direction, hit.Normal, pt.config.DielectricIOR, random.Float64())
		default:
			u1 := random.Float64()
			u2 := random.Float64()
			direction = core.SampleCosineHemisphere(normal, u1, u2)
		}
		specularBounce = tag.IsSpecular()

		ray = core.NewRay(hit.Point.Add(direction.Multiply(pt.config.SelfIntersectEpsilon)), direction)
	}

	return radiance
}

// directLight estimates the light arriving at a diffuse point from one
// uniformly sampled point on the light sphere. The sample counts when the
// shadow ray's first hit is the light, no farther than the sample plus the
// shadow tolerance. Samples on the far side of the sphere therefore count
// through the near surface.
func (pt *PathTracingIntegrator) directLight(point, normal, albedo, emission core.Vec3, random *core.Rand) core.Vec3 {
	light := pt.scene.Light
	sample := light.SamplePoint(random)

	toLight := sample.Subtract(point)
	distSq := toLight.LengthSquared()
	dist := math.Sqrt(distSq)
	if dist <= 0 {
		return core.Vec3{}
	}
	lightDir := toLight.Multiply(1.0 / dist)

	shadowRay := core.NewRay(point.Add(normal.Multiply(pt.config.SelfIntersectEpsilon)), lightDir)
	shadowHit := pt.scene.Intersect(shadowRay, dist+pt.config.ShadowTolerance)
	if shadowHit.Kind != scene.LightHit || shadowHit.T >= dist+pt.config.ShadowTolerance {
		return core.Vec3{}
	}

	cosTheta := normal.Dot(lightDir)
	if cosTheta <= 0 {
		return core.Vec3{}
	}

	geometryTerm := math.Min(cosTheta*light.Area()/distSq, pt.config.MaxGeometryTerm)
	return emission.MultiplyVec(albedo).Multiply(geometryTerm * pt.config.LightCosineFactor)
}
