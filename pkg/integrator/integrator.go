package integrator

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Radiance estimates the radiance arriving along ray. random is advanced
	// by the call and is owned by the calling worker.
	Radiance(ray core.Ray, random *core.Rand) core.Vec3
}

// Config holds the path tracer's tunable constants
type Config struct {
	MaxDepth             int     // Maximum number of path vertices
	RouletteDepth        int     // Russian roulette applies at depths strictly greater than this
	Ambient              float64 // Sky radiance returned by rays that escape the scene
	LightCosineFactor    float64 // Scale applied to every next-event estimate
	MaxGeometryTerm      float64 // Ceiling on cos(theta) * area / distance^2
	SelfIntersectEpsilon float64 // Offset applied to secondary ray origins
	ShadowTolerance      float64 // Slack allowed when matching a shadow hit to the light sample
	DielectricIOR        float64 // Index of refraction of dielectric triangles
}

// DefaultConfig returns the default path tracer tuning
func DefaultConfig() Config {
	return Config{
		MaxDepth:             5,
		RouletteDepth:        2,
		Ambient:              0.05,
		LightCosineFactor:    0.25,
		MaxGeometryTerm:      4.0,
		SelfIntersectEpsilon: 1e-4,
		ShadowTolerance:      0.1,
		DielectricIOR:        1.5,
	}
}
