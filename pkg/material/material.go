package material

import (
	"fmt"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// Tag selects how a triangle's surface scatters light
type Tag uint8

const (
	Diffuse    Tag = 0 // Lambertian, sampled with next-event estimation
	Mirror     Tag = 1 // Perfect reflection tinted by the albedo
	Dielectric Tag = 2 // Clear glass: Fresnel-weighted reflection or refraction
)

// IsSpecular reports whether the surface scatters along a single direction,
// in which case light sampling is skipped at the hit
func (t Tag) IsSpecular() bool {
	return t == Mirror || t == Dielectric
}

func (t Tag) String() string {
	switch t {
	case Diffuse:
		return "diffuse"
	case Mirror:
		return "mirror"
	case Dielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

// DefaultAlbedo is the reflectance of untextured mesh triangles
var DefaultAlbedo = core.NewVec3(0.7, 0.7, 0.7)
