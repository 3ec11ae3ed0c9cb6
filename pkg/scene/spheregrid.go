package scene

import (
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// Convert from OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// Convert LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// Sphere grid layout in normalized scene space
const (
	sphereGridSize   = 8
	sphereGridExtent = 2.0
)

// NewSphereGridScene creates a grid of small spheres on the ground. Hue
// varies along x and chroma along z; every third sphere on a diagonal is a
// mirror.
func NewSphereGridScene() (*Scene, error) {
	var b meshBuilder

	spacing := sphereGridExtent / float64(sphereGridSize-1)
	radius := spacing * 0.35

	const (
		baseLightness = 0.65
		minChroma     = 0.05
		maxChroma     = 0.25
	)

	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			x := float64(i)*spacing - sphereGridExtent/2
			z := float64(j)*spacing - sphereGridExtent/2
			center := core.NewVec3(x, DefaultGroundY+radius, z)

			hue := float64(i) / float64(sphereGridSize-1) * 360.0
			chroma := minChroma + float64(j)/float64(sphereGridSize-1)*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			surf := surface{
				tag:     material.Diffuse,
				texture: b.addTexture(material.NewSolidTexture(oklchToRGB(lightness, chroma, hue))),
			}
			if i == j && i%3 == 0 {
				surf.tag = material.Mirror
			}
			b.addUVSphere(center, radius, 8, 16, surf)
		}
	}

	return b.build()
}
