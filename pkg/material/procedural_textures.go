package material

import (
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// Ground checkerboard colors, one cell per world unit
var (
	CheckerLight = core.NewVec3(0.8, 0.8, 0.8)
	CheckerDark  = core.NewVec3(0.2, 0.2, 0.2)
)

// CheckerAlbedo returns the procedural ground albedo at a world-space point.
// Cells are 1x1 in XZ; the parity of floor(x)+floor(z) picks the color.
func CheckerAlbedo(p core.Vec3) core.Vec3 {
	if (int(math.Floor(p.X)+math.Floor(p.Z)) & 1) == 0 {
		return CheckerLight
	}
	return CheckerDark
}

// NewCheckerboardTexture creates a procedural checkerboard pattern texture
// from two 8-bit colors, ingested like any loaded image
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 [3]uint8) *Texture {
	data := make([]byte, width*height*3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Alternate colors based on check position
			c := color1
			if (x/checkSize+y/checkSize)%2 != 0 {
				c = color2
			}

			i := (y*width + x) * 3
			data[i], data[i+1], data[i+2] = c[0], c[1], c[2]
		}
	}

	return NewTextureFromRGB8(width, height, 3, data)
}

// NewUVDebugTexture creates a texture showing UV coordinates as colors
// U maps to red channel, V maps to green channel
func NewUVDebugTexture(width, height int) *Texture {
	pixels := make([]float32, width*height*3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			pixels[i] = float32(x) / float32(max(1, width-1))
			pixels[i+1] = float32(y) / float32(max(1, height-1))
		}
	}

	return NewTexture(width, height, pixels)
}

// NewSolidTexture creates a 1x1 texture of a single linear color, used to
// give untextured geometry a tint
func NewSolidTexture(c core.Vec3) *Texture {
	return NewTexture(1, 1, []float32{float32(c.X), float32(c.Y), float32(c.Z)})
}
