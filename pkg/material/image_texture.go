package material

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

const (
	// TextureGamma is the exponent used to linearize 8-bit texture values
	TextureGamma = 2.2

	// VividnessBoost scales linearized texture values at load time
	VividnessBoost = 1.2
)

// MissingTextureColor is returned when sampling a texture with no pixel data
var MissingTextureColor = core.NewVec3(1, 0, 1)

// Texture is a decoded image in linear color space. Pixels holds three
// float32 channels per texel, row-major, with row 0 at v=0 (the bottom of
// the source image).
type Texture struct {
	Width  int
	Height int
	Pixels []float32
}

// NewTexture wraps an already linear RGB buffer
func NewTexture(width, height int, pixels []float32) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// linearize converts one 8-bit channel to the boosted linear value
func linearize(c uint8) float32 {
	v := math.Pow(float64(c)/255.0, TextureGamma) * VividnessBoost
	return float32(min(v, 1.0))
}

// NewTextureFromRGB8 ingests a raw 8-bit image with 3 (RGB) or 4 (RGBA)
// channels per pixel, stored top row first. Alpha is discarded, rows are
// flipped so v=0 is the bottom row, and values are linearized and boosted
// once here so sampling never applies gamma.
func NewTextureFromRGB8(width, height, channels int, data []byte) *Texture {
	if width <= 0 || height <= 0 || (channels != 3 && channels != 4) || len(data) < width*height*channels {
		return &Texture{}
	}

	pixels := make([]float32, width*height*3)
	for y := 0; y < height; y++ {
		srcRow := (height - 1 - y) * width * channels
		dstRow := y * width * 3
		for x := 0; x < width; x++ {
			src := srcRow + x*channels
			dst := dstRow + x*3
			pixels[dst] = linearize(data[src])
			pixels[dst+1] = linearize(data[src+1])
			pixels[dst+2] = linearize(data[src+2])
		}
	}
	return NewTexture(width, height, pixels)
}

// NewTextureFromImage ingests any decoded image.Image, discarding alpha
func NewTextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	data := make([]byte, width*height*3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			i := (y*width + x) * 3
			data[i] = c.R
			data[i+1] = c.G
			data[i+2] = c.B
		}
	}
	return NewTextureFromRGB8(width, height, 3, data)
}

// IsEmpty reports whether the texture has no usable pixel data
func (t *Texture) IsEmpty() bool {
	return t == nil || t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height*3
}

// texel reads a pixel with its coordinates clamped to the image edges
func (t *Texture) texel(x, y int) core.Vec3 {
	x = max(0, min(x, t.Width-1))
	y = max(0, min(y, t.Height-1))
	i := (y*t.Width + x) * 3
	return core.NewVec3(float64(t.Pixels[i]), float64(t.Pixels[i+1]), float64(t.Pixels[i+2]))
}

// Sample returns the bilinearly filtered linear color at (u, v). UVs tile:
// only their fractional part is used. Texel lookups clamp at the image
// border. An empty texture yields MissingTextureColor.
func (t *Texture) Sample(u, v float64) core.Vec3 {
	if t.IsEmpty() {
		return MissingTextureColor
	}

	u -= math.Floor(u)
	v -= math.Floor(v)

	// Pixel centers sit at half-integer coordinates
	px := u*float64(t.Width) - 0.5
	py := v*float64(t.Height) - 0.5
	x0 := int(math.Floor(px))
	y0 := int(math.Floor(py))
	dx := px - float64(x0)
	dy := py - float64(y0)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)

	bottom := c00.Multiply(1.0 - dx).Add(c10.Multiply(dx))
	top := c01.Multiply(1.0 - dx).Add(c11.Multiply(dx))
	return bottom.Multiply(1.0 - dy).Add(top.Multiply(dy))
}
