package material

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-5
}

func TestTextureSampleEmpty(t *testing.T) {
	tests := []struct {
		name string
		tex  *Texture
	}{
		{"nil", nil},
		{"zero size", &Texture{}},
		{"short buffer", NewTexture(2, 2, make([]float32, 3))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tex.Sample(0.5, 0.5)
			if !got.Equals(MissingTextureColor) {
				t.Errorf("expected magenta, got %v", got)
			}
		})
	}
}

func TestTextureSampleSinglePixel(t *testing.T) {
	tex := NewTexture(1, 1, []float32{0.25, 0.5, 0.75})
	want := core.NewVec3(0.25, 0.5, 0.75)

	for _, uv := range [][2]float64{{0, 0}, {0.5, 0.5}, {0.99, 0.01}, {3.3, -2.7}} {
		got := tex.Sample(uv[0], uv[1])
		if !got.Equals(want) {
			t.Errorf("Sample(%v, %v) = %v, want %v", uv[0], uv[1], got, want)
		}
	}
}

func TestTextureSampleBilinear(t *testing.T) {
	// 2x1 texture: black on the left, white on the right
	tex := NewTexture(2, 1, []float32{0, 0, 0, 1, 1, 1})

	tests := []struct {
		u    float64
		want float64
	}{
		{0.25, 0.0},  // center of left texel
		{0.75, 1.0},  // center of right texel
		{0.5, 0.5},   // halfway between centers
		{0.1, 0.0},   // left of first center clamps
		{0.9, 1.0},   // right of last center clamps
		{0.375, 0.25}, // quarter of the way
	}

	for _, tt := range tests {
		got := tex.Sample(tt.u, 0.5)
		if !approx(got.X, tt.want) || !approx(got.Y, tt.want) || !approx(got.Z, tt.want) {
			t.Errorf("Sample(%v) = %v, want %v", tt.u, got, tt.want)
		}
	}
}

func TestTextureSampleWraps(t *testing.T) {
	tex := NewTexture(2, 1, []float32{0, 0, 0, 1, 1, 1})

	a := tex.Sample(0.375, 0.5)
	for _, offset := range []float64{1, 2, -1, -5} {
		b := tex.Sample(0.375+offset, 0.5+offset)
		if !approx(a.X, b.X) {
			t.Errorf("offset %v: got %v, want %v", offset, b, a)
		}
	}
}

func TestNewTextureFromRGB8(t *testing.T) {
	// 1x2 image, top row red, bottom row with alpha channel carrying noise
	data := []byte{
		255, 0, 0, 17, // top
		0, 0, 255, 200, // bottom
	}
	tex := NewTextureFromRGB8(1, 2, 4, data)

	if tex.Width != 1 || tex.Height != 2 || len(tex.Pixels) != 6 {
		t.Fatalf("unexpected texture shape %dx%d len %d", tex.Width, tex.Height, len(tex.Pixels))
	}

	// Row 0 is the bottom of the source image after the flip
	if tex.Pixels[2] != 1 || tex.Pixels[0] != 0 {
		t.Errorf("expected blue in row 0, got %v", tex.Pixels[:3])
	}
	if tex.Pixels[3] != 1 || tex.Pixels[5] != 0 {
		t.Errorf("expected red in row 1, got %v", tex.Pixels[3:])
	}
}

func TestLinearizeBoostClamp(t *testing.T) {
	tests := []struct {
		in   uint8
		want float64
	}{
		{0, 0},
		{255, 1}, // 1.2 clamps to 1
		{128, math.Min(math.Pow(128.0/255.0, 2.2)*1.2, 1)},
		{64, math.Pow(64.0/255.0, 2.2) * 1.2},
	}

	for _, tt := range tests {
		got := float64(linearize(tt.in))
		if !approx(got, tt.want) {
			t.Errorf("linearize(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewTextureFromImageFlipsRows(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 255, 255, 255}) // top-left white
	img.Set(1, 0, color.NRGBA{0, 0, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 0, 255})
	img.Set(1, 1, color.NRGBA{0, 0, 0, 0}) // transparent, alpha ignored

	tex := NewTextureFromImage(img)

	// Top-left of the image is the upper-left of UV space
	top := tex.Sample(0.25, 0.75)
	if !approx(top.X, 1) {
		t.Errorf("expected white at uv(0.25, 0.75), got %v", top)
	}
	bottom := tex.Sample(0.25, 0.25)
	if !approx(bottom.X, 0) {
		t.Errorf("expected black at uv(0.25, 0.25), got %v", bottom)
	}
}

func TestNewTextureFromRGB8Invalid(t *testing.T) {
	tests := []struct {
		name                    string
		width, height, channels int
		data                    []byte
	}{
		{"zero width", 0, 1, 3, []byte{1, 2, 3}},
		{"two channels", 1, 1, 2, []byte{1, 2}},
		{"short data", 2, 2, 3, []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := NewTextureFromRGB8(tt.width, tt.height, tt.channels, tt.data)
			if !tex.IsEmpty() {
				t.Errorf("expected empty texture")
			}
		})
	}
}

func TestCheckerAlbedo(t *testing.T) {
	tests := []struct {
		p    core.Vec3
		want core.Vec3
	}{
		{core.NewVec3(0.5, -1.2, 0.5), CheckerLight},
		{core.NewVec3(1.5, -1.2, 0.5), CheckerDark},
		{core.NewVec3(-0.5, -1.2, 0.5), CheckerDark},
		{core.NewVec3(-0.5, -1.2, -0.5), CheckerLight},
		{core.NewVec3(3.2, -1.2, 7.9), CheckerLight},
		{core.NewVec3(3.2, -1.2, 6.9), CheckerDark},
	}

	for _, tt := range tests {
		if got := CheckerAlbedo(tt.p); !got.Equals(tt.want) {
			t.Errorf("CheckerAlbedo(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestProceduralTextures(t *testing.T) {
	checker := NewCheckerboardTexture(4, 4, 2, [3]uint8{255, 255, 255}, [3]uint8{0, 0, 0})
	if checker.IsEmpty() {
		t.Fatal("checkerboard texture is empty")
	}
	if a, b := checker.Sample(0.1, 0.1), checker.Sample(0.9, 0.1); approx(a.X, b.X) {
		t.Errorf("expected different checks, got %v and %v", a, b)
	}

	debug := NewUVDebugTexture(8, 8)
	c := debug.Sample(0.99, 0.01)
	if c.X < 0.9 || c.Y > 0.1 {
		t.Errorf("UV debug texture at (0.99, 0.01) = %v", c)
	}
}

func TestDielectricScatter(t *testing.T) {
	n := core.NewVec3(0, 1, 0)
	d := core.NewVec3(1, -1, 0).Normalize()

	// u=0 always takes the reflected branch once reflectance > 0
	r := ScatterDielectric(d, n, DefaultRefractiveIndex, 0)
	if !approx(r.Y, -d.Y) || !approx(r.X, d.X) {
		t.Errorf("expected reflection, got %v", r)
	}

	// u close to 1 refracts downward into the glass
	tr := ScatterDielectric(d, n, DefaultRefractiveIndex, 0.999)
	if tr.Y >= 0 {
		t.Errorf("expected refraction below the surface, got %v", tr)
	}
	if !approx(tr.Length(), 1) {
		t.Errorf("refracted direction not normalized: %v", tr.Length())
	}
}

func TestTagIsSpecular(t *testing.T) {
	if Diffuse.IsSpecular() || !Mirror.IsSpecular() || !Dielectric.IsSpecular() {
		t.Error("unexpected IsSpecular results")
	}
	if Tag(9).String() != "tag(9)" {
		t.Errorf("unexpected String: %s", Tag(9).String())
	}
}
