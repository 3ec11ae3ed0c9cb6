package renderer

import (
	"image"
	"time"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// FrameStats describes one progressive frame
type FrameStats struct {
	Frame         int           // Samples taken since the last reset, including this frame
	Stride        int           // Pixel stride used for this frame
	Rows          int           // Scanlines traced
	PixelsSampled int           // Pixels that received a new sample
	Rays          int           // Primary rays traced
	Reset         bool          // Whether the accumulation buffer was cleared first
	Duration      time.Duration // Wall time spent rendering the frame
}

// RaysPerSecond returns the primary ray throughput of the frame
func (fs FrameStats) RaysPerSecond() float64 {
	if fs.Duration <= 0 {
		return 0
	}
	return float64(fs.Rays) / fs.Duration.Seconds()
}

// PixelStats tracks the running radiance sum for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// CalculateAverageLuminance returns the mean perceptual luminance of an image
// with channels scaled to [0,1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	count := bounds.Dx() * bounds.Dy()
	if count == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += core.NewVec3(float64(c.R), float64(c.G), float64(c.B)).Multiply(1.0 / 255.0).Luminance()
		}
	}
	return total / float64(count)
}
