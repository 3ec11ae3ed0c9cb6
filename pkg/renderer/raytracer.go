package renderer

import (
	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/integrator"
)

// RowTask asks a worker to trace one scanline of a frame
type RowTask struct {
	Y      int
	Stride int
	Sample int // Sample index since the last reset, starting at 1
	Jitter bool
	Camera *Camera
}

// RowResult reports the work done for a RowTask
type RowResult struct {
	Y      int
	Pixels int
	Rays   int
}

// Raytracer traces scanlines into a shared accumulation and display buffer.
// Concurrent RenderRow calls must use rows whose blocks do not overlap.
type Raytracer struct {
	integrator integrator.Integrator
	width      int
	height     int
	exposure   float64
	seed       uint32
	pixels     []PixelStats // width*height, row-major
	display    []byte       // width*height*3, row-major RGB
}

// NewRaytracer creates a raytracer writing into the given buffers
func NewRaytracer(integ integrator.Integrator, width, height int, exposure float64, seed uint32, pixels []PixelStats, display []byte) *Raytracer {
	return &Raytracer{
		integrator: integ,
		width:      width,
		height:     height,
		exposure:   exposure,
		seed:       seed,
		pixels:     pixels,
		display:    display,
	}
}

// RenderRow traces one sample for every stride-th pixel of row task.Y. The
// random stream is seeded from the row and sample index only, so a row
// reproduces exactly for the same frame. At strides above one each result
// is replicated over its stride x stride block.
func (rt *Raytracer) RenderRow(task RowTask) RowResult {
	random := core.NewRand(core.PixelSeed(task.Y, task.Sample, rt.seed))
	stride := max(1, task.Stride)
	result := RowResult{Y: task.Y}

	for x := 0; x < rt.width; x += stride {
		px := float64(x) + 0.5
		py := float64(task.Y) + 0.5
		if task.Jitter && stride == 1 {
			px += 0.5 * core.TentSample(random.Float64())
			py += 0.5 * core.TentSample(random.Float64())
		}

		ray := task.Camera.GetRay(px, py)
		pixel := &rt.pixels[task.Y*rt.width+x]
		pixel.AddSample(rt.integrator.Radiance(ray, random))
		result.Pixels++
		result.Rays++

		rgb := rt.toDisplay(pixel.GetColor())
		for by := task.Y; by < min(task.Y+stride, rt.height); by++ {
			for bx := x; bx < min(x+stride, rt.width); bx++ {
				i := (by*rt.width + bx) * 3
				rt.display[i] = rgb[0]
				rt.display[i+1] = rgb[1]
				rt.display[i+2] = rgb[2]
			}
		}
	}

	return result
}

// toDisplay tone maps a linear color to display bytes
func (rt *Raytracer) toDisplay(c core.Vec3) [3]uint8 {
	return [3]uint8{
		ToneMap(c.X, rt.exposure),
		ToneMap(c.Y, rt.exposure),
		ToneMap(c.Z, rt.exposure),
	}
}
