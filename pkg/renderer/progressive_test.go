package renderer

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
	"github.com/df07/go-mesh-pathtracer/pkg/log"
	"github.com/df07/go-mesh-pathtracer/pkg/material"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// constantIntegrator returns the same radiance for every ray
type constantIntegrator struct {
	color core.Vec3
	calls atomic.Int64
}

func (c *constantIntegrator) Radiance(ray core.Ray, random *core.Rand) core.Vec3 {
	c.calls.Add(1)
	return c.color
}

func newTestProgressive(t *testing.T, integ *constantIntegrator, width, height int, config ProgressiveConfig) *Progressive {
	t.Helper()
	p, err := NewProgressiveWithIntegrator(integ, width, height, config, log.New("test"))
	if err != nil {
		t.Fatalf("NewProgressiveWithIntegrator: %v", err)
	}
	t.Cleanup(p.Close)
	return p
}

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()

	if config.CoarseStride != 6 {
		t.Errorf("Expected default coarse stride 6, got %d", config.CoarseStride)
	}
	if config.CoarseSamples != 3 {
		t.Errorf("Expected default coarse samples 3, got %d", config.CoarseSamples)
	}
	if !config.Jitter {
		t.Error("Expected jitter enabled by default")
	}
	if config.Integrator.MaxDepth != 5 {
		t.Errorf("Expected default max depth 5, got %d", config.Integrator.MaxDepth)
	}
}

func TestNewProgressiveErrors(t *testing.T) {
	config := DefaultProgressiveConfig()
	config.MaxPixels = 100
	integ := &constantIntegrator{}

	tests := []struct {
		name          string
		width, height int
		want          error
	}{
		{"zero width", 0, 10, ErrInvalidResolution},
		{"negative height", 10, -1, ErrInvalidResolution},
		{"too large", 20, 20, ErrResolutionTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProgressiveWithIntegrator(integ, tt.width, tt.height, config, log.New("test"))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := NewProgressive(nil, 10, 10, config, log.New("test")); !errors.Is(err, ErrNoScene) {
		t.Errorf("expected ErrNoScene, got %v", err)
	}
}

func TestProgressiveStrideSchedule(t *testing.T) {
	config := DefaultProgressiveConfig()
	config.NumWorkers = 2
	integ := &constantIntegrator{color: core.NewVec3(0.5, 0.25, 1)}
	p := newTestProgressive(t, integ, 13, 7, config)
	params := DefaultCameraParams()

	wantStrides := []int{6, 6, 6, 1, 1}
	for i, want := range wantStrides {
		stats := p.RenderFrame(params)
		if stats.Stride != want {
			t.Errorf("frame %d: stride %d, want %d", i+1, stats.Stride, want)
		}
		if stats.Frame != i+1 {
			t.Errorf("frame %d: stats.Frame = %d", i+1, stats.Frame)
		}
		if stats.Reset != (i == 0) {
			t.Errorf("frame %d: reset = %v", i+1, stats.Reset)
		}
	}

	// Coarse frames sample ceil(13/6) x ceil(7/6) pixels
	if p.pixels[0].SampleCount != 5 {
		t.Errorf("block origin has %d samples, want 5", p.pixels[0].SampleCount)
	}
	if p.pixels[1].SampleCount != 2 {
		t.Errorf("off-grid pixel has %d samples, want 2", p.pixels[1].SampleCount)
	}

	want := 3*3*2 + 2*13*7
	if got := int(integ.calls.Load()); got != want {
		t.Errorf("integrator called %d times, want %d", got, want)
	}
}

func TestProgressiveCoarseFillsEveryPixel(t *testing.T) {
	config := DefaultProgressiveConfig()
	integ := &constantIntegrator{color: core.NewVec3(0.5, 0.25, 1)}
	p := newTestProgressive(t, integ, 13, 7, config)

	p.RenderFrame(DefaultCameraParams())

	want := [3]byte{ToneMap(0.5, 1), ToneMap(0.25, 1), ToneMap(1, 1)}
	display := p.Display()
	for i := 0; i < 13*7; i++ {
		got := [3]byte{display[i*3], display[i*3+1], display[i*3+2]}
		if got != want {
			t.Fatalf("pixel %d = %v, want %v", i, got, want)
		}
	}

	img := p.Image()
	if c := img.RGBAAt(12, 6); c.R != want[0] || c.A != 255 {
		t.Errorf("image corner = %v, want %v", c, want)
	}
}

func TestProgressiveResetOnCameraChange(t *testing.T) {
	config := DefaultProgressiveConfig()
	p := newTestProgressive(t, &constantIntegrator{color: core.Splat(1)}, 8, 8, config)

	params := DefaultCameraParams()
	for i := 0; i < 4; i++ {
		p.RenderFrame(params)
	}
	if p.SampleCount() != 4 {
		t.Fatalf("expected 4 samples, got %d", p.SampleCount())
	}

	params.Yaw += 10
	stats := p.RenderFrame(params)
	if !stats.Reset || p.SampleCount() != 1 || stats.Stride != config.CoarseStride {
		t.Errorf("camera change should reset: reset=%v samples=%d stride=%d", stats.Reset, p.SampleCount(), stats.Stride)
	}
	if p.pixels[0].SampleCount != 1 {
		t.Errorf("stale samples kept: %d", p.pixels[0].SampleCount)
	}
}

// renderScene renders frames of a small scene and returns the display buffer
func renderScene(t *testing.T, s *scene.Scene, width, height, frames, workers int, seed uint32) []byte {
	t.Helper()
	config := DefaultProgressiveConfig()
	config.NumWorkers = workers
	config.Seed = seed
	config.CoarseSamples = 0

	p, err := NewProgressive(s, width, height, config, log.New("test"))
	if err != nil {
		t.Fatalf("NewProgressive: %v", err)
	}
	defer p.Close()

	for i := 0; i < frames; i++ {
		p.RenderFrame(DefaultCameraParams())
	}
	return bytes.Clone(p.Display())
}

func TestProgressiveDeterministic(t *testing.T) {
	s, err := scene.NewDefaultScene()
	if err != nil {
		t.Fatalf("NewDefaultScene: %v", err)
	}

	a := renderScene(t, s, 16, 12, 3, 1, 0)
	b := renderScene(t, s, 16, 12, 3, 4, 0)
	if !bytes.Equal(a, b) {
		t.Error("renders with different worker counts differ")
	}

	c := renderScene(t, s, 16, 12, 3, 4, 99)
	if bytes.Equal(a, c) {
		t.Error("renders with different seeds should differ")
	}
}

// TestProgressiveConvergence renders a flat diffuse plane under the light
// and checks that per-pixel variance across seeds shrinks with more samples
func TestProgressiveConvergence(t *testing.T) {
	plane := scene.MeshInput{
		Vertices: []core.Vec3{
			core.NewVec3(-20, -1, -20), core.NewVec3(20, -1, -20),
			core.NewVec3(20, -1, 20), core.NewVec3(-20, -1, 20),
		},
		Faces:    [][]int{{0, 1, 2, 3}},
		FaceTags: []material.Tag{material.Diffuse},
	}
	s, err := scene.New(plane)
	if err != nil {
		t.Fatalf("scene.New: %v", err)
	}

	const width, height, runs = 8, 6, 8
	variance := func(frames int) float64 {
		renders := make([][]byte, runs)
		for r := range renders {
			renders[r] = renderScene(t, s, width, height, frames, 2, uint32(r+1)*7919)
		}

		total := 0.0
		for i := 0; i < width*height*3; i++ {
			mean := 0.0
			for r := range renders {
				mean += float64(renders[r][i])
			}
			mean /= runs
			for r := range renders {
				d := float64(renders[r][i]) - mean
				total += d * d
			}
		}
		return total / float64(width*height*3*runs)
	}

	v1 := variance(1)
	v100 := variance(100)
	if v100 >= v1/4 {
		t.Errorf("variance did not shrink: 1 sample %v, 100 samples %v", v1, v100)
	}
}

func TestRenderProgressive(t *testing.T) {
	config := DefaultProgressiveConfig()
	p := newTestProgressive(t, &constantIntegrator{color: core.Splat(0.3)}, 8, 8, config)

	frames, errs := p.RenderProgressive(context.Background(), DefaultCameraParams(), 5)

	count := 0
	var last FrameResult
	for result := range frames {
		count++
		last = result
	}
	if err := <-errs; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 5 || !last.IsLast || last.Frame != 5 {
		t.Errorf("got %d frames, last %+v", count, last.Stats)
	}
	if last.Image.Bounds().Dx() != 8 {
		t.Errorf("unexpected image size %v", last.Image.Bounds())
	}
}

func TestRenderProgressiveCancelled(t *testing.T) {
	config := DefaultProgressiveConfig()
	p := newTestProgressive(t, &constantIntegrator{}, 4, 4, config)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames, errs := p.RenderProgressive(ctx, DefaultCameraParams(), 10)
	for range frames {
	}
	if err := <-errs; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if p.SampleCount() != 0 {
		t.Errorf("no frame should run after cancellation, got %d samples", p.SampleCount())
	}
}
