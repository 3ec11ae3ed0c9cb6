package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-mesh-pathtracer/pkg/integrator"
	"github.com/df07/go-mesh-pathtracer/pkg/log"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	CoarseStride  int     // Pixel stride right after a reset
	CoarseSamples int     // Frames rendered at the coarse stride before switching to full resolution
	Jitter        bool    // Tent-filtered sub-pixel jitter at full resolution
	NumWorkers    int     // Number of parallel workers (0 = use CPU count)
	Exposure      float64 // Exposure applied before tone mapping
	Seed          uint32  // Salt mixed into every row seed
	MaxPixels     int     // Largest accepted width*height

	Integrator integrator.Config
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		CoarseStride:  6,
		CoarseSamples: 3,
		Jitter:        true,
		NumWorkers:    0, // Auto-detect CPU count
		Exposure:      1.0,
		Seed:          0,
		MaxPixels:     64 * 1024 * 1024,
		Integrator:    integrator.DefaultConfig(),
	}
}

// Progressive accumulates one sample per pixel per frame, restarting
// whenever the camera moves. It owns its buffers and worker pool; the scene
// is shared read-only.
type Progressive struct {
	width, height int
	config        ProgressiveConfig
	camera        *Camera
	sampleCount   int
	pixels        []PixelStats
	display       []byte
	raytracer     *Raytracer
	workerPool    *WorkerPool
	logger        log.Logger
}

// NewProgressive creates a progressive renderer tracing s with the path
// tracing integrator. Close must be called to release the workers.
func NewProgressive(s *scene.Scene, width, height int, config ProgressiveConfig, logger log.Logger) (*Progressive, error) {
	if s == nil {
		return nil, ErrNoScene
	}
	return NewProgressiveWithIntegrator(integrator.NewPathTracingIntegrator(s, config.Integrator), width, height, config, logger)
}

// NewProgressiveWithIntegrator creates a progressive renderer around any
// integrator safe for concurrent use
func NewProgressiveWithIntegrator(integ integrator.Integrator, width, height int, config ProgressiveConfig, logger log.Logger) (*Progressive, error) {
	if integ == nil {
		return nil, ErrNoScene
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidResolution)
	}
	if config.MaxPixels > 0 && width*height > config.MaxPixels {
		return nil, fmt.Errorf("%dx%d exceeds %d pixels: %w", width, height, config.MaxPixels, ErrResolutionTooLarge)
	}
	config.CoarseStride = max(1, config.CoarseStride)

	pixels := make([]PixelStats, width*height)
	display := make([]byte, width*height*3)
	raytracer := NewRaytracer(integ, width, height, config.Exposure, config.Seed, pixels, display)

	workerPool := NewWorkerPool(raytracer, height, config.NumWorkers)
	workerPool.Start()
	logger.Debugf("started %d workers for %dx%d", workerPool.GetNumWorkers(), width, height)

	return &Progressive{
		width:      width,
		height:     height,
		config:     config,
		pixels:     pixels,
		display:    display,
		raytracer:  raytracer,
		workerPool: workerPool,
		logger:     logger,
	}, nil
}

// Width returns the image width in pixels
func (p *Progressive) Width() int {
	return p.width
}

// Height returns the image height in pixels
func (p *Progressive) Height() int {
	return p.height
}

// SampleCount returns the number of frames accumulated since the last reset
func (p *Progressive) SampleCount() int {
	return p.sampleCount
}

// Display returns the tone-mapped row-major RGB buffer. It is overwritten
// by the next frame.
func (p *Progressive) Display() []byte {
	return p.display
}

// Reset discards all accumulated samples
func (p *Progressive) Reset() {
	p.sampleCount = 0
	clear(p.pixels)
	clear(p.display)
}

// Close stops the worker pool
func (p *Progressive) Close() {
	p.workerPool.Stop()
}

// strideFor returns the pixel stride for the given sample index
func (p *Progressive) strideFor(sample int) int {
	if sample <= p.config.CoarseSamples {
		return p.config.CoarseStride
	}
	return 1
}

// RenderFrame adds one sample to every pixel on this frame's grid. A change
// in camera parameters clears the accumulation first.
func (p *Progressive) RenderFrame(params CameraParams) FrameStats {
	start := time.Now()
	stats := FrameStats{}

	if p.camera == nil || p.camera.Params() != params {
		if p.sampleCount > 0 {
			p.logger.Debugf("camera changed after %d samples, resetting accumulation", p.sampleCount)
		}
		p.Reset()
		p.camera = NewCamera(params, p.width, p.height)
		stats.Reset = true
	}

	p.sampleCount++
	stride := p.strideFor(p.sampleCount)
	jitter := p.config.Jitter && stride == 1

	rows := 0
	for y := 0; y < p.height; y += stride {
		p.workerPool.SubmitTask(RowTask{
			Y:      y,
			Stride: stride,
			Sample: p.sampleCount,
			Jitter: jitter,
			Camera: p.camera,
		})
		rows++
	}

	for i := 0; i < rows; i++ {
		result, ok := p.workerPool.GetResult()
		if !ok {
			break
		}
		stats.PixelsSampled += result.Pixels
		stats.Rays += result.Rays
	}

	stats.Frame = p.sampleCount
	stats.Stride = stride
	stats.Rows = rows
	stats.Duration = time.Since(start)

	p.logger.Debugf("frame %d: stride %d, %d rows in %v", stats.Frame, stride, rows, stats.Duration)
	return stats
}

// Image returns a copy of the display buffer as an RGBA image
func (p *Progressive) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	for i := 0; i < p.width*p.height; i++ {
		img.Pix[i*4] = p.display[i*3]
		img.Pix[i*4+1] = p.display[i*3+1]
		img.Pix[i*4+2] = p.display[i*3+2]
		img.Pix[i*4+3] = 255
	}
	return img
}

// FrameResult contains the result of a single progressive frame
type FrameResult struct {
	Frame  int
	Image  *image.RGBA
	Stats  FrameStats
	IsLast bool
}

// RenderProgressive renders frames at a fixed camera with channel-based
// communication. Cancellation is checked between frames; a frame in
// progress always completes. Both channels are closed when rendering stops.
func (p *Progressive) RenderProgressive(ctx context.Context, params CameraParams, frames int) (<-chan FrameResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)

		p.logger.Infof("starting progressive rendering of %d frames at %dx%d", frames, p.width, p.height)

		for frame := 1; frame <= frames; frame++ {
			select {
			case <-ctx.Done():
				p.logger.Infof("rendering cancelled before frame %d", frame)
				errChan <- ctx.Err()
				return
			default:
			}

			stats := p.RenderFrame(params)
			result := FrameResult{
				Frame:  stats.Frame,
				Image:  p.Image(),
				Stats:  stats,
				IsLast: frame == frames,
			}

			select {
			case frameChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return frameChan, errChan
}
