// Package viewer shows a progressive render in a window and turns keyboard
// input into camera changes.
package viewer

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-mesh-pathtracer/pkg/log"
	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
)

// keyBindings maps each control to the keys that drive it
var keyBindings = map[Control][]ebiten.Key{
	YawLeft:   {ebiten.KeyA, ebiten.KeyLeft},
	YawRight:  {ebiten.KeyD, ebiten.KeyRight},
	PitchUp:   {ebiten.KeyW, ebiten.KeyUp},
	PitchDown: {ebiten.KeyS, ebiten.KeyDown},
	ZoomIn:    {ebiten.KeyE},
	ZoomOut:   {ebiten.KeyQ},
	PanLeft:   {ebiten.KeyJ},
	PanRight:  {ebiten.KeyL},
	PanUp:     {ebiten.KeyI},
	PanDown:   {ebiten.KeyK},
}

// Game drives one progressive frame per update and displays the result
type Game struct {
	progressive *renderer.Progressive
	params      renderer.CameraParams
	initial     renderer.CameraParams
	logger      log.Logger

	img       *ebiten.Image
	pixels    []byte // RGBA
	lastStats renderer.FrameStats
	showHUD   bool
}

// NewGame wraps a frame driver; the window size is the render resolution
func NewGame(progressive *renderer.Progressive, params renderer.CameraParams, logger log.Logger) *Game {
	return &Game{
		progressive: progressive,
		params:      params,
		initial:     params,
		logger:      logger,
		pixels:      make([]byte, progressive.Width()*progressive.Height()*4),
		showHUD:     true,
	}
}

// Params returns the current camera parameters
func (g *Game) Params() renderer.CameraParams {
	return g.params
}

func keyHeld(c Control) bool {
	for _, key := range keyBindings[c] {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	return false
}

// Update reads input and renders the next frame
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.params = g.initial
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	g.params = StepCamera(g.params, keyHeld)
	g.lastStats = g.progressive.RenderFrame(g.params)
	if g.lastStats.Reset {
		g.logger.Debugf("camera: yaw %.1f pitch %.1f zoom %.2f pan (%.2f, %.2f)",
			g.params.Yaw, g.params.Pitch, g.params.Zoom, g.params.PanX, g.params.PanY)
	}
	return nil
}

// Draw uploads the display buffer
func (g *Game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.progressive.Width(), g.progressive.Height())
	}
	ExpandRGB(g.pixels, g.progressive.Display())
	g.img.WritePixels(g.pixels)
	screen.DrawImage(g.img, nil)

	if g.showHUD {
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"samples: %d  stride: %d\nframe: %v  %.2f Mrays/s\nFPS: %.1f\narrows/WASD rotate  Q/E zoom  IJKL pan  R reset  H hud",
			g.progressive.SampleCount(), g.lastStats.Stride,
			g.lastStats.Duration.Round(time.Microsecond), g.lastStats.RaysPerSecond()/1e6, ebiten.ActualFPS()))
	}
}

// Layout keeps the logical screen at the render resolution
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.progressive.Width(), g.progressive.Height()
}

// ExpandRGB copies a packed RGB buffer into an opaque RGBA buffer
func ExpandRGB(dst, rgb []byte) {
	n := min(len(dst)/4, len(rgb)/3)
	for i := 0; i < n; i++ {
		dst[i*4] = rgb[i*3]
		dst[i*4+1] = rgb[i*3+1]
		dst[i*4+2] = rgb[i*3+2]
		dst[i*4+3] = 255
	}
}

// Run opens the window and blocks until it is closed
func Run(game *Game, title string) error {
	ebiten.SetWindowSize(game.progressive.Width(), game.progressive.Height())
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game.logger.Infof("opening %dx%d viewer", game.progressive.Width(), game.progressive.Height())
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}
